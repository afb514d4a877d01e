// Package queue defines message payloads exchanged over the message broker.
package queue

// MaterialRequestEvent is published on every material request status
// transition (created, approved, rejected, delivered). It carries enough
// context for downstream consumers to log or notify without querying the
// primary database.
type MaterialRequestEvent struct {
	RequestID    uint64 `json:"request_id"`
	SupervisorID uint64 `json:"supervisor_id"`
	Material     string `json:"material"`
	Quantity     int64  `json:"quantity"`
	Unit         string `json:"unit"`
	Status       string `json:"status"`
	ActorID      uint64 `json:"actor_id"`
	OccurredAt   string `json:"occurred_at"`
}
