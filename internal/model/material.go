package model

import "time"

// Material mirrors the `materials` table. Quantity is tracked in whole
// units of the named unit (bags, tons, pieces).
type Material struct {
	ID         uint64    // materials.id
	Name       string    // materials.name (unique)
	Unit       string    // materials.unit
	Quantity   int64     // materials.quantity, never negative
	SupplierID uint64    // materials.supplier_id (0 when unsourced)
	CreatedAt  time.Time // materials.created_at
	UpdatedAt  time.Time // materials.updated_at
}

// Material request lifecycle. A request starts pending, a superadmin
// approves or rejects it, and a supplier marks an approved request
// delivered. Any other transition is rejected.
const (
	RequestPending   = "pending"
	RequestApproved  = "approved"
	RequestRejected  = "rejected"
	RequestDelivered = "delivered"
)

// MaterialRequest mirrors the `material_requests` table.
type MaterialRequest struct {
	ID           uint64    // material_requests.id
	SupervisorID uint64    // material_requests.supervisor_id (requester)
	Material     string    // material_requests.material
	Quantity     int64     // material_requests.quantity
	Unit         string    // material_requests.unit
	Status       string    // one of the Request* constants
	Notes        string    // material_requests.notes
	CreatedAt    time.Time // material_requests.created_at
	UpdatedAt    time.Time // material_requests.updated_at
}

// CanTransition reports whether a request in status `from` may move to
// status `to`.
func CanTransition(from, to string) bool {
	switch from {
	case RequestPending:
		return to == RequestApproved || to == RequestRejected
	case RequestApproved:
		return to == RequestDelivered
	default:
		return false
	}
}
