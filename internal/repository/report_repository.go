package repository

import (
	"context"
	"database/sql"
)

// ReportRepo runs the aggregate queries behind the read-only report
// endpoints. It owns no table of its own.
type ReportRepo struct{ DB *sql.DB }

func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{DB: db} }

// Overview holds the headline counts shown on every dashboard.
type Overview struct {
	Clients         int `json:"clients"`
	Supervisors     int `json:"supervisors"`
	Suppliers       int `json:"suppliers"`
	ActiveEmployees int `json:"active_employees"`
	Materials       int `json:"materials"`
	PendingRequests int `json:"pending_requests"`
}

// GetOverview gathers the counts sequentially; each scalar query is cheap
// and the caller bounds the whole call with one context timeout.
func (r *ReportRepo) GetOverview(ctx context.Context) (*Overview, error) {
	var o Overview
	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM clients", &o.Clients},
		{"SELECT COUNT(*) FROM supervisors", &o.Supervisors},
		{"SELECT COUNT(*) FROM suppliers", &o.Suppliers},
		{"SELECT COUNT(*) FROM employees WHERE is_active=1", &o.ActiveEmployees},
		{"SELECT COUNT(*) FROM materials", &o.Materials},
		{"SELECT COUNT(*) FROM material_requests WHERE status='pending'", &o.PendingRequests},
	}
	for _, c := range counts {
		if err := r.DB.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return nil, err
		}
	}
	return &o, nil
}
