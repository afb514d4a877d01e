package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/damoah/buildflow/internal/model"
)

// MaterialRequestRepo encapsulates queries on the `material_requests`
// table, including the guarded status transitions.
type MaterialRequestRepo struct{ DB *sql.DB }

func NewMaterialRequestRepo(db *sql.DB) *MaterialRequestRepo {
	return &MaterialRequestRepo{DB: db}
}

const requestColumns = "id, supervisor_id, material, quantity, unit, status, notes, created_at, updated_at"

// Create inserts a pending request and populates its ID.
func (r *MaterialRequestRepo) Create(ctx context.Context, m *model.MaterialRequest) error {
	m.Status = model.RequestPending
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO material_requests (supervisor_id, material, quantity, unit, status, notes) VALUES (?,?,?,?,?,?)",
		m.SupervisorID, m.Material, m.Quantity, m.Unit, m.Status, m.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// GetByID fetches one request or ErrNotFound.
func (r *MaterialRequestRepo) GetByID(ctx context.Context, id uint64) (*model.MaterialRequest, error) {
	var m model.MaterialRequest
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+requestColumns+" FROM material_requests WHERE id=? LIMIT 1", id).
		Scan(&m.ID, &m.SupervisorID, &m.Material, &m.Quantity, &m.Unit, &m.Status, &m.Notes, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns requests newest first, optionally filtered by status and/or
// requesting supervisor (zero values disable a filter).
func (r *MaterialRequestRepo) List(ctx context.Context, status string, supervisorID uint64) ([]*model.MaterialRequest, error) {
	q := "SELECT " + requestColumns + " FROM material_requests WHERE 1=1"
	args := []any{}
	if status != "" {
		q += " AND status=?"
		args = append(args, status)
	}
	if supervisorID != 0 {
		q += " AND supervisor_id=?"
		args = append(args, supervisorID)
	}
	q += " ORDER BY id DESC"
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.MaterialRequest
	for rows.Next() {
		var m model.MaterialRequest
		if err := rows.Scan(&m.ID, &m.SupervisorID, &m.Material, &m.Quantity, &m.Unit, &m.Status, &m.Notes, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// Transition moves a request from one status to another. The WHERE clause
// carries the expected current status so concurrent transitions cannot
// both win; a no-op update maps to ErrConflict (wrong current status) or
// ErrNotFound. The updated request is returned.
func (r *MaterialRequestRepo) Transition(ctx context.Context, id uint64, from, to string) (*model.MaterialRequest, error) {
	if !model.CanTransition(from, to) {
		return nil, ErrConflict
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE material_requests SET status=? WHERE id=? AND status=?", to, id, from)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		if _, gerr := r.GetByID(ctx, id); gerr != nil {
			return nil, gerr
		}
		return nil, ErrConflict
	}
	return r.GetByID(ctx, id)
}

// CountByStatus returns how many requests sit in each status.
func (r *MaterialRequestRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT status, COUNT(*) FROM material_requests GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}
