package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/damoah/buildflow/internal/model"
)

// SupervisorRepo encapsulates queries on the `supervisors` table.
type SupervisorRepo struct{ DB *sql.DB }

func NewSupervisorRepo(db *sql.DB) *SupervisorRepo { return &SupervisorRepo{DB: db} }

// Create inserts a supervisor and populates its ID.
func (r *SupervisorRepo) Create(ctx context.Context, s *model.Supervisor) error {
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO supervisors (name, email, username, password, phone, site) VALUES (?,?,?,?,?,?)",
		s.Name, s.Email, s.Username, s.Password, s.Phone, s.Site)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByID fetches one supervisor or ErrNotFound.
func (r *SupervisorRepo) GetByID(ctx context.Context, id uint64) (*model.Supervisor, error) {
	var s model.Supervisor
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, email, username, phone, site, created_at FROM supervisors WHERE id=? LIMIT 1", id).
		Scan(&s.ID, &s.Name, &s.Email, &s.Username, &s.Phone, &s.Site, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns all supervisors ordered by id.
func (r *SupervisorRepo) List(ctx context.Context) ([]*model.Supervisor, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, email, username, phone, site, created_at FROM supervisors ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Supervisor
	for rows.Next() {
		var s model.Supervisor
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Username, &s.Phone, &s.Site, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields of a supervisor.
func (r *SupervisorRepo) Update(ctx context.Context, s *model.Supervisor) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE supervisors SET name=?, phone=?, site=? WHERE id=?",
		s.Name, s.Phone, s.Site, s.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a supervisor unless employees still report to them.
func (r *SupervisorRepo) Delete(ctx context.Context, id uint64) error {
	var n int
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM employees WHERE supervisor_id=?", id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.DB.ExecContext(ctx, "DELETE FROM supervisors WHERE id=?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
