package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/damoah/buildflow/internal/model"
)

// SupplierRepo encapsulates queries on the `suppliers` table.
type SupplierRepo struct{ DB *sql.DB }

func NewSupplierRepo(db *sql.DB) *SupplierRepo { return &SupplierRepo{DB: db} }

// Create inserts a supplier and populates its ID.
func (r *SupplierRepo) Create(ctx context.Context, s *model.Supplier) error {
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO suppliers (name, company, email, phone) VALUES (?,?,?,?)",
		s.Name, s.Company, s.Email, s.Phone)
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

// GetByID fetches one supplier or ErrNotFound.
func (r *SupplierRepo) GetByID(ctx context.Context, id uint64) (*model.Supplier, error) {
	var s model.Supplier
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, company, email, phone, created_at FROM suppliers WHERE id=? LIMIT 1", id).
		Scan(&s.ID, &s.Name, &s.Company, &s.Email, &s.Phone, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns all suppliers ordered by id.
func (r *SupplierRepo) List(ctx context.Context) ([]*model.Supplier, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, company, email, phone, created_at FROM suppliers ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Supplier
	for rows.Next() {
		var s model.Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Company, &s.Email, &s.Phone, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields of a supplier.
func (r *SupplierRepo) Update(ctx context.Context, s *model.Supplier) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE suppliers SET name=?, company=?, phone=? WHERE id=?",
		s.Name, s.Company, s.Phone, s.ID)
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

// Delete removes a supplier unless materials are still sourced from it.
func (r *SupplierRepo) Delete(ctx context.Context, id uint64) error {
	var n int
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM materials WHERE supplier_id=?", id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.DB.ExecContext(ctx, "DELETE FROM suppliers WHERE id=?", id)
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
