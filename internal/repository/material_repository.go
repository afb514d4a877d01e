package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/damoah/buildflow/internal/model"
)

// MaterialRepo encapsulates queries on the `materials` table.
type MaterialRepo struct{ DB *sql.DB }

func NewMaterialRepo(db *sql.DB) *MaterialRepo { return &MaterialRepo{DB: db} }

// Create inserts a material and populates its ID. Material names are
// unique; a duplicate insert maps to ErrConflict.
func (r *MaterialRepo) Create(ctx context.Context, m *model.Material) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO materials (name, unit, quantity, supplier_id) VALUES (?,?,?,?)",
		m.Name, m.Unit, m.Quantity, m.SupplierID)
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
	m.ID = uint64(id)
	return nil
}

// GetByID fetches one material or ErrNotFound.
func (r *MaterialRepo) GetByID(ctx context.Context, id uint64) (*model.Material, error) {
	var m model.Material
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, unit, quantity, supplier_id, created_at, updated_at FROM materials WHERE id=? LIMIT 1", id).
		Scan(&m.ID, &m.Name, &m.Unit, &m.Quantity, &m.SupplierID, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns all materials ordered by name.
func (r *MaterialRepo) List(ctx context.Context) ([]*model.Material, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, unit, quantity, supplier_id, created_at, updated_at FROM materials ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Material
	for rows.Next() {
		var m model.Material
		if err := rows.Scan(&m.ID, &m.Name, &m.Unit, &m.Quantity, &m.SupplierID, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields of a material.
func (r *MaterialRepo) Update(ctx context.Context, m *model.Material) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE materials SET name=?, unit=?, supplier_id=? WHERE id=?",
		m.Name, m.Unit, m.SupplierID, m.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
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

// AdjustQuantity applies a signed delta to the stock level. The guarded
// UPDATE keeps the quantity from going negative even under concurrent
// adjustments; an underflow maps to ErrConflict.
func (r *MaterialRepo) AdjustQuantity(ctx context.Context, id uint64, delta int64) (*model.Material, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE materials SET quantity = quantity + ? WHERE id=? AND quantity + ? >= 0",
		delta, id, delta)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Either the material does not exist or the delta would underflow.
		if _, gerr := r.GetByID(ctx, id); gerr != nil {
			return nil, gerr
		}
		return nil, ErrConflict
	}
	return r.GetByID(ctx, id)
}

// Delete removes a material row.
func (r *MaterialRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM materials WHERE id=?", id)
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
