package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/damoah/buildflow/internal/model"
)

// EmployeeRepo encapsulates queries on the `employees` table.
type EmployeeRepo struct{ DB *sql.DB }

func NewEmployeeRepo(db *sql.DB) *EmployeeRepo { return &EmployeeRepo{DB: db} }

// Create inserts an employee and populates its ID.
func (r *EmployeeRepo) Create(ctx context.Context, e *model.Employee) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO employees (name, trade, daily_rate_cents, supervisor_id, is_active) VALUES (?,?,?,?,?)",
		e.Name, e.Trade, e.DailyRate, e.SupervisorID, e.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// GetByID fetches one employee or ErrNotFound.
func (r *EmployeeRepo) GetByID(ctx context.Context, id uint64) (*model.Employee, error) {
	var e model.Employee
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, trade, daily_rate_cents, supervisor_id, is_active, created_at FROM employees WHERE id=? LIMIT 1", id).
		Scan(&e.ID, &e.Name, &e.Trade, &e.DailyRate, &e.SupervisorID, &e.IsActive, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns employees ordered by id. When supervisorID is non-zero the
// result is limited to that supervisor's crew.
func (r *EmployeeRepo) List(ctx context.Context, supervisorID uint64) ([]*model.Employee, error) {
	q := "SELECT id, name, trade, daily_rate_cents, supervisor_id, is_active, created_at FROM employees"
	args := []any{}
	if supervisorID != 0 {
		q += " WHERE supervisor_id=?"
		args = append(args, supervisorID)
	}
	q += " ORDER BY id"
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Employee
	for rows.Next() {
		var e model.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Trade, &e.DailyRate, &e.SupervisorID, &e.IsActive, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

// ListActive returns every active employee; payroll generation iterates
// this set.
func (r *EmployeeRepo) ListActive(ctx context.Context) ([]*model.Employee, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, trade, daily_rate_cents, supervisor_id, is_active, created_at FROM employees WHERE is_active=1 ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Employee
	for rows.Next() {
		var e model.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Trade, &e.DailyRate, &e.SupervisorID, &e.IsActive, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields of an employee.
func (r *EmployeeRepo) Update(ctx context.Context, e *model.Employee) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE employees SET name=?, trade=?, daily_rate_cents=?, supervisor_id=?, is_active=? WHERE id=?",
		e.Name, e.Trade, e.DailyRate, e.SupervisorID, e.IsActive, e.ID)
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

// Delete removes an employee unless attendance history exists for them.
// The guard sits inside the DELETE itself so a concurrent attendance
// insert cannot slip between a separate check and the delete.
func (r *EmployeeRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM employees WHERE id=? AND NOT EXISTS (SELECT 1 FROM attendance WHERE employee_id=?)",
		id, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Either the employee does not exist or attendance rows block the
		// delete.
		if _, gerr := r.GetByID(ctx, id); gerr != nil {
			return gerr
		}
		return ErrConflict
	}
	return nil
}
