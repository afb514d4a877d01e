package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/damoah/buildflow/internal/model"
)

// PayrollRepo encapsulates queries on the `payroll_entries` table.
type PayrollRepo struct{ DB *sql.DB }

func NewPayrollRepo(db *sql.DB) *PayrollRepo { return &PayrollRepo{DB: db} }

const payrollColumns = "id, employee_id, period_start, period_end, days_present, half_days, amount_cents, status, generated_at"

// HasOpenOverlap reports whether any open payroll entry overlaps the
// given period. Generation refuses to double-pay an overlapping period.
func (r *PayrollRepo) HasOpenOverlap(ctx context.Context, start, end time.Time) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM payroll_entries WHERE status=? AND period_start <= ? AND period_end >= ?",
		model.PayrollOpen, end.Format("2006-01-02"), start.Format("2006-01-02")).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GenerateRun stores every entry of one generation inside a single
// transaction and populates the IDs. A failed insert rolls the whole run
// back, so a generation never leaves a partial set of open entries
// behind.
func (r *PayrollRepo) GenerateRun(ctx context.Context, entries []*model.PayrollEntry) (err error) {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	for _, p := range entries {
		var res sql.Result
		res, err = tx.ExecContext(ctx,
			"INSERT INTO payroll_entries (employee_id, period_start, period_end, days_present, half_days, amount_cents, status) VALUES (?,?,?,?,?,?,?)",
			p.EmployeeID, p.PeriodStart.Format("2006-01-02"), p.PeriodEnd.Format("2006-01-02"),
			p.DaysPresent, p.HalfDays, p.AmountCents, p.Status)
		if err != nil {
			return err
		}
		var id int64
		id, err = res.LastInsertId()
		if err != nil {
			return err
		}
		p.ID = uint64(id)
	}
	return nil
}

// List returns payroll entries newest first, optionally filtered by
// status.
func (r *PayrollRepo) List(ctx context.Context, status string) ([]*model.PayrollEntry, error) {
	q := "SELECT " + payrollColumns + " FROM payroll_entries"
	args := []any{}
	if status != "" {
		q += " WHERE status=?"
		args = append(args, status)
	}
	q += " ORDER BY id DESC"
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.PayrollEntry
	for rows.Next() {
		var p model.PayrollEntry
		if err := rows.Scan(&p.ID, &p.EmployeeID, &p.PeriodStart, &p.PeriodEnd,
			&p.DaysPresent, &p.HalfDays, &p.AmountCents, &p.Status, &p.GeneratedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// GetByID fetches one entry or ErrNotFound.
func (r *PayrollRepo) GetByID(ctx context.Context, id uint64) (*model.PayrollEntry, error) {
	var p model.PayrollEntry
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+payrollColumns+" FROM payroll_entries WHERE id=? LIMIT 1", id).
		Scan(&p.ID, &p.EmployeeID, &p.PeriodStart, &p.PeriodEnd,
			&p.DaysPresent, &p.HalfDays, &p.AmountCents, &p.Status, &p.GeneratedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// MarkPaid moves an open entry to paid. Paying an already-paid entry maps
// to ErrConflict.
func (r *PayrollRepo) MarkPaid(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE payroll_entries SET status=? WHERE id=? AND status=?",
		model.PayrollPaid, id, model.PayrollOpen)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, gerr := r.GetByID(ctx, id); gerr != nil {
			return gerr
		}
		return ErrConflict
	}
	return nil
}

// TotalsByStatus sums amounts per payroll status for reporting.
func (r *PayrollRepo) TotalsByStatus(ctx context.Context) (map[string]uint64, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT status, COALESCE(SUM(amount_cents),0) FROM payroll_entries GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]uint64{}
	for rows.Next() {
		var status string
		var total uint64
		if err := rows.Scan(&status, &total); err != nil {
			return nil, err
		}
		out[status] = total
	}
	return out, rows.Err()
}
