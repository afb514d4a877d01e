package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/damoah/buildflow/internal/model"
)

// AttendanceRepo encapsulates queries on the `attendance` table. The
// table has a unique key on (employee_id, day) so marking the same day
// twice overwrites the earlier status.
type AttendanceRepo struct{ DB *sql.DB }

func NewAttendanceRepo(db *sql.DB) *AttendanceRepo { return &AttendanceRepo{DB: db} }

// Mark upserts one employee's status for one day.
func (r *AttendanceRepo) Mark(ctx context.Context, a *model.Attendance) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO attendance (employee_id, day, status, marked_by) VALUES (?,?,?,?)
		 ON DUPLICATE KEY UPDATE status=VALUES(status), marked_by=VALUES(marked_by)`,
		a.EmployeeID, a.Day.Format("2006-01-02"), a.Status, a.MarkedBy)
	if err != nil {
		return err
	}
	if id, err := res.LastInsertId(); err == nil && id > 0 {
		a.ID = uint64(id)
	}
	return nil
}

// ListForEmployee returns attendance rows for one employee within
// [from, to], oldest first.
func (r *AttendanceRepo) ListForEmployee(ctx context.Context, employeeID uint64, from, to time.Time) ([]*model.Attendance, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, employee_id, day, status, marked_by, created_at FROM attendance WHERE employee_id=? AND day BETWEEN ? AND ? ORDER BY day",
		employeeID, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Attendance
	for rows.Next() {
		var a model.Attendance
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.Day, &a.Status, &a.MarkedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// CountForEmployee returns the number of full and half days an employee
// was present within [from, to]. Payroll generation uses this.
func (r *AttendanceRepo) CountForEmployee(ctx context.Context, employeeID uint64, from, to time.Time) (present, halfDays int, err error) {
	err = r.DB.QueryRowContext(ctx,
		`SELECT
		   COALESCE(SUM(status = ?), 0),
		   COALESCE(SUM(status = ?), 0)
		 FROM attendance WHERE employee_id=? AND day BETWEEN ? AND ?`,
		model.AttendancePresent, model.AttendanceHalfDay,
		employeeID, from.Format("2006-01-02"), to.Format("2006-01-02")).
		Scan(&present, &halfDays)
	return present, halfDays, err
}

// Summary returns per-status totals across all employees for [from, to].
func (r *AttendanceRepo) Summary(ctx context.Context, from, to time.Time) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT status, COUNT(*) FROM attendance WHERE day BETWEEN ? AND ? GROUP BY status",
		from.Format("2006-01-02"), to.Format("2006-01-02"))
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
