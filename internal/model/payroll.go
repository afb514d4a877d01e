package model

import "time"

// Attendance statuses. One row per employee per calendar day.
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceHalfDay = "half_day"
)

// Attendance mirrors the `attendance` table.
type Attendance struct {
	ID         uint64    // attendance.id
	EmployeeID uint64    // attendance.employee_id
	Day        time.Time // attendance.day (date only)
	Status     string    // one of the Attendance* constants
	MarkedBy   uint64    // credential id of the supervisor who marked it
	CreatedAt  time.Time // attendance.created_at
}

// Payroll run statuses.
const (
	PayrollOpen = "open"
	PayrollPaid = "paid"
)

// PayrollEntry mirrors the `payroll_entries` table: one employee's pay for
// one generated period.
type PayrollEntry struct {
	ID          uint64    // payroll_entries.id
	EmployeeID  uint64    // payroll_entries.employee_id
	PeriodStart time.Time // payroll_entries.period_start (date)
	PeriodEnd   time.Time // payroll_entries.period_end (date)
	DaysPresent int       // full days present in the period
	HalfDays    int       // half days in the period
	AmountCents uint64    // computed pay for the period
	Status      string    // open | paid
	GeneratedAt time.Time // payroll_entries.generated_at
}

// PayAmountCents computes pay for a period: full days count whole, half
// days count half, rounded down to the cent.
func PayAmountCents(daysPresent, halfDays int, dailyRateCents uint32) uint64 {
	if daysPresent < 0 {
		daysPresent = 0
	}
	if halfDays < 0 {
		halfDays = 0
	}
	full := uint64(daysPresent) * uint64(dailyRateCents)
	half := uint64(halfDays) * uint64(dailyRateCents) / 2
	return full + half
}
