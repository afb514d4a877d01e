package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/damoah/buildflow/internal/model"
	"github.com/damoah/buildflow/internal/repository"
)

// PayrollStore persists payroll entries. Satisfied by
// *repository.PayrollRepo.
type PayrollStore interface {
	HasOpenOverlap(ctx context.Context, start, end time.Time) (bool, error)
	GenerateRun(ctx context.Context, entries []*model.PayrollEntry) error
	List(ctx context.Context, status string) ([]*model.PayrollEntry, error)
	GetByID(ctx context.Context, id uint64) (*model.PayrollEntry, error)
	MarkPaid(ctx context.Context, id uint64) error
}

// AttendanceCounter tallies attendance per employee over a period.
// Satisfied by *repository.AttendanceRepo.
type AttendanceCounter interface {
	CountForEmployee(ctx context.Context, employeeID uint64, from, to time.Time) (present, halfDays int, err error)
}

// EmployeeRoster lists the active employees payroll generation iterates.
// Satisfied by *repository.EmployeeRepo.
type EmployeeRoster interface {
	ListActive(ctx context.Context) ([]*model.Employee, error)
}

// PayrollHandler bundles dependencies for payroll generation and payment.
type PayrollHandler struct {
	Payroll    PayrollStore
	Attendance AttendanceCounter
	Employees  EmployeeRoster
}

func NewPayrollHandler(payroll PayrollStore, attendance AttendanceCounter, employees EmployeeRoster) *PayrollHandler {
	if payroll == nil || attendance == nil || employees == nil {
		panic("nil repository passed to NewPayrollHandler")
	}
	return &PayrollHandler{Payroll: payroll, Attendance: attendance, Employees: employees}
}

// Generate handles POST /v1/payroll/generate. One entry is created per
// active employee with attendance in the period. A period overlapping an
// open run is refused.
func (h *PayrollHandler) Generate(c echo.Context) error {
	var body struct {
		PeriodStart string `json:"period_start"`
		PeriodEnd   string `json:"period_end"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	from, to, err := parsePeriod(body.PeriodStart, body.PeriodEnd)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	overlap, err := h.Payroll.HasOpenOverlap(ctx, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if overlap {
		return c.JSON(http.StatusConflict, echo.Map{"error": "an open payroll run overlaps this period"})
	}

	employees, err := h.Employees.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	entries := make([]*model.PayrollEntry, 0, len(employees))
	for _, emp := range employees {
		present, halfDays, err := h.Attendance.CountForEmployee(ctx, emp.ID, from, to)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		if present == 0 && halfDays == 0 {
			continue
		}
		entries = append(entries, &model.PayrollEntry{
			EmployeeID:  emp.ID,
			PeriodStart: from,
			PeriodEnd:   to,
			DaysPresent: present,
			HalfDays:    halfDays,
			AmountCents: model.PayAmountCents(present, halfDays, emp.DailyRate),
			Status:      model.PayrollOpen,
		})
	}

	// All entries land in one transaction so a failure cannot leave a
	// partial run behind.
	if err := h.Payroll.GenerateRun(ctx, entries); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not store payroll run"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"items": entries, "count": len(entries)})
}

// List handles GET /v1/payroll with optional ?status= filtering.
func (h *PayrollHandler) List(c echo.Context) error {
	status := c.QueryParam("status")
	if status != "" && status != model.PayrollOpen && status != model.PayrollPaid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	items, err := h.Payroll.List(ctx, status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/payroll/:id.
func (h *PayrollHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	entry, err := h.Payroll.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payroll entry not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, entry)
}

// Pay handles POST /v1/payroll/:id/pay, moving an open entry to paid.
func (h *PayrollHandler) Pay(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Payroll.MarkPaid(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payroll entry not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "entry is already paid"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "pay failed"})
	}
	entry, err := h.Payroll.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, entry)
}
