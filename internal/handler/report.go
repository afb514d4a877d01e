package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/damoah/buildflow/internal/repository"
)

// ReportHandler serves the read-only aggregate endpoints. Responses are
// cacheable; the report cache middleware stores successful bodies.
type ReportHandler struct {
	Reports    *repository.ReportRepo
	Attendance *repository.AttendanceRepo
	Requests   *repository.MaterialRequestRepo
	Payroll    *repository.PayrollRepo
}

func NewReportHandler(reports *repository.ReportRepo, attendance *repository.AttendanceRepo,
	requests *repository.MaterialRequestRepo, payroll *repository.PayrollRepo) *ReportHandler {
	if reports == nil || attendance == nil || requests == nil || payroll == nil {
		panic("nil repository passed to NewReportHandler")
	}
	return &ReportHandler{Reports: reports, Attendance: attendance, Requests: requests, Payroll: payroll}
}

// Overview handles GET /v1/reports/overview.
func (h *ReportHandler) Overview(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	o, err := h.Reports.GetOverview(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, o)
}

// AttendanceSummary handles GET /v1/reports/attendance?from=...&to=...
// and returns per-status totals across all employees.
func (h *ReportHandler) AttendanceSummary(c echo.Context) error {
	from, to, err := parsePeriod(c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	summary, err := h.Attendance.Summary(ctx, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"from":     from.Format(dayLayout),
		"to":       to.Format(dayLayout),
		"statuses": summary,
	})
}

// RequestSummary handles GET /v1/reports/material-requests and returns
// per-status counts.
func (h *ReportHandler) RequestSummary(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	counts, err := h.Requests.CountByStatus(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"statuses": counts})
}

// PayrollSummary handles GET /v1/reports/payroll and returns total
// amounts per payroll status.
func (h *ReportHandler) PayrollSummary(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	totals, err := h.Payroll.TotalsByStatus(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"totals_cents": totals})
}
