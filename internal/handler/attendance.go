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

// AttendanceHandler bundles dependencies for attendance marking and
// lookup.
type AttendanceHandler struct {
	Attendance *repository.AttendanceRepo
	Employees  *repository.EmployeeRepo
}

func NewAttendanceHandler(attendance *repository.AttendanceRepo, employees *repository.EmployeeRepo) *AttendanceHandler {
	if attendance == nil || employees == nil {
		panic("nil repository passed to NewAttendanceHandler")
	}
	return &AttendanceHandler{Attendance: attendance, Employees: employees}
}

const dayLayout = "2006-01-02"

func validStatus(s string) bool {
	return s == model.AttendancePresent || s == model.AttendanceAbsent || s == model.AttendanceHalfDay
}

// Mark handles POST /v1/attendance. Marking the same employee and day
// again overwrites the earlier status.
func (h *AttendanceHandler) Mark(c echo.Context) error {
	var body struct {
		EmployeeID uint64 `json:"employee_id"`
		Day        string `json:"day"`
		Status     string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.EmployeeID == 0 || !validStatus(body.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "employee_id and a valid status are required"})
	}
	day, err := time.Parse(dayLayout, body.Day)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "day must be YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Employees.GetByID(ctx, body.EmployeeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "employee not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	markedBy, _ := getUserID(c)
	a := &model.Attendance{
		EmployeeID: body.EmployeeID,
		Day:        day,
		Status:     body.Status,
		MarkedBy:   markedBy,
	}
	if err := h.Attendance.Mark(ctx, a); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not mark attendance"})
	}
	return c.JSON(http.StatusOK, a)
}

// List handles GET /v1/attendance?employee_id=N&from=...&to=... and
// returns one employee's rows for the period, oldest first.
func (h *AttendanceHandler) List(c echo.Context) error {
	employeeID, err := parseQueryID(c, "employee_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "employee_id is required"})
	}
	from, to, err := parsePeriod(c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Attendance.ListForEmployee(ctx, employeeID, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// parsePeriod parses from/to query dates and checks ordering.
func parsePeriod(fromStr, toStr string) (time.Time, time.Time, error) {
	from, err := time.Parse(dayLayout, fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("from must be YYYY-MM-DD")
	}
	to, err := time.Parse(dayLayout, toStr)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("to must be YYYY-MM-DD")
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, errors.New("to must not precede from")
	}
	return from, to, nil
}
