package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/damoah/buildflow/internal/model"
	"github.com/damoah/buildflow/internal/repository"
)

// CreateEmployee handles POST /v1/employees.
func (h *AdminHandler) CreateEmployee(c echo.Context) error {
	var body struct {
		Name         string `json:"name"`
		Trade        string `json:"trade"`
		DailyRate    uint32 `json:"daily_rate_cents"`
		SupervisorID uint64 `json:"supervisor_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" || body.DailyRate == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and daily_rate_cents are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if body.SupervisorID != 0 {
		if _, err := h.Supervisors.GetByID(ctx, body.SupervisorID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "supervisor not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
	}

	emp := &model.Employee{
		Name:         body.Name,
		Trade:        strings.TrimSpace(body.Trade),
		DailyRate:    body.DailyRate,
		SupervisorID: body.SupervisorID,
		IsActive:     true,
	}
	if err := h.Employees.Create(ctx, emp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create employee"})
	}
	return c.JSON(http.StatusCreated, emp)
}

// ListEmployees handles GET /v1/employees. Supervisors see only their own
// crew; a superadmin may filter with ?supervisor_id=N.
func (h *AdminHandler) ListEmployees(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var supervisorID uint64
	if getRole(c) == model.RoleSupervisor {
		uid, err := getUserID(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		// Supervisors are scoped to their own profile id.
		cred, err := h.Credentials.GetByID(ctx, uid)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		supervisorID = cred.ProfileID
	} else if s := c.QueryParam("supervisor_id"); s != "" {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid supervisor_id"})
		}
		supervisorID = n
	}

	items, err := h.Employees.List(ctx, supervisorID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetEmployee handles GET /v1/employees/:id.
func (h *AdminHandler) GetEmployee(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	emp, err := h.Employees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "employee not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, emp)
}

// UpdateEmployee handles PUT /v1/employees/:id.
func (h *AdminHandler) UpdateEmployee(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Name         string `json:"name"`
		Trade        string `json:"trade"`
		DailyRate    uint32 `json:"daily_rate_cents"`
		SupervisorID uint64 `json:"supervisor_id"`
		IsActive     *bool  `json:"is_active"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.Name) == "" || body.DailyRate == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and daily_rate_cents are required"})
	}
	active := true
	if body.IsActive != nil {
		active = *body.IsActive
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	emp := &model.Employee{
		ID:           id,
		Name:         strings.TrimSpace(body.Name),
		Trade:        strings.TrimSpace(body.Trade),
		DailyRate:    body.DailyRate,
		SupervisorID: body.SupervisorID,
		IsActive:     active,
	}
	if err := h.Employees.Update(ctx, emp); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "employee not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Employees.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteEmployee handles DELETE /v1/employees/:id. Employees with
// attendance history cannot be deleted, only deactivated.
func (h *AdminHandler) DeleteEmployee(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Employees.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "employee not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "employee has attendance history"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
