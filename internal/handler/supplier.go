package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/damoah/buildflow/internal/auth"
	"github.com/damoah/buildflow/internal/model"
	"github.com/damoah/buildflow/internal/repository"
)

// CreateSupplier handles POST /v1/suppliers. Suppliers have no legacy
// identity table, so a login credential is created directly in the
// unified store when a password is supplied.
func (h *AdminHandler) CreateSupplier(c echo.Context) error {
	var body struct {
		Name     string `json:"name"`
		Company  string `json:"company"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	body.Email = strings.TrimSpace(body.Email)
	if body.Name == "" || body.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and email are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sup := &model.Supplier{
		Name:    body.Name,
		Company: strings.TrimSpace(body.Company),
		Email:   body.Email,
		Phone:   strings.TrimSpace(body.Phone),
	}
	if err := h.Suppliers.Create(ctx, sup); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create supplier"})
	}

	if body.Password != "" {
		hash, err := auth.HashPassword(body.Password, h.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create supplier login"})
		}
		if _, err := h.Credentials.CreateForSupplier(ctx, sup.Email, hash, sup.ID, sup.Name); err != nil {
			if errors.Is(err, auth.ErrDuplicateIdentity) {
				return c.JSON(http.StatusConflict, echo.Map{"error": "login already exists for this email"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create supplier login"})
		}
	}
	return c.JSON(http.StatusCreated, sup)
}

// ListSuppliers handles GET /v1/suppliers.
func (h *AdminHandler) ListSuppliers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	items, err := h.Suppliers.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetSupplier handles GET /v1/suppliers/:id.
func (h *AdminHandler) GetSupplier(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	sup, err := h.Suppliers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "supplier not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, sup)
}

// UpdateSupplier handles PUT /v1/suppliers/:id.
func (h *AdminHandler) UpdateSupplier(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Name    string `json:"name"`
		Company string `json:"company"`
		Phone   string `json:"phone"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	sup := &model.Supplier{
		ID:      id,
		Name:    strings.TrimSpace(body.Name),
		Company: strings.TrimSpace(body.Company),
		Phone:   strings.TrimSpace(body.Phone),
	}
	if err := h.Suppliers.Update(ctx, sup); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "supplier not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Suppliers.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteSupplier handles DELETE /v1/suppliers/:id. Suppliers that still
// source materials cannot be deleted.
func (h *AdminHandler) DeleteSupplier(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Suppliers.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "supplier not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "supplier still sources materials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
