package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/damoah/buildflow/internal/model"
	"github.com/damoah/buildflow/internal/repository"
)

// CreateMaterial handles POST /v1/materials.
func (h *AdminHandler) CreateMaterial(c echo.Context) error {
	var body struct {
		Name       string `json:"name"`
		Unit       string `json:"unit"`
		Quantity   int64  `json:"quantity"`
		SupplierID uint64 `json:"supplier_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	body.Unit = strings.TrimSpace(body.Unit)
	if body.Name == "" || body.Unit == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and unit are required"})
	}
	if body.Quantity < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity cannot be negative"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m := &model.Material{
		Name:       body.Name,
		Unit:       body.Unit,
		Quantity:   body.Quantity,
		SupplierID: body.SupplierID,
	}
	if err := h.Materials.Create(ctx, m); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "material name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create material"})
	}
	return c.JSON(http.StatusCreated, m)
}

// ListMaterials handles GET /v1/materials.
func (h *AdminHandler) ListMaterials(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	items, err := h.Materials.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetMaterial handles GET /v1/materials/:id.
func (h *AdminHandler) GetMaterial(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	m, err := h.Materials.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "material not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, m)
}

// UpdateMaterial handles PUT /v1/materials/:id (name, unit, supplier).
// Stock levels change only through AdjustMaterial.
func (h *AdminHandler) UpdateMaterial(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Name       string `json:"name"`
		Unit       string `json:"unit"`
		SupplierID uint64 `json:"supplier_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.Name) == "" || strings.TrimSpace(body.Unit) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and unit are required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	m := &model.Material{
		ID:         id,
		Name:       strings.TrimSpace(body.Name),
		Unit:       strings.TrimSpace(body.Unit),
		SupplierID: body.SupplierID,
	}
	if err := h.Materials.Update(ctx, m); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "material not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "material name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Materials.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, updated)
}

// AdjustMaterial handles POST /v1/materials/:id/adjust with a signed
// delta. Stock never goes below zero.
func (h *AdminHandler) AdjustMaterial(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Delta int64 `json:"delta"`
	}
	if err := c.Bind(&body); err != nil || body.Delta == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "non-zero delta is required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	m, err := h.Materials.AdjustQuantity(ctx, id, body.Delta)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "material not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "insufficient stock"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "adjust failed"})
	}
	return c.JSON(http.StatusOK, m)
}

// DeleteMaterial handles DELETE /v1/materials/:id.
func (h *AdminHandler) DeleteMaterial(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Materials.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "material not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
