package handler // handler defines the HTTP handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/damoah/buildflow/internal/model"
	"github.com/damoah/buildflow/internal/repository"
)

// MaterialStore persists materials and their stock levels. Satisfied by
// *repository.MaterialRepo.
type MaterialStore interface {
	Create(ctx context.Context, m *model.Material) error
	GetByID(ctx context.Context, id uint64) (*model.Material, error)
	List(ctx context.Context) ([]*model.Material, error)
	Update(ctx context.Context, m *model.Material) error
	AdjustQuantity(ctx context.Context, id uint64, delta int64) (*model.Material, error)
	Delete(ctx context.Context, id uint64) error
}

// EmployeeStore persists employees. Satisfied by *repository.EmployeeRepo.
type EmployeeStore interface {
	Create(ctx context.Context, e *model.Employee) error
	GetByID(ctx context.Context, id uint64) (*model.Employee, error)
	List(ctx context.Context, supervisorID uint64) ([]*model.Employee, error)
	Update(ctx context.Context, e *model.Employee) error
	Delete(ctx context.Context, id uint64) error
}

// AdminHandler bundles the repositories behind the superadmin CRUD
// endpoints (clients, supervisors, suppliers, employees, materials).
type AdminHandler struct {
	Clients     *repository.ClientRepo
	Supervisors *repository.SupervisorRepo
	Suppliers   *repository.SupplierRepo
	Employees   EmployeeStore
	Materials   MaterialStore
	Credentials *repository.CredentialRepo
	BcryptCost  int
}

func NewAdminHandler(clients *repository.ClientRepo, supervisors *repository.SupervisorRepo,
	suppliers *repository.SupplierRepo, employees EmployeeStore,
	materials MaterialStore, credentials *repository.CredentialRepo, bcryptCost int) *AdminHandler {
	if clients == nil || supervisors == nil || suppliers == nil || employees == nil || materials == nil || credentials == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{
		Clients:     clients,
		Supervisors: supervisors,
		Suppliers:   suppliers,
		Employees:   employees,
		Materials:   materials,
		Credentials: credentials,
		BcryptCost:  bcryptCost,
	}
}

// getUserID extracts the authenticated credential id from echo.Context.
// JWT numeric claims arrive as float64; tolerate the other encodings.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getRole returns the authenticated role string, or "" when absent.
func getRole(c echo.Context) string {
	if r, ok := c.Get("role").(string); ok {
		return r
	}
	return ""
}

// parseID parses a numeric path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// parseQueryID parses a required numeric query parameter.
func parseQueryID(c echo.Context, name string) (uint64, error) {
	n, err := strconv.ParseUint(c.QueryParam(name), 10, 64)
	if err != nil || n == 0 {
		return 0, errors.New(name + " must be a positive integer")
	}
	return n, nil
}
