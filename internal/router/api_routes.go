package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/damoah/buildflow/internal/config"
	"github.com/damoah/buildflow/internal/handler"
	"github.com/damoah/buildflow/internal/middleware"
	"github.com/damoah/buildflow/internal/model"
)

// APIHandlers groups the handlers behind the protected /v1 surface.
type APIHandlers struct {
	Admin      *handler.AdminHandler
	Requests   *handler.RequestHandler
	Attendance *handler.AttendanceHandler
	Payroll    *handler.PayrollHandler
	Reports    *handler.ReportHandler
}

// RegisterAPI wires every protected endpoint under /v1. Role checks are
// applied per route group:
//
//	superadmin  – full access
//	supervisor  – own crew, attendance, material requests, reports
//	client      – dashboard overview only
//	supplier    – material stock views and delivery confirmation
func RegisterAPI(e *echo.Echo, jwtSecret string, h APIHandlers,
	cacheCfg config.ReportCacheConfig, rdb *redis.Client) {

	v1 := e.Group("/v1")
	v1.Use(middleware.JWTAuth(jwtSecret))

	admin := v1.Group("", middleware.RequireRole(model.RoleSuperAdmin))

	// People and stock management is superadmin-only.
	admin.POST("/clients", h.Admin.CreateClient)
	admin.GET("/clients", h.Admin.ListClients)
	admin.GET("/clients/:id", h.Admin.GetClient)
	admin.PUT("/clients/:id", h.Admin.UpdateClient)
	admin.DELETE("/clients/:id", h.Admin.DeleteClient)

	admin.POST("/supervisors", h.Admin.CreateSupervisor)
	admin.GET("/supervisors", h.Admin.ListSupervisors)
	admin.GET("/supervisors/:id", h.Admin.GetSupervisor)
	admin.PUT("/supervisors/:id", h.Admin.UpdateSupervisor)
	admin.DELETE("/supervisors/:id", h.Admin.DeleteSupervisor)

	admin.POST("/suppliers", h.Admin.CreateSupplier)
	admin.GET("/suppliers", h.Admin.ListSuppliers)
	admin.GET("/suppliers/:id", h.Admin.GetSupplier)
	admin.PUT("/suppliers/:id", h.Admin.UpdateSupplier)
	admin.DELETE("/suppliers/:id", h.Admin.DeleteSupplier)

	admin.POST("/employees", h.Admin.CreateEmployee)
	admin.PUT("/employees/:id", h.Admin.UpdateEmployee)
	admin.DELETE("/employees/:id", h.Admin.DeleteEmployee)

	// Supervisors read their own crew; the handler scopes the listing.
	crew := v1.Group("/employees", middleware.RequireRole(model.RoleSuperAdmin, model.RoleSupervisor))
	crew.GET("", h.Admin.ListEmployees)
	crew.GET("/:id", h.Admin.GetEmployee)

	admin.POST("/materials", h.Admin.CreateMaterial)
	admin.PUT("/materials/:id", h.Admin.UpdateMaterial)
	admin.POST("/materials/:id/adjust", h.Admin.AdjustMaterial)
	admin.DELETE("/materials/:id", h.Admin.DeleteMaterial)

	stock := v1.Group("/materials", middleware.RequireRole(model.RoleSuperAdmin, model.RoleSupervisor, model.RoleSupplier))
	stock.GET("", h.Admin.ListMaterials)
	stock.GET("/:id", h.Admin.GetMaterial)

	// Material request lifecycle: supervisors open requests, superadmins
	// decide, suppliers confirm delivery.
	req := v1.Group("/material-requests")
	req.POST("", h.Requests.CreateRequest, middleware.RequireRole(model.RoleSupervisor))
	req.GET("", h.Requests.ListRequests, middleware.RequireRole(model.RoleSuperAdmin, model.RoleSupervisor))
	req.GET("/:id", h.Requests.GetRequest, middleware.RequireRole(model.RoleSuperAdmin, model.RoleSupervisor, model.RoleSupplier))
	req.POST("/:id/approve", h.Requests.ApproveRequest, middleware.RequireRole(model.RoleSuperAdmin))
	req.POST("/:id/reject", h.Requests.RejectRequest, middleware.RequireRole(model.RoleSuperAdmin))
	req.POST("/:id/deliver", h.Requests.DeliverRequest, middleware.RequireRole(model.RoleSuperAdmin, model.RoleSupplier))

	att := v1.Group("/attendance", middleware.RequireRole(model.RoleSuperAdmin, model.RoleSupervisor))
	att.POST("", h.Attendance.Mark)
	att.GET("", h.Attendance.List)

	pay := v1.Group("/payroll", middleware.RequireRole(model.RoleSuperAdmin))
	pay.POST("/generate", h.Payroll.Generate)
	pay.GET("", h.Payroll.List)
	pay.GET("/:id", h.Payroll.Get)
	pay.POST("/:id/pay", h.Payroll.Pay)

	// The overview is cached in redis when available; every role can see
	// the headline numbers.
	cache := middleware.ReportCache(cacheCfg, rdb)
	v1.GET("/reports/overview", h.Reports.Overview,
		middleware.RequireRole(model.RoleSuperAdmin, model.RoleSupervisor, model.RoleClient, model.RoleSupplier), cache)

	rep := v1.Group("/reports", middleware.RequireRole(model.RoleSuperAdmin, model.RoleSupervisor))
	rep.GET("/attendance", h.Reports.AttendanceSummary, cache)
	rep.GET("/material-requests", h.Reports.RequestSummary, cache)
	rep.GET("/payroll", h.Reports.PayrollSummary, cache)
}
