package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/damoah/buildflow/internal/auth"
	"github.com/damoah/buildflow/internal/config"
	"github.com/damoah/buildflow/internal/database"
	"github.com/damoah/buildflow/internal/handler"
	"github.com/damoah/buildflow/internal/queue"
	"github.com/damoah/buildflow/internal/repository"
	"github.com/damoah/buildflow/internal/router"
)

func main() {
	// A missing .env is fine in production; variables come from the host.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables login throttling and the
	// report cache.
	rdb := config.NewRedisClient(config.LoadRedisConfig())

	credRepo := repository.NewCredentialRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	clientRepo := repository.NewClientRepo(db)
	supervisorRepo := repository.NewSupervisorRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	employeeRepo := repository.NewEmployeeRepo(db)
	materialRepo := repository.NewMaterialRepo(db)
	requestRepo := repository.NewMaterialRequestRepo(db)
	attendanceRepo := repository.NewAttendanceRepo(db)
	payrollRepo := repository.NewPayrollRepo(db)
	reportRepo := repository.NewReportRepo(db)

	resolver := auth.NewResolver(credRepo, repository.NewLegacySources(db), cfg.BcryptCost)

	authHandler := handler.NewAuthHandler(cfg, resolver, credRepo, tokenRepo)
	adminHandler := handler.NewAdminHandler(clientRepo, supervisorRepo, supplierRepo,
		employeeRepo, materialRepo, credRepo, cfg.BcryptCost)
	api := router.APIHandlers{
		Admin:      adminHandler,
		Requests:   handler.NewRequestHandler(requestRepo, credRepo),
		Attendance: handler.NewAttendanceHandler(attendanceRepo, employeeRepo),
		Payroll:    handler.NewPayrollHandler(payrollRepo, attendanceRepo, employeeRepo),
		Reports:    handler.NewReportHandler(reportRepo, attendanceRepo, requestRepo, payrollRepo),
	}

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, config.LoadLoginThrottleConfig(), rdb)
	router.RegisterAPI(e, cfg.JWTSecret, api, config.LoadReportCacheConfig(), rdb)

	// The consumer keeps its own reconnect loop; it never takes the
	// server down with it.
	go func() {
		if err := queue.StartRequestConsumer(); err != nil {
			log.Printf("queue consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
