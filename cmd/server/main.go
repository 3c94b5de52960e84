package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"office-backend/internal/archive"
	"office-backend/internal/auth"
	"office-backend/internal/cache"
	"office-backend/internal/config"
	"office-backend/internal/database"
	"office-backend/internal/db"
	"office-backend/internal/handlers"
	"office-backend/internal/health"
	h "office-backend/internal/http"
	"office-backend/internal/middleware"
	"office-backend/internal/monitoring"
	"office-backend/internal/repositories"
	"office-backend/internal/services"
	"office-backend/migrations"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	// Connect to PostgreSQL
	pool := db.Connect(cfg)
	defer pool.Close()

	// Initialize Redis cache (optional - graceful fallback if unavailable)
	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (rosters and listings will hit the database)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	// Run database migrations
	// Uses embedded migrations for standalone binary operation
	log.Println("Running database migrations...")
	migrator := database.NewMigrator(pool, migrations.FS)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize health checker
	healthChecker := health.NewHealthChecker(pool)

	// Start monitoring dashboard server in background
	go monitoring.NewMonitoringServer(pool, 9090).Start()

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg)

	// Initialize archive store for raw bulk upload files (nil when unset)
	archiver, err := archive.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize archive store: %v", err)
	}
	if archiver == nil {
		log.Println("[Archive] Not configured, bulk upload files will not be archived")
	}

	// Initialize repositories
	officeRepo := repositories.NewOfficeRepository(pool)
	employeeRepo := repositories.NewEmployeeRepository(pool)
	distributionRepo := repositories.NewDistributionRepository(pool)
	claimRepo := repositories.NewClaimRepository(pool)

	// Initialize services
	employeeService := services.NewEmployeeService(employeeRepo, officeRepo, jwtManager)
	totpService := services.NewTOTPService(employeeRepo, jwtManager, cfg.JWT.Issuer)
	distributionService := services.NewDistributionService(distributionRepo, employeeRepo, officeRepo)
	claimService := services.NewClaimService(claimRepo, distributionRepo, employeeRepo)
	bulkImportService := services.NewBulkImportService(distributionRepo, claimService, officeRepo)
	reportService := services.NewReportService(distributionRepo, claimRepo, officeRepo)

	// Initialize middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, employeeRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	authHandler := handlers.NewAuthHandler(employeeService, totpService)
	totpHandler := handlers.NewTOTPHandler(totpService)
	officeHandler := handlers.NewOfficeHandler(officeRepo, employeeService)
	employeeHandler := handlers.NewEmployeeHandler(employeeService)
	distributionHandler := handlers.NewDistributionHandler(distributionService, claimService)
	bulkImportHandler := handlers.NewBulkImportHandler(bulkImportService, archiver)
	reportHandler := handlers.NewReportHandler(reportService)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	router := h.NewRouter(
		authHandler,
		totpHandler,
		officeHandler,
		employeeHandler,
		distributionHandler,
		bulkImportHandler,
		reportHandler,
		healthHandler,
		authMiddleware,
	)

	handler := middleware.PanicRecovery(
		middleware.MetricsMiddleware(
			corsMiddleware(router),
		),
	)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
