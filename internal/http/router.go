package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"office-backend/internal/handlers"
	"office-backend/internal/middleware"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	totpHandler *handlers.TOTPHandler,
	officeHandler *handlers.OfficeHandler,
	employeeHandler *handlers.EmployeeHandler,
	distributionHandler *handlers.DistributionHandler,
	bulkImportHandler *handlers.BulkImportHandler,
	reportHandler *handlers.ReportHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	adminOnly := authMiddleware.RequireAdmin

	// Public API routes - Authentication
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/auth/totp/verify", authHandler.TOTPVerify).Methods("POST")

	// Protected API routes - TOTP enrollment (admins securing their accounts)
	totpAPI := r.PathPrefix("/api/totp").Subrouter()
	totpAPI.Use(adminOnly)
	totpAPI.HandleFunc("/setup", totpHandler.Setup).Methods("POST")
	totpAPI.HandleFunc("/enable", totpHandler.Enable).Methods("POST")

	// Protected API routes - Offices
	officesAPI := r.PathPrefix("/api/offices").Subrouter()
	officesAPI.Use(authMiddleware.Authenticate)
	officesAPI.HandleFunc("", officeHandler.ListOffices).Methods("GET")
	officesAPI.HandleFunc("", adminOnly(http.HandlerFunc(officeHandler.CreateOffice)).ServeHTTP).Methods("POST")
	officesAPI.HandleFunc("/{id}/employees", officeHandler.ListOfficeEmployees).Methods("GET")

	// Protected API routes - Employees (admin only)
	employeesAPI := r.PathPrefix("/api/employees").Subrouter()
	employeesAPI.Use(adminOnly)
	employeesAPI.HandleFunc("", employeeHandler.ListEmployees).Methods("GET")
	employeesAPI.HandleFunc("", employeeHandler.CreateEmployee).Methods("POST")
	employeesAPI.HandleFunc("/{id}/active", employeeHandler.SetActive).Methods("PATCH")

	// Protected API routes - Distributions
	distributionsAPI := r.PathPrefix("/api/distributions").Subrouter()
	distributionsAPI.Use(authMiddleware.Authenticate)
	distributionsAPI.HandleFunc("", distributionHandler.ListDistributions).Methods("GET")
	distributionsAPI.HandleFunc("", adminOnly(http.HandlerFunc(distributionHandler.CreateDistribution)).ServeHTTP).Methods("POST")
	distributionsAPI.HandleFunc("/bulk-upload", adminOnly(http.HandlerFunc(bulkImportHandler.Upload)).ServeHTTP).Methods("POST")
	distributionsAPI.HandleFunc("/{id}", distributionHandler.GetDistribution).Methods("GET")
	distributionsAPI.HandleFunc("/{id}", adminOnly(http.HandlerFunc(distributionHandler.DeleteDistribution)).ServeHTTP).Methods("DELETE")
	distributionsAPI.HandleFunc("/{id}/claims", distributionHandler.ListClaims).Methods("GET")
	distributionsAPI.HandleFunc("/{id}/claims", distributionHandler.SelfClaim).Methods("POST")
	distributionsAPI.HandleFunc("/{id}/claims/mark", adminOnly(http.HandlerFunc(distributionHandler.MarkClaim)).ServeHTTP).Methods("POST")
	distributionsAPI.HandleFunc("/{id}/eligible", distributionHandler.ListEligible).Methods("GET")
	distributionsAPI.HandleFunc("/{id}/report.csv", adminOnly(http.HandlerFunc(reportHandler.ClaimSheetCSV)).ServeHTTP).Methods("GET")
	distributionsAPI.HandleFunc("/{id}/report.pdf", adminOnly(http.HandlerFunc(reportHandler.ClaimSheetPDF)).ServeHTTP).Methods("GET")

	// Protected API routes - Claims (reversal by id)
	claimsAPI := r.PathPrefix("/api/claims").Subrouter()
	claimsAPI.Use(adminOnly)
	claimsAPI.HandleFunc("/{id}", distributionHandler.DeleteClaim).Methods("DELETE")

	// Health endpoints (no auth required - for Kubernetes probes)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
