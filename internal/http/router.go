package http

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"edustaff-backend/internal/handlers"
	"edustaff-backend/internal/hierarchy"
	"edustaff-backend/internal/middleware"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	employeeHandler *handlers.EmployeeHandler,
	fundsHandler *handlers.FundsHandler,
	historyHandler *handlers.HistoryHandler,
	salarySlipHandler *handlers.SalarySlipHandler,
	inquiryHandler *handlers.InquiryHandler,
	jobHandler *handlers.JobHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)

	// Public API routes - Authentication
	r.HandleFunc("/auth/admin/login", authHandler.AdminLogin).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Public contact form
	r.HandleFunc("/inquiries", inquiryHandler.Submit).Methods("POST")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware.Authenticate)

	// Employees
	api.HandleFunc("/employees", employeeHandler.Create).Methods("POST")
	api.HandleFunc("/employees", employeeHandler.List).Methods("GET")
	api.HandleFunc("/employees/{id}", employeeHandler.Get).Methods("GET")
	api.HandleFunc("/managers/{id}/field-managers", employeeHandler.ManagerTeam).Methods("GET")
	api.HandleFunc("/field-managers/{id}/home-teachers", employeeHandler.FieldManagerTeam).Methods("GET")

	// Funds
	api.HandleFunc("/funds/transfer", fundsHandler.Transfer).Methods("POST")
	api.HandleFunc("/funds/me", fundsHandler.Me).Methods("GET")
	api.HandleFunc("/funds/me/entries", fundsHandler.Entries).Methods("GET")

	// History and commissions
	api.HandleFunc("/history/transfers", historyHandler.Transfers).Methods("POST")
	api.HandleFunc("/history/commissions", historyHandler.Commissions).Methods("POST")
	api.HandleFunc("/commissions/{emp_id}/{year:[0-9]+}/{month:[0-9]+}", historyHandler.Monthly).Methods("GET")

	// Salary slips
	api.HandleFunc("/salary-slips", salarySlipHandler.Generate).Methods("POST")
	api.HandleFunc("/salary-slips", salarySlipHandler.List).Methods("GET")
	api.HandleFunc("/salary-slips/{year:[0-9]+}/{month:[0-9]+}/pdf", salarySlipHandler.PDF).Methods("GET")

	// Organisation-wide views (admin and branch)
	orgAPI := api.NewRoute().Subrouter()
	orgAPI.Use(middleware.RequireRole(hierarchy.Admin, hierarchy.Branch))
	orgAPI.HandleFunc("/hierarchy", employeeHandler.Hierarchy).Methods("GET")
	orgAPI.HandleFunc("/dashboard/stats", employeeHandler.Dashboard).Methods("GET")

	// Admin only
	adminAPI := api.NewRoute().Subrouter()
	adminAPI.Use(middleware.RequireRole(hierarchy.Admin))
	adminAPI.HandleFunc("/funds/{id}/reconcile", fundsHandler.Reconcile).Methods("GET")
	adminAPI.HandleFunc("/inquiries", inquiryHandler.List).Methods("GET")
	adminAPI.HandleFunc("/admin/jobs/{job}/run", jobHandler.Run).Methods("POST")

	// Health endpoints (no auth required - for Kubernetes probes)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
