package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"edustaff-backend/internal/auth"
	"edustaff-backend/internal/cache"
	"edustaff-backend/internal/config"
	"edustaff-backend/internal/database"
	"edustaff-backend/internal/db"
	"edustaff-backend/internal/handlers"
	"edustaff-backend/internal/health"
	"edustaff-backend/internal/hierarchy"
	h "edustaff-backend/internal/http"
	"edustaff-backend/internal/logger"
	"edustaff-backend/internal/middleware"
	"edustaff-backend/internal/repositories"
	"edustaff-backend/internal/scheduler"
	"edustaff-backend/internal/services"
	"edustaff-backend/internal/storage"
	"edustaff-backend/migrations"

	"go.uber.org/zap"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	migrateOnly := flag.Bool("migrate-only", false, "Apply database migrations and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	zl, err := logger.New(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		zl.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()

	// Uses embedded migrations for standalone binary operation
	migrator := database.NewMigratorWithFS(pool, migrations.FS, ".", logger.Component(zl, "migrator"))
	if err := migrator.RunMigrations(ctx); err != nil {
		zl.Fatal("migrations failed", zap.Error(err))
	}
	if *migrateOnly {
		zl.Info("migrations applied, exiting")
		return
	}

	if cfg.Redis.Enabled {
		if err := cache.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
			zl.Warn("redis unavailable, job locks disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		} else {
			zl.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
		}
	}
	defer cache.Close()

	policy, err := hierarchy.PolicyByName(cfg.Policy.Name, cfg.PolicyFees())
	if err != nil {
		zl.Fatal("funds policy", zap.Error(err))
	}
	zl.Info("funds policy selected", zap.String("policy", policy.Name()))

	// Repositories
	employeeRepo := repositories.NewEmployeeRepository(pool)
	ledgerRepo := repositories.NewLedgerRepository(pool)
	commissionRepo := repositories.NewCommissionRepository(pool)
	creditRepo := repositories.NewCreditRepository(pool)
	slipRepo := repositories.NewSalarySlipRepository(pool)
	inquiryRepo := repositories.NewInquiryRepository(pool)

	adminCreds, err := auth.LoadAdminCredentials(cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.CredentialsFile)
	if err != nil {
		zl.Fatal("admin credentials", zap.Error(err))
	}
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpirationHours, cfg.JWT.Issuer)

	// Salary slip archive is optional
	var archive services.Archiver
	if cfg.StorageEnabled() {
		s3Archive, err := storage.NewS3Archive(ctx, storage.Options{
			Endpoint:  cfg.Storage.Endpoint,
			Region:    cfg.Storage.Region,
			Bucket:    cfg.Storage.Bucket,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
		})
		if err != nil {
			zl.Fatal("salary slip archive", zap.Error(err))
		}
		archive = s3Archive
		zl.Info("salary slip archive enabled", zap.String("bucket", cfg.Storage.Bucket))
	}

	// Services
	authService := services.NewAuthService(employeeRepo, jwtManager, adminCreds, cfg.Admin.TOTPSecret, logger.Component(zl, "auth"))
	employeeService := services.NewEmployeeService(employeeRepo, policy, logger.Component(zl, "employees"))
	directoryService := services.NewDirectoryService(employeeRepo, commissionRepo)
	ledgerService := services.NewLedgerService(ledgerRepo, employeeRepo, policy, logger.Component(zl, "ledger"))
	reportService := services.NewReportService(ledgerRepo, commissionRepo, employeeRepo,
		rangeRule(cfg.History.Transfers), rangeRule(cfg.History.Commissions))
	creditService := services.NewCreditService(employeeRepo, creditRepo, services.CreditPlan{
		DailyBonusAmount:     cfg.Scheduler.DailyBonusAmount,
		DailyBonusIdempotent: cfg.Scheduler.DailyBonusIdempotent,
		MonthlySalaryAmount:  cfg.Scheduler.MonthlySalaryAmount,
	}, logger.Component(zl, "credits"))
	slipService := services.NewSalarySlipService(employeeRepo, slipRepo, creditRepo, archive,
		cfg.Scheduler.MonthlySalaryAmount, logger.Component(zl, "salary-slips"))
	inquiryService := services.NewInquiryService(inquiryRepo)

	// The scheduler is always built so admins can trigger runs; it only
	// fires on its own when enabled.
	sched, err := scheduler.New(creditService, cache.Locker{}, scheduler.Options{
		Timezone:          cfg.Scheduler.Timezone,
		DailyBonusCron:    cfg.Scheduler.DailyBonusCron,
		MonthlySalaryCron: cfg.Scheduler.MonthlySalaryCron,
		LockTTL:           time.Duration(cfg.Scheduler.LockTTLMinutes) * time.Minute,
	}, logger.Component(zl, "scheduler"))
	if err != nil {
		zl.Fatal("scheduler", zap.Error(err))
	}
	if cfg.Scheduler.Enabled {
		sched.Start()
	}

	collector := services.NewMetricsCollector(employeeRepo, time.Minute, logger.Component(zl, "org-metrics"))
	collector.Start()

	// Handlers
	router := h.NewRouter(
		handlers.NewAuthHandler(authService),
		handlers.NewEmployeeHandler(employeeService, directoryService),
		handlers.NewFundsHandler(ledgerService),
		handlers.NewHistoryHandler(reportService),
		handlers.NewSalarySlipHandler(slipService),
		handlers.NewInquiryHandler(inquiryService),
		handlers.NewJobHandler(sched),
		handlers.NewHealthHandler(health.NewHealthChecker(pool)),
		middleware.NewAuthMiddleware(authService),
	)

	httpLogger := logger.Component(zl, "http")
	handler := middleware.RequestID(
		middleware.AccessLog(httpLogger)(
			middleware.PanicRecovery(httpLogger)(
				middleware.NewCORS(cfg)(router))))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		zl.Info("server listening", zap.String("addr", srv.Addr))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			zl.Error("server failed", zap.Error(err))
		}
	case <-ctx.Done():
		zl.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownSeconds)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("http shutdown", zap.Error(err))
	}
	if err := sched.Stop(shutdownCtx); err != nil {
		zl.Warn("scheduler did not stop cleanly", zap.Error(err))
	}
	collector.Stop()
	zl.Info("server stopped")
}

func rangeRule(r config.RangeConfig) services.RangeRule {
	return services.RangeRule{
		DefaultDays: r.DefaultDays,
		OpenEndCap:  r.OpenEndCap,
		MaxSpanDays: r.MaxSpanDays,
	}
}
