package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gilponto/ponto-backend-go/internal/config"
	"github.com/gilponto/ponto-backend-go/internal/domain/auth"
	"github.com/gilponto/ponto-backend-go/internal/domain/employee"
	"github.com/gilponto/ponto-backend-go/internal/domain/payroll"
	"github.com/gilponto/ponto-backend-go/internal/domain/timelog"
	"github.com/gilponto/ponto-backend-go/internal/domain/verification"
	appHTTP "github.com/gilponto/ponto-backend-go/internal/handler/http"
	"github.com/gilponto/ponto-backend-go/internal/pkg/cron"
	"github.com/gilponto/ponto-backend-go/internal/pkg/database"
	"github.com/gilponto/ponto-backend-go/internal/pkg/gemini"
	"github.com/gilponto/ponto-backend-go/internal/pkg/jwt"
	"github.com/gilponto/ponto-backend-go/internal/pkg/notify"
	"github.com/gilponto/ponto-backend-go/internal/pkg/sse"
	"github.com/gilponto/ponto-backend-go/internal/pkg/storage"
	"github.com/gilponto/ponto-backend-go/internal/pkg/workerpool"
	"github.com/gilponto/ponto-backend-go/internal/repository/postgresql"
	"github.com/gilponto/ponto-backend-go/internal/repository/sqlite"
	serviceAuth "github.com/gilponto/ponto-backend-go/internal/service/auth"
	dashboardService "github.com/gilponto/ponto-backend-go/internal/service/dashboard"
	employeeService "github.com/gilponto/ponto-backend-go/internal/service/employee"
	"github.com/gilponto/ponto-backend-go/internal/service/file"
	payrollService "github.com/gilponto/ponto-backend-go/internal/service/payroll"
	punchService "github.com/gilponto/ponto-backend-go/internal/service/punch"
	timeLogService "github.com/gilponto/ponto-backend-go/internal/service/timelog"
)

// repositories is the record store behind every service, whichever driver backs it.
type repositories struct {
	employees employee.EmployeeRepository
	timeLogs  timelog.TimeLogRepository
	settings  auth.SettingsRepository
	close     func()
}

func openRepositories(ctx context.Context, cfg *config.Config) (repositories, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Database.SQLitePath)
		if err != nil {
			return repositories{}, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return repositories{
			employees: sqlite.NewEmployeeRepository(db),
			timeLogs:  sqlite.NewTimeLogRepository(db),
			settings:  sqlite.NewSettingsRepository(db),
			close:     func() { db.Close() },
		}, nil

	default:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return repositories{}, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := postgresql.Migrate(ctx, db); err != nil {
			db.Close()
			return repositories{}, err
		}
		return repositories{
			employees: postgresql.NewEmployeeRepository(db),
			timeLogs:  postgresql.NewTimeLogRepository(db),
			settings:  postgresql.NewSettingsRepository(db),
			close:     db.Close,
		}, nil
	}
}

func openFileStorage(ctx context.Context, cfg config.StorageConfig) (storage.FileStorage, error) {
	switch cfg.Type {
	case "local":
		return storage.NewLocalStorage(cfg.BasePath, cfg.BaseURL)
	case "s3":
		return storage.NewS3Storage(ctx, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return nil, nil
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel(),
	})).With(slog.String("app", "gil-ponto"), slog.String("env", cfg.App.Env)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer repos.close()

	loc := cfg.Location()

	fileStorage, err := openFileStorage(ctx, cfg.Storage)
	if err != nil {
		log.Fatal("Failed to initialize file storage: ", err)
	}
	var fileService file.FileService
	if fileStorage != nil {
		fileService = file.NewFileService(fileStorage, loc)
	}

	var verifier verification.Verifier
	if cfg.Verification.APIKey != "" {
		geminiVerifier, err := gemini.NewVerifier(ctx, cfg.Verification.APIKey, cfg.Verification.Model, cfg.Verification.Timeout)
		if err != nil {
			log.Fatal("Failed to initialize verification service: ", err)
		}
		verifier = geminiVerifier
	} else {
		slog.Warn("GEMINI_API_KEY not set, punches use the offline greeting")
	}

	var notifier notify.Notifier
	if cfg.Slack.BotToken != "" {
		notifier = notify.NewSlack(cfg.Slack.BotToken, cfg.Slack.PunchChannel)
	}

	policy, err := payroll.ParsePayPolicy(cfg.Payroll.PayPolicy)
	if err != nil {
		log.Fatal(err)
	}

	pool := workerpool.NewWorkerPool(2, 100)
	hub := sse.NewHub()
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	authService := serviceAuth.NewAuthService(repos.settings, JWTService)
	if err := authService.SeedAdminPIN(ctx, cfg.Kiosk.DefaultAdminPIN); err != nil {
		log.Fatal("Failed to seed admin PIN: ", err)
	}

	employeeSvc := employeeService.NewEmployeeService(repos.employees, authService)
	timeLogSvc := timeLogService.NewTimeLogService(repos.timeLogs, repos.employees, authService, fileService, loc)
	payrollSvc := payrollService.NewPayrollService(repos.employees, repos.timeLogs, policy)
	dashboardSvc := dashboardService.NewDashboardService(repos.employees, repos.timeLogs, loc)
	punchSvc := punchService.NewPunchService(repos.employees, repos.timeLogs, authService, punchService.Options{
		Verifier:    verifier,
		FileService: fileService,
		Hub:         hub,
		Notifier:    notifier,
		Pool:        pool,
		Location:    loc,
	})

	scheduler := cron.NewScheduler()
	cron.NewSessionJobs(JWTService).RegisterJobs(scheduler)
	if fileService != nil {
		cron.NewPhotoArchiveJobs(repos.timeLogs, fileService).RegisterJobs(scheduler)
	}
	scheduler.Start(ctx)

	router := appHTTP.NewRouter(cfg, JWTService, appHTTP.Handlers{
		Kiosk:     appHTTP.NewKioskHandler(punchSvc),
		Employee:  appHTTP.NewEmployeeHandler(employeeSvc),
		TimeLog:   appHTTP.NewTimeLogHandler(timeLogSvc),
		Payroll:   appHTTP.NewPayrollHandler(payrollSvc),
		Dashboard: appHTTP.NewDashboardHandler(dashboardSvc),
		Auth:      appHTTP.NewAuthHandler(authService),
		Stream:    appHTTP.NewStreamHandler(hub, JWTService),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	server.RegisterOnShutdown(hub.Close)

	go func() {
		slog.Info("Server running", "addr", server.Addr, "driver", cfg.Database.Driver, "storage", cfg.Storage.Type)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
	scheduler.Stop()
	pool.Close(shutdownCtx)
}
