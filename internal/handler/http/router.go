package http

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/gilponto/ponto-backend-go/internal/config"
	"github.com/gilponto/ponto-backend-go/internal/handler/http/middleware"
	"github.com/gilponto/ponto-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

const appVersion = "v1.0.0"

type Handlers struct {
	Kiosk     KioskHandler
	Employee  EmployeeHandler
	TimeLog   TimeLogHandler
	Payroll   PayrollHandler
	Dashboard DashboardHandler
	Auth      AuthHandler
	Stream    StreamHandler
}

func NewRouter(cfg *config.Config, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "gil-ponto"),
		slog.String("version", appVersion),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.CORSAllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", AdminPINHeader},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel(),
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// The kiosk screen is public.
		r.Route("/kiosk", func(r chi.Router) {
			r.Post("/identify", h.Kiosk.Identify)
			r.Post("/punch", h.Kiosk.Punch)
			r.Get("/recent", h.Kiosk.Recent)
		})

		r.Get("/punches/stream", h.Stream.Stream)

		// Requires an unlocked admin panel
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))
			r.Use(middleware.AdminOnly)

			r.Post("/auth/logout", h.Auth.Logout)
			r.Put("/settings/pin", h.Auth.ChangePIN)
			r.Get("/punches/stream-token", h.Auth.StreamToken)

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", h.Employee.ListEmployees)
				r.Post("/", h.Employee.CreateEmployee)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Employee.GetEmployee)
					r.Put("/", h.Employee.UpdateEmployee)
					r.Delete("/", h.Employee.DeleteEmployee)
				})
			})

			r.Route("/logs", func(r chi.Router) {
				r.Get("/", h.TimeLog.ListLogs)
				r.Get("/export.csv", h.TimeLog.ExportCSV)
				r.Get("/export.xlsx", h.TimeLog.ExportXLSX)
				r.Get("/report", h.TimeLog.Report)
				r.Get("/report/{employeeID}", h.TimeLog.EmployeeReport)
				r.Delete("/{id}", h.TimeLog.DeleteLog)
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/", h.Payroll.ListPayroll)
				r.Get("/{employeeID}", h.Payroll.GetEmployeePayroll)
			})

			r.Get("/dashboard", h.Dashboard.GetDashboard)
		})
	})

	if cfg.Storage.Type == "local" {
		mountUploads(r, cfg.Storage, JWTService)
	}

	return r
}

// mountUploads serves archived snapshots from local storage to admin sessions.
func mountUploads(r chi.Router, storage config.StorageConfig, JWTService jwt.Service) {
	prefix := "/" + strings.Trim(storage.BaseURL, "/")
	if prefix == "/" || strings.Contains(prefix, "://") {
		return
	}

	fileServer := http.StripPrefix(prefix, http.FileServer(http.Dir(storage.BasePath)))

	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromHeader, middleware.TokenFromQuery))
		r.Use(middleware.AuthRequired(JWTService))
		r.Use(middleware.AdminOnly)
		r.Get(prefix+"/*", func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/") {
				http.NotFound(w, r)
				return
			}
			fileServer.ServeHTTP(w, r)
		})
	})
}
