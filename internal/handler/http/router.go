package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/kmanek-hr/payroll-backend-go/internal/config"
	"github.com/kmanek-hr/payroll-backend-go/internal/handler/http/middleware"
	"github.com/kmanek-hr/payroll-backend-go/internal/pkg/jwt"
)

func NewRouter(
	cfg *config.Config,
	jwtService jwt.Service,
	authHandler AuthHandler,
	employeeHandler EmployeeHandler,
	payrollHandler PayrollHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.App.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", employeeHandler.ListActive)
				r.Get("/{id}", employeeHandler.GetByID)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/", employeeHandler.Create)
				})
			})

			r.Route("/payroll/runs", func(r chi.Router) {
				r.Post("/", payrollHandler.OpenRun)
				r.Get("/", payrollHandler.ListRuns)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", payrollHandler.GetRun)
					r.Delete("/", payrollHandler.DiscardRun)
					r.Post("/review", payrollHandler.MarkReviewed)
					r.Post("/acknowledge", payrollHandler.Acknowledge)
					r.Get("/export", payrollHandler.ExportCSV)

					r.Route("/entries/{employeeId}", func(r chi.Router) {
						r.Patch("/", payrollHandler.SetEntryField)
						r.Post("/reset", payrollHandler.ResetEntry)
						r.Post("/exclude", payrollHandler.SetEntryExcluded)
					})

					r.Route("/payslips", func(r chi.Router) {
						r.Get("/{employeeId}", payrollHandler.RenderPayslip)

						// Admin only
						r.Group(func(r chi.Router) {
							r.Use(middleware.RequireAdmin)
							r.Post("/send", payrollHandler.EmailPayslips)
						})
					})

					// Admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireAdmin)
						r.Post("/submit", payrollHandler.Submit)
					})
				})
			})
		})
	})
	return r
}
