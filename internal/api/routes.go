// Package api wires the chi router, middleware, and route handlers.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Shayan56/StudentSync/internal/api/handlers"
	"github.com/Shayan56/StudentSync/internal/api/util"
	"github.com/Shayan56/StudentSync/internal/attendance"
	"github.com/Shayan56/StudentSync/internal/ingest"
	"github.com/Shayan56/StudentSync/internal/marks"
	"github.com/Shayan56/StudentSync/internal/shared"
	"github.com/Shayan56/StudentSync/internal/store"
	"github.com/Shayan56/StudentSync/internal/student"
)

// Dependencies carries everything the router needs. Ping is optional; when
// set, /health reports store reachability.
type Dependencies struct {
	Config *shared.AppConfig
	Stores *store.Stores
	Ping   func(ctx context.Context) error
}

// SetupRoutes configures the chi router, middleware, and route handlers.
func SetupRoutes(deps *Dependencies) *chi.Mux {
	r := chi.NewRouter()

	// 1. Global Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS Configuration (allow the SPA frontend)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.CORS.AllowedOrigins,
		AllowedMethods:   deps.Config.CORS.AllowedMethods,
		AllowedHeaders:   deps.Config.CORS.AllowedHeaders,
		AllowCredentials: deps.Config.CORS.AllowCredentials,
		MaxAge:           deps.Config.CORS.MaxAge,
	}))

	// 2. Initialize Handlers
	studentHandler := &handlers.StudentHandler{Service: student.NewService(deps.Stores)}
	marksHandler := &handlers.MarksHandler{Service: marks.NewService(deps.Stores)}
	attendanceHandler := &handlers.AttendanceHandler{Service: attendance.NewService(deps.Stores)}
	analyticsHandler := &handlers.AnalyticsHandler{Stores: deps.Stores, Config: deps.Config.Analytics}
	uploadHandler := &handlers.UploadHandler{
		Students:    deps.Stores.Students,
		Reconciler:  ingest.NewReconciler(deps.Stores),
		MaxFileSize: deps.Config.Upload.MaxFileSize,
	}

	// 3. Define Routes (grouped by prefix)
	r.Route("/api", func(r chi.Router) {

		// Students
		r.Route("/students", func(r chi.Router) {
			r.Get("/", studentHandler.ListStudents)
			r.Post("/", studentHandler.CreateStudent)
			r.Post("/bulk", uploadHandler.BulkStudents)
			r.Get("/defaulters", analyticsHandler.Defaulters)

			r.Route("/{id}", func(r chi.Router) {
				r.Put("/", studentHandler.UpdateStudent)
				r.Delete("/", studentHandler.DeleteStudent)
				r.Get("/analytics", analyticsHandler.StudentAnalytics)
				r.Get("/report", analyticsHandler.StudentReport)
			})
		})

		// Marks
		r.Route("/marks", func(r chi.Router) {
			r.Get("/", marksHandler.ListMarks)
			r.Post("/", marksHandler.CreateMark)
			r.Post("/bulk", uploadHandler.BulkMarks)
		})

		// Attendance
		r.Route("/attendance", func(r chi.Router) {
			r.Get("/", attendanceHandler.ListAttendance)
			r.Post("/", attendanceHandler.CreateAttendance)
		})
	})

	// Health Check
	r.Get("/health", healthHandler(deps.Ping))

	return r
}

func healthHandler(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()

			if err := ping(ctx); err != nil {
				util.WriteJSONError(w, http.StatusServiceUnavailable, "Store unreachable")
				return
			}
		}
		util.WriteJSONMessage(w, http.StatusOK, "ok")
	}
}
