package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/qfdstudio/hoq/internal/cache"
	"github.com/qfdstudio/hoq/internal/events"
	"github.com/qfdstudio/hoq/internal/store"
)

func NewRouter(s store.Store, ec events.Client, ac *cache.AnalysisCache, adminToken string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(120))

	projects := NewProjectsHandler(s, ec, ac)
	requirements := NewRequirementsHandler(s, ec, ac)
	matrix := NewMatrixHandler(s, ec, ac)
	analysis := NewAnalysisHandler(s, ec, ac)
	admin := NewAdminHandler(s)

	r.Route("/api/v1", func(r chi.Router) {
		// The legend is static reference data; no identity needed.
		r.Get("/legend", analysis.Legend)

		r.Group(func(r chi.Router) {
			r.Use(UserIDMiddleware)

			r.Post("/projects", projects.Create)
			r.Get("/projects", projects.List)

			r.Route("/projects/{projectID}", func(r chi.Router) {
				r.Get("/", projects.Get)
				r.Patch("/", projects.Update)
				r.Delete("/", projects.Delete)

				r.Post("/customer-requirements", requirements.CreateCustomer)
				r.Get("/customer-requirements", requirements.ListCustomers)
				r.Patch("/customer-requirements/{id}", requirements.UpdateCustomer)
				r.Delete("/customer-requirements/{id}", requirements.DeleteCustomer)

				r.Post("/technical-requirements", requirements.CreateTechnical)
				r.Get("/technical-requirements", requirements.ListTechnicals)
				r.Patch("/technical-requirements/{id}", requirements.UpdateTechnical)
				r.Delete("/technical-requirements/{id}", requirements.DeleteTechnical)

				r.Put("/relationships", matrix.PutRelationship)
				r.Get("/relationships", matrix.ListRelationships)
				r.Delete("/relationships/{customerID}/{technicalID}", matrix.DeleteRelationship)

				r.Put("/correlations", matrix.PutCorrelation)
				r.Get("/correlations", matrix.ListCorrelations)
				r.Delete("/correlations/{req1ID}/{req2ID}", matrix.DeleteCorrelation)

				r.Get("/analysis", analysis.Full)
				r.Get("/analysis/priorities", analysis.Priorities)
				r.Get("/analysis/targets", analysis.Targets)
				r.Get("/analysis/insights", analysis.Insights)
			})

			r.Group(func(r chi.Router) {
				r.Use(AdminAuthMiddleware(adminToken))
				r.Get("/stats", admin.Stats)
			})
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
