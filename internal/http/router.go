package httpx

import (
	"net/http"

	"listkit/internal/config"
	"listkit/internal/http/handlers"
	middlewarex "listkit/internal/http/middleware"
	"listkit/internal/metrics"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterDependencies holds all dependencies for the HTTP router
type RouterDependencies struct {
	Config    config.Cfg
	Directory handlers.Directory
}

// NewRouter creates the HTTP router
func NewRouter(deps RouterDependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)

	// cors middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.Config.App.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1/domains/{domain}", func(r chi.Router) {
		r.Use(middlewarex.APIKeyAuth(deps.Config.App.APIToken))
		r.Use(middlewarex.ProjectDomain)

		r.Get("/mobile-workers", handlers.ListMobileWorkers(deps.Directory))
		r.Get("/locations/drilldown", handlers.LocationDrilldown(deps.Directory))
	})

	return r
}
