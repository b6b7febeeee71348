package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/preston-bernstein/nba-improvement-service/internal/http/handlers"
	"github.com/preston-bernstein/nba-improvement-service/internal/http/middleware"
	"github.com/preston-bernstein/nba-improvement-service/internal/http/requestutil"
	"github.com/preston-bernstein/nba-improvement-service/internal/metrics"
)

// NewRouter registers the service routes behind CORS, panic recovery and request logging.
func NewRouter(handler *handlers.Handler, logger *slog.Logger, recorder *metrics.Recorder, corsOrigins []string) nethttp.Handler {
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{nethttp.MethodGet, nethttp.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestutil.HeaderRequestID},
		ExposedHeaders: []string{requestutil.HeaderRequestID},
		MaxAge:         300,
	}))
	r.Use(middleware.Middleware(logger, recorder))
	r.Use(chimw.Recoverer)

	r.Get("/health", handler.Health)
	r.Get("/ready", handler.Ready)
	r.Get("/predict-improvement", handler.PredictImprovement)

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)
	return r
}
