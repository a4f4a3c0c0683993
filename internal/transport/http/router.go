// Package httptransport assembles the public HTTP surface: the shared
// middleware chain, the /api route tree and the metrics endpoint.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kycflow/internal/platform/metrics"
	"kycflow/internal/platform/middleware"
	dErrors "kycflow/pkg/domain-errors"
	"kycflow/pkg/platform/httputil"
	"kycflow/pkg/platform/middleware/metadata"
	"kycflow/pkg/platform/middleware/requesttime"
)

// RouteRegistrar is implemented by every module handler.
type RouteRegistrar interface {
	Register(r chi.Router)
}

// Options configure the router. A nil Gatherer hides /metrics.
type Options struct {
	AllowedOrigins []string
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
}

// NewRouter mounts the given handlers under /api behind the shared middleware.
func NewRouter(opts Options, handlers ...RouteRegistrar) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(middleware.Logger(logger))
	if opts.Metrics != nil {
		r.Use(middleware.LatencyMiddleware(opts.Metrics))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Route("/api", func(api chi.Router) {
		api.NotFound(notFound)
		api.MethodNotAllowed(methodNotAllowed)
		api.Get("/health", handleHealth)
		for _, h := range handlers {
			h.Register(api)
		}
	})

	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteOK(w, http.StatusOK, nil)
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "route not found"))
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteError(w, dErrors.New(dErrors.CodeMethodNotAllowed, "method not allowed"))
}
