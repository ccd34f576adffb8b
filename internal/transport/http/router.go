package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"strive/internal/platform/metrics"
	"strive/internal/platform/middleware"
	"strive/internal/transport/http/shared"
)

const requestTimeout = 30 * time.Second

// Registrar is implemented by every concept handler; each mounts its own
// routes so the full route table is the concatenation of Register calls,
// visible in one place per concept.
type Registrar interface {
	Register(r chi.Router)
}

// RegistrarFunc adapts a plain function to the Registrar interface.
type RegistrarFunc func(r chi.Router)

func (f RegistrarFunc) Register(r chi.Router) { f(r) }

// Deps carries everything the router needs. RateLimiter and Metrics are
// optional; Public handlers are mounted outside the auth gate.
type Deps struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	TokenValidator middleware.TokenValidator
	RateLimiter    *middleware.RateLimiter
	Health         func(ctx context.Context) error
	Public         []Registrar
	Authed         []Registrar
}

// NewRouter builds the full HTTP surface: operational endpoints, public
// login/registration, and the authenticated API.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Device)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Latency(deps.Metrics))

	r.Get("/healthz", healthHandler(deps.Health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		for _, registrar := range deps.Public {
			registrar.Register(r)
		}
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.RequireAuth(deps.TokenValidator, deps.Logger))
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Handler)
		}
		for _, registrar := range deps.Authed {
			registrar.Register(r)
		}
	})

	return r
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				shared.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
				return
			}
		}
		shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
