package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"go-chi-keypad/internal/calculator"
	"go-chi-keypad/internal/handlers"
	"go-chi-keypad/internal/observability"
	"go-chi-keypad/internal/session"
)

// MaxBodyBytes caps request bodies. The largest valid body, a replay of 256
// keys over a full-length state, stays well under it.
const MaxBodyBytes = 64 << 10

// Deps are the collaborators the router serves.
type Deps struct {
	Sessions *session.Store
	Gatherer prometheus.Gatherer
}

func NewRouter(deps Deps) http.Handler {

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestSize(MaxBodyBytes))
	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)

	r.Get("/health", handlers.Health)

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", observability.PrometheusHandler(gatherer))

	calculator.RegisterRoutes(r, deps.Sessions)

	return r
}
