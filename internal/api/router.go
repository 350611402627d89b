// Package api implements a fake Asana REST API backed by fixtures, for
// tests and offline development.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/asanakit/asanakit/internal/api/fixture"
	"github.com/asanakit/asanakit/internal/api/handler"
	"github.com/asanakit/asanakit/internal/api/middleware"
	"github.com/asanakit/asanakit/internal/api/response"
)

// BasePath is the version prefix of the real API. Routes are served both
// with and without it.
const BasePath = "/api/1.0"

// Option configures the router.
type Option func(*routerConfig)

type routerConfig struct {
	token  string
	logger *zap.Logger
}

// WithToken requires requests to carry this bearer token. Without it any
// bearer token is accepted.
func WithToken(token string) Option {
	return func(c *routerConfig) {
		c.token = token
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *routerConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewRouter creates and configures the HTTP router.
func NewRouter(fixtures fixture.Set, opts ...Option) *chi.Mux {
	cfg := &routerConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(cfg)
	}

	r := chi.NewRouter()

	// Global middleware chain
	r.Use(middleware.Recovery(cfg.logger))
	r.Use(middleware.Logging(cfg.logger))
	r.Use(chimiddleware.StripSlashes)
	r.Use(middleware.BearerToken(cfg.token))

	fixtureHandler := handler.NewFixtureHandler(fixtures)

	r.Route(BasePath, func(r chi.Router) {
		routes(r, fixtureHandler)
	})
	routes(r, fixtureHandler)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		response.NotFound(w, req.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Only GET is supported by the fake API")
	})

	return r
}

// routes registers the read-only object and collection endpoints.
func routes(r chi.Router, h *handler.FixtureHandler) {
	r.Get("/{resource}", h.ListObjects)
	r.Get("/{resource}/{gid}", h.GetObject)
	r.Get("/{parent}/{parentGID}/{resource}", h.ListObjects)
	r.Get("/{parent}/{parentGID}/{resource}/{gid}", h.GetObject)
}
