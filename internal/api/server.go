// Copyright (c) 2026 ContactFlow. All rights reserved.

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Vogit1234/contact-flow-v2/internal/access"
	"github.com/Vogit1234/contact-flow-v2/internal/contacts"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/config"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/constants"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/middleware"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/sec"
	"github.com/Vogit1234/contact-flow-v2/internal/settings"
	"github.com/Vogit1234/contact-flow-v2/internal/users/account"
	"github.com/Vogit1234/contact-flow-v2/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles the sign-in lifecycle (login, refresh, logout).
	Auth *auth.Handler

	// Contacts handles the contact directory.
	Contacts *contacts.Handler

	// Account handles Admin user administration.
	Account *account.Handler

	// Settings handles the IP restriction settings screen.
	Settings *settings.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
//
// # Route Topology
//
//   - /api/v1/auth: public (login, refresh) plus its own authenticated subset.
//   - /api/v1/contacts: authenticated and behind the access guard; role
//     gating per method lives inside the handler.
//   - /api/v1/admin/*: authenticated, behind the guard, Admin only.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, guard *access.Guard, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())

		// Protected content sits behind the access guard, which revalidates
		// the account status and applies the IP restriction policy.
		api.Group(func(protected chi.Router) {
			protected.Use(guard.Protect)
			protected.Mount("/contacts", h.Contacts.Routes())

			protected.Route("/admin", func(admin chi.Router) {
				admin.Use(middleware.RequireRole(sec.RoleAdmin))
				admin.Mount("/users", h.Account.Routes())
				admin.Mount("/settings", h.Settings.Routes())
			})
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
