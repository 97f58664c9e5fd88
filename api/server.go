/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. CORS:       Cross-origin requests for dashboards

ROUTE GROUPS:
  /api/payments/*   Payment charges
  /api/lending/*    Material loans
  /api/records/*    Retry open records
  /api/ledger/*     History and reporting
  /api/variants     Registered variant set

SECURITY NOTE:
  No authentication middleware. All endpoints are public; this surface is
  a demo consumer of the engine, not a hardened deployment.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/payments", func(r chi.Router) {
			r.Post("/charges", h.CreateCharge)
		})

		r.Route("/lending", func(r chi.Router) {
			r.Post("/loans", h.CreateLoan)
		})

		r.Route("/records", func(r chi.Router) {
			r.Post("/{id}/commit", h.CommitRecord)
		})

		r.Route("/ledger", func(r chi.Router) {
			r.Get("/", h.ListLedger)
			r.Get("/summary", h.GetSummary)
			r.Post("/reset", h.ResetLedger) // dev only
		})

		r.Get("/variants", h.ListVariants)
	})

	return r
}
