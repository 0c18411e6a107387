/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:     Unique ID per request for tracing
  2. RealIP:        Client IP from X-Forwarded-For / X-Real-IP
  3. RequestLogger: logrus request logging
  4. Recoverer:     Panic recovery (500 instead of crash)
  5. RateLimit:     Per-IP token bucket (optional)
  6. CORS:          Cross-origin requests for report front-ends

ROUTE GROUPS:
  /api/periods/*        Definition table, presets, ad-hoc resolution
  /api/period-sets/*    Stored code lists
  /api/accounts/*       Account registry and per-account batches
  /api/reset            Database reset (dev only)

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

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

// RouterOptions configures the middleware stack.
type RouterOptions struct {
	AllowedOrigins []string
	RateQPS        float64 // 0 disables rate limiting
	RateBurst      int
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	if opts.RateQPS > 0 {
		r.Use(NewIPRateLimiter(opts.RateQPS, opts.RateBurst).Middleware)
	}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/periods", func(r chi.Router) {
			r.Get("/", h.ListDefinitions)
			r.Get("/presets", h.ListPresets)
			r.Post("/resolve", h.Resolve)
			r.Post("/valid", h.ValidPeriods)
			r.Post("/annualize", h.Annualize)
		})

		r.Route("/period-sets", func(r chi.Router) {
			r.Post("/", h.CreatePeriodSet)
			r.Delete("/{name}", h.DeletePeriodSet)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", h.ListAccounts)
			r.Post("/", h.CreateAccount)
			r.Get("/samples", h.ListSamples)
			r.Post("/samples", h.LoadSamples)
			r.Get("/{code}", h.GetAccount)
			r.Delete("/{code}", h.DeleteAccount)
			r.Get("/{code}/periods", h.AccountPeriods)
			r.Get("/{code}/schedule", h.AccountSchedule)
		})

		r.Post("/reset", h.ResetDatabase)
	})

	return r
}
