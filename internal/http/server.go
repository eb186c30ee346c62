// Package http is the JSON API surface: auth, per-entity CRUD, and
// the dashboard/analytics read models.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"fintrack/internal/auth"
	"fintrack/internal/config"
	applog "fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
	"fintrack/internal/store"
)

type Server struct {
	srv        *http.Server
	records    *services.RecordService
	dashboards *services.DashboardService
	users      store.UserStore
	tokens     *auth.Manager
	publisher  services.EventPublisher
	limiter    *ratelimit.Limiter
	resolver   *security.IPResolver
	tracer     *trace.Middleware
	logger     *applog.Logger
}

// Options carries the server's collaborators.
type Options struct {
	Config     *config.Config
	Records    *services.RecordService
	Dashboards *services.DashboardService
	Users      store.UserStore
	Tokens     *auth.Manager
	Publisher  services.EventPublisher
	Logger     *applog.Logger
}

func NewServer(opts Options) *Server {
	s := &Server{
		records:    opts.Records,
		dashboards: opts.Dashboards,
		users:      opts.Users,
		tokens:     opts.Tokens,
		publisher:  opts.Publisher,
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.Config.RateLimitPerMinute,
		}),
		resolver: security.NewIPResolver(),
		logger:   opts.Logger,
	}
	s.tracer = trace.NewMiddleware(s.resolver.ClientIP)

	s.srv = &http.Server{
		Addr:         ":" + opts.Config.Port,
		Handler:      s.routes(opts.Config),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

func (s *Server) routes(cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	r.Use(s.tracer.Middleware)
	r.Use(headers.Middleware)
	r.Use(applog.Middleware(s.logger.WithComponent(applog.ComponentHTTP)))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(s.rateLimit)

	r.Get("/healthz", s.handleHealthz)

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/register", s.handleRegister)
		api.Post("/auth/login", s.handleLogin)

		api.Group(func(priv chi.Router) {
			priv.Use(s.requireAuth)

			priv.Post("/auth/logout", s.handleLogout)
			priv.Get("/auth/me", s.handleMe)

			priv.Route("/expenses", func(rt chi.Router) {
				rt.Post("/", s.handleCreateExpense)
				rt.Get("/", s.handleListExpenses)
				rt.Get("/{id}", s.handleGetExpense)
				rt.Put("/{id}", s.handleUpdateExpense)
				rt.Delete("/{id}", s.handleDeleteExpense)
			})

			priv.Route("/bills", func(rt chi.Router) {
				rt.Post("/", s.handleCreateBill)
				rt.Get("/", s.handleListBills)
				rt.Get("/{id}", s.handleGetBill)
				rt.Put("/{id}", s.handleUpdateBill)
				rt.Patch("/{id}/paid", s.handleSetBillPaid)
				rt.Delete("/{id}", s.handleDeleteBill)
			})

			priv.Route("/subscriptions", func(rt chi.Router) {
				rt.Post("/", s.handleCreateSubscription)
				rt.Get("/", s.handleListSubscriptions)
				rt.Get("/{id}", s.handleGetSubscription)
				rt.Put("/{id}", s.handleUpdateSubscription)
				rt.Patch("/{id}/active", s.handleSetSubscriptionActive)
				rt.Delete("/{id}", s.handleDeleteSubscription)
			})

			priv.Route("/budgets", func(rt chi.Router) {
				rt.Post("/", s.handleCreateBudget)
				rt.Get("/", s.handleListBudgets)
				rt.Get("/{id}", s.handleGetBudget)
				rt.Put("/{id}", s.handleUpdateBudget)
				rt.Delete("/{id}", s.handleDeleteBudget)
			})

			priv.Get("/dashboard/summary", s.handleDashboardSummary)
			priv.Get("/analytics", s.handleAnalytics)
			priv.Get("/export", s.handleExport)
		})
	})

	return r
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow(s.resolver.ClientIP(r)) {
			respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Handler exposes the routed handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) ListenAndServe() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.srv.Shutdown(ctx)
}
