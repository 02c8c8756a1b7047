package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/accounts-service/api/controllers"
	"github.com/angelmondragon/accounts-service/api/middleware"
	"github.com/angelmondragon/accounts-service/api/responses"
	"github.com/angelmondragon/accounts-service/internal/auth"
	"github.com/angelmondragon/accounts-service/internal/users"
	"github.com/angelmondragon/accounts-service/pkg/config"
	pkgerrors "github.com/angelmondragon/accounts-service/pkg/errors"
	"github.com/angelmondragon/accounts-service/pkg/logger"
	"github.com/angelmondragon/accounts-service/pkg/metrics"
)

type tokenVerifier interface {
	Verify(token string) (string, error)
}

type rateLimiter interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Params carries everything the router wires. RateLimiter, Gatherer and the
// metrics recorders are optional.
type Params struct {
	Config      *config.Config
	Logger      *logger.Logger
	AuthService auth.Service
	UserService users.Service
	Tokens      tokenVerifier
	RateLimiter rateLimiter
	Readiness   map[string]controllers.Pinger
	Gatherer    prometheus.Gatherer
	HTTPMetrics *metrics.HTTPMetrics
	AuthMetrics *metrics.AuthMetrics
}

func NewRouter(p Params) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, p.HTTPMetrics),
		middleware.CORS(cfg.HTTP.AllowedOrigins),
	)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), nil, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	})

	loginPolicy := middleware.LoginRateLimitPolicy(cfg.AuthRateLimit)
	registerPolicy := middleware.RegisterRateLimitPolicy(cfg.AuthRateLimit)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(p.Readiness, logg))
	})

	if p.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, p.RateLimiter, logg)).Post("/register", controllers.AuthRegister(p.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, p.RateLimiter, logg)).Post("/login", controllers.AuthLogin(p.AuthService, logg))
	})

	// Guarded inline so the route pattern is resolved before a rejection.
	r.With(middleware.Auth(p.Tokens, p.AuthMetrics, logg)).Get("/users/{id}", controllers.GetUser(p.UserService, logg))

	return r
}
