package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/accounts-service/api/controllers"
	"github.com/angelmondragon/accounts-service/api/routes"
	"github.com/angelmondragon/accounts-service/internal/auth"
	"github.com/angelmondragon/accounts-service/internal/users"
	pkgAuth "github.com/angelmondragon/accounts-service/pkg/auth"
	"github.com/angelmondragon/accounts-service/pkg/config"
	"github.com/angelmondragon/accounts-service/pkg/instance"
	"github.com/angelmondragon/accounts-service/pkg/logger"
	"github.com/angelmondragon/accounts-service/pkg/metrics"
	"github.com/angelmondragon/accounts-service/pkg/redis"
	"github.com/angelmondragon/accounts-service/pkg/security"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	store, err := users.OpenStore(ctx, cfg.Store, logg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		err = multierr.Append(err, store.Close(closeCtx))
	}()

	readiness := map[string]controllers.Pinger{"store": store}

	var limiter *redis.Client
	if cfg.Redis.Enabled() {
		limiter, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Append(err, limiter.Close())
		}()
		readiness["redis"] = limiter
	} else {
		logg.Warn(ctx, "redis not configured, auth rate limiting disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	authMetrics := metrics.NewAuthMetrics(reg)

	tokens := pkgAuth.NewTokenIssuer(cfg.JWT)
	authService, err := auth.NewService(auth.ServiceParams{
		UserStore: store,
		Hasher:    security.NewHasher(cfg.Password),
		Tokens:    tokens,
		Metrics:   authMetrics,
	})
	if err != nil {
		return err
	}
	userService, err := users.NewService(users.ServiceParams{
		Store:    store,
		SelfOnly: cfg.Profile.SelfOnly,
	})
	if err != nil {
		return err
	}

	params := routes.Params{
		Config:      cfg,
		Logger:      logg,
		AuthService: authService,
		UserService: userService,
		Tokens:      tokens,
		Readiness:   readiness,
		Gatherer:    reg,
		HTTPMetrics: metrics.NewHTTPMetrics(reg),
		AuthMetrics: authMetrics,
	}
	if limiter != nil {
		params.RateLimiter = limiter
	}

	addr := ":" + cfg.App.Port
	server := &http.Server{
		Addr:         addr,
		Handler:      routes.NewRouter(params),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logCtx := logg.WithFields(ctx, map[string]any{
			"env":      cfg.App.Env,
			"addr":     addr,
			"store":    cfg.Store.Driver,
			"instance": instance.GetID(),
		})
		logg.Info(logCtx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(context.Background(), "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
