package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fakhrymubarak/weather-dashboard/internal/config"
	"github.com/fakhrymubarak/weather-dashboard/internal/dashboard"
	"github.com/fakhrymubarak/weather-dashboard/internal/handler"
	"github.com/fakhrymubarak/weather-dashboard/internal/middleware"
	"github.com/fakhrymubarak/weather-dashboard/internal/redis"
	"github.com/fakhrymubarak/weather-dashboard/internal/repository"
	"github.com/fakhrymubarak/weather-dashboard/internal/sequence"
	"github.com/fakhrymubarak/weather-dashboard/internal/service"
	redisv9 "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	upstreamTimeout = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

type app struct {
	server   *http.Server
	registry *dashboard.Registry
	limiter  *middleware.RateLimiter
	redis    *redisv9.Client
}

// newSequencer picks where load sequence numbers live. Stale responses are
// only discarded when enabled; Redis is used when configured and reachable.
func newSequencer(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (sequence.Sequencer, *redisv9.Client) {
	if !cfg.Dashboard.DiscardStale {
		return nil, nil
	}
	client := redis.NewClient(cfg.Redis)
	if client == nil {
		return sequence.NewMemory(), nil
	}
	if err := redis.Ping(ctx, client, 2*time.Second); err != nil {
		logger.Warnw("Redis unreachable, keeping load sequences in memory", "addr", cfg.Redis.Addr, "error", err)
		_ = client.Close()
		return sequence.NewMemory(), nil
	}
	return sequence.NewRedis(client, cfg.Dashboard.SessionIdleTimeout), client
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) *app {
	if cfg.WeatherAPI.APIKey == "" {
		logger.Warnw("WEATHERAPI_KEY is not set, weather requests will fail")
	}
	repo := repository.NewWeatherRepository(cfg.WeatherAPI.APIURL, cfg.WeatherAPI.APIKey,
		&http.Client{Timeout: upstreamTimeout})
	svc := service.NewWeatherService(repo)

	seq, rdb := newSequencer(ctx, cfg, logger)
	registry := dashboard.NewRegistry(ctx, dashboard.Options{
		Weather:            svc,
		Logger:             logger,
		DefaultLocation:    cfg.Dashboard.DefaultLocation,
		GeolocationTimeout: cfg.Dashboard.GeolocationTimeout,
		Sequencer:          seq,
	}, cfg.Dashboard.SessionIdleTimeout)

	limiter := middleware.NewRateLimiter(cfg.RateLimiter, "location")
	router := handler.NewRouter(handler.RouterDeps{
		Weather:   handler.NewWeatherHandler(svc, logger),
		Dashboard: handler.NewDashboardHandler(registry, logger),
		Limiter:   limiter,
		Logger:    logger,
	})

	return &app{
		server: &http.Server{
			Addr:              cfg.Server.Addr(),
			Handler:           router,
			ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
			ReadTimeout:       cfg.Server.ReadTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
			IdleTimeout:       cfg.Server.IdleTimeout,
		},
		registry: registry,
		limiter:  limiter,
		redis:    rdb,
	}
}

func (a *app) startBackground(ctx context.Context, sessionIdle time.Duration) {
	a.limiter.StartCleanup(ctx)
	interval := sessionIdle / 2
	if interval <= 0 || interval > time.Minute {
		interval = time.Minute
	}
	a.registry.StartCleanup(ctx, interval)
}

func (a *app) shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	a.registry.Close()
	if a.redis != nil {
		_ = a.redis.Close()
	}
	return err
}

func run(ctx context.Context, logger *zap.SugaredLogger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	a := newApp(ctx, cfg, logger)
	a.startBackground(ctx, cfg.Dashboard.SessionIdleTimeout)

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("Weather dashboard running", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Infow("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return a.shutdown(shutdownCtx)
}

func main() {
	logger := config.GetLogger()
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger); err != nil {
		logger.Errorw("Server stopped", "error", err)
		stop()
		_ = logger.Sync()
		os.Exit(1)
	}
}
