// Package cafeservice wires and runs the cafe search HTTP service.
package cafeservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/cafehopper/cafe-hopper/server/internal/api"
	"github.com/cafehopper/cafe-hopper/server/internal/config"
	"github.com/cafehopper/cafe-hopper/server/internal/factory"
	"github.com/cafehopper/cafe-hopper/server/internal/health"
	"github.com/cafehopper/cafe-hopper/server/internal/logger"
	"github.com/cafehopper/cafe-hopper/server/internal/places"
	"github.com/cafehopper/cafe-hopper/server/internal/services"
	"github.com/cafehopper/cafe-hopper/server/internal/store"
	"github.com/cafehopper/cafe-hopper/server/internal/summarizer"
)

// Run starts the cafe service HTTP server and blocks until shutdown or
// error.
func Run() error {
	log := logger.New("cafe-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Str("maps_base_url", cfg.MapsBaseURL).
		Msg("Cafe service starting")

	// Cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, provider, err := initDependencies(ctx, cfg, log)
	if err != nil {
		return err
	}

	router := buildRouter(cfg, st, provider, log)

	startHealthCheckers(ctx, cfg, log, st, provider)

	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// initDependencies constructs the store and the places provider, enforcing
// fail-fast on missing credentials.
func initDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.Store, places.Provider, error) {
	st, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store adapter unavailable")
		return nil, nil, err
	}

	callTimeout := time.Duration(cfg.CallTimeoutSeconds) * time.Second
	provider, err := places.NewGoogleClient(cfg.MapsBaseURL, cfg.MapsAPIKey, callTimeout)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Places provider unavailable")
		return nil, nil, err
	}
	return st, provider, nil
}

// buildRouter wires the services onto the HTTP surface.
func buildRouter(cfg *config.Config, st store.Store, provider places.Provider, log zerolog.Logger) http.Handler {
	callTimeout := time.Duration(cfg.CallTimeoutSeconds) * time.Second
	searchSvc := services.NewSearchService(st, provider, log).WithCallTimeout(callTimeout)

	var sum summarizer.Summarizer
	if cfg.SummarizerURL != "" {
		sum = summarizer.NewOllamaSummarizer(cfg.SummarizerURL, cfg.SummarizerModel)
	} else {
		log.Info().Msg("summarizer not configured; review summaries disabled")
	}
	reviewSvc := services.NewReviewService(st, sum, log)

	return api.NewRouter(searchSvc, reviewSvc, provider)
}

// startHealthCheckers starts component checkers and the service-level
// aggregator, and binds the /health endpoint to it.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, st store.Store, provider places.Provider) {
	probeTimeout := time.Duration(cfg.HealthProbeTimeoutSeconds) * time.Second
	interval := time.Duration(cfg.HealthIntervalSeconds) * time.Second

	storeChecker := store.NewStoreHealthChecker(st, log, probeTimeout)
	go storeChecker.Start(ctx, interval)

	providerChecker := places.NewProviderHealthChecker(provider, log, probeTimeout)
	go providerChecker.Start(ctx, interval)

	svcHealth := health.NewServiceHealthChecker(log, storeChecker, providerChecker)
	go svcHealth.Start(ctx, interval)
	api.BindServiceHealth(svcHealth.IsHealthy)
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}
