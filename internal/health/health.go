// Package health aggregates the liveness of the service's two hard
// dependencies, the cafe store and the places provider, into one flag
// consumed by GET /health.
package health

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// HealthPinger is implemented by components that can cheaply verify their
// own connectivity. A nil return means healthy.
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}

// HealthChecker is a component-level checker with a cached, non-blocking
// health flag. The store and places packages each provide one.
type HealthChecker interface {
	Name() string
	IsHealthy() bool
	Start(ctx context.Context, interval time.Duration)
}

// ServiceHealthChecker folds the component flags into a single service
// flag. It starts unhealthy and flips up only once every dependency has
// passed a probe, so the service never reports ready before its
// collaborators do.
type ServiceHealthChecker struct {
	healthy atomic.Int32
	deps    []HealthChecker
	log     zerolog.Logger
}

func NewServiceHealthChecker(log zerolog.Logger, deps ...HealthChecker) *ServiceHealthChecker {
	return &ServiceHealthChecker{deps: deps, log: log}
}

// IsHealthy returns the cached service flag without blocking.
func (h *ServiceHealthChecker) IsHealthy() bool { return h.healthy.Load() == 1 }

// Start re-evaluates the dependency flags on the given interval until ctx
// is done. Transitions are logged with the first dependency that failed.
func (h *ServiceHealthChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	h.evaluate()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.evaluate()
		}
	}
}

func (h *ServiceHealthChecker) evaluate() {
	failed := ""
	for _, c := range h.deps {
		if !c.IsHealthy() {
			failed = c.Name()
			break
		}
	}

	was := h.healthy.Load()
	if failed == "" {
		h.healthy.Store(1)
		if was == 0 {
			h.log.Info().Msg("service healthy")
		}
		return
	}
	h.healthy.Store(0)
	if was == 1 {
		h.log.Error().Str("component", failed).Msg("service unhealthy")
	}
}
