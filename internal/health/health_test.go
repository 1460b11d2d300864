package health

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type stubChecker struct {
	name    string
	healthy bool
}

func (s *stubChecker) Name() string                                      { return s.name }
func (s *stubChecker) IsHealthy() bool                                   { return s.healthy }
func (s *stubChecker) Start(ctx context.Context, interval time.Duration) {}

func TestServiceHealth_StartsUnhealthy(t *testing.T) {
	h := NewServiceHealthChecker(zerolog.Nop(), &stubChecker{name: "store", healthy: true})
	if h.IsHealthy() {
		t.Fatal("service must report unhealthy before the first evaluation")
	}
}

func TestServiceHealth_RequiresAllDependencies(t *testing.T) {
	store := &stubChecker{name: "store", healthy: true}
	provider := &stubChecker{name: "places", healthy: false}
	h := NewServiceHealthChecker(zerolog.Nop(), store, provider)

	h.evaluate()
	if h.IsHealthy() {
		t.Fatal("one failing dependency must keep the service unhealthy")
	}

	provider.healthy = true
	h.evaluate()
	if !h.IsHealthy() {
		t.Fatal("service should be healthy once every dependency is")
	}

	store.healthy = false
	h.evaluate()
	if h.IsHealthy() {
		t.Fatal("service must flip down when a dependency fails")
	}
}
