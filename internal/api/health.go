package api

import (
	"net/http"
	"sync/atomic"

	"github.com/cafehopper/cafe-hopper/server/internal/api/respond"
)

// serviceHealthFn is bound at startup to the aggregated service health
// flag. Unbound (tests, partial wiring) means healthy.
var serviceHealthFn atomic.Value // func() bool

// BindServiceHealth installs the health probe consulted by GET /health.
func BindServiceHealth(fn func() bool) {
	serviceHealthFn.Store(fn)
}

// HealthHandler handles health check endpoints.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	if fn, ok := serviceHealthFn.Load().(func() bool); ok && !fn() {
		respond.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
