package observability

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// HealthStatus is the payload served by the health endpoints.
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
}

// Health serves liveness and readiness probes.
type Health struct {
	startedAt time.Time
	ready     atomic.Bool
}

// NewHealth creates a health tracker. The process starts not-ready; call
// SetReady once wiring is complete.
func NewHealth() *Health {
	return &Health{startedAt: time.Now()}
}

// SetReady marks the process ready to serve traffic.
func (h *Health) SetReady(ready bool) {
	h.ready.Store(ready)
}

// LivenessHandler always reports healthy while the process is running.
func (h *Health) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.write(w, http.StatusOK, "alive")
	}
}

// ReadinessHandler reports ready only after SetReady(true).
func (h *Health) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.ready.Load() {
			h.write(w, http.StatusServiceUnavailable, "not ready")
			return
		}
		h.write(w, http.StatusOK, "ready")
	}
}

func (h *Health) write(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(HealthStatus{
		Status:    text,
		Timestamp: time.Now(),
		Uptime:    time.Since(h.startedAt).Round(time.Second).String(),
	})
}
