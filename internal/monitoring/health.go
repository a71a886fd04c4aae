package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

type HealthChecker struct {
	mu          sync.RWMutex
	lastCascade time.Time
	lastError   string
}

type HealthStatus struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	LastCascade time.Time `json:"last_cascade"`
	Uptime      string    `json:"uptime"`
	LastError   string    `json:"last_error,omitempty"`
}

func NewHealthChecker() *HealthChecker {
	return &HealthChecker{}
}

// MarkCascade records a completed cascade boundary.
func (h *HealthChecker) MarkCascade() {
	h.mu.Lock()
	h.lastCascade = time.Now()
	h.lastError = ""
	h.mu.Unlock()
}

// MarkError records the most recent cascade-level failure.
func (h *HealthChecker) MarkError(msg string) {
	h.mu.Lock()
	h.lastError = msg
	h.mu.Unlock()
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "healthy"
	// A cascade fires at least every 5 minutes; two missed boundaries
	// means the scheduler is wedged.
	if !h.lastCascade.IsZero() && time.Since(h.lastCascade) > 15*time.Minute {
		status = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	health := HealthStatus{
		Status:      status,
		Timestamp:   time.Now(),
		LastCascade: h.lastCascade,
		Uptime:      time.Since(startTime).String(),
		LastError:   h.lastError,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}
