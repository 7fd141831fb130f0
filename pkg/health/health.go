package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// DefaultCheckTimeout bounds each check when the Checker has no timeout set.
const DefaultCheckTimeout = 2 * time.Second

type CheckFunc func(ctx context.Context) error

type check struct {
	fn       CheckFunc
	critical bool
}

// Checker runs named checks for the readiness endpoint. A failing critical
// check makes the service unhealthy; a failing optional one only degrades it.
type Checker struct {
	mu      sync.RWMutex
	checks  map[string]check
	timeout time.Duration
}

func NewChecker() *Checker {
	return &Checker{
		checks:  make(map[string]check),
		timeout: DefaultCheckTimeout,
	}
}

// Register adds a critical check.
func (c *Checker) Register(name string, fn CheckFunc) {
	c.add(name, fn, true)
}

// RegisterOptional adds a check whose failure degrades but does not fail
// readiness.
func (c *Checker) RegisterOptional(name string, fn CheckFunc) {
	c.add(name, fn, false)
}

func (c *Checker) add(name string, fn CheckFunc, critical bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check{fn: fn, critical: critical}
}

type CheckResult struct {
	Status  Status            `json:"status"`
	Details map[string]string `json:"details,omitempty"`
}

func (c *Checker) Check(ctx context.Context) CheckResult {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := CheckResult{
		Status:  StatusHealthy,
		Details: make(map[string]string, len(c.checks)),
	}

	for name, chk := range c.checks {
		cctx, cancel := context.WithTimeout(ctx, c.timeout)
		err := chk.fn(cctx)
		cancel()

		if err == nil {
			result.Details[name] = "ok"
			continue
		}
		result.Details[name] = err.Error()
		if chk.critical {
			result.Status = StatusUnhealthy
		} else if result.Status == StatusHealthy {
			result.Status = StatusDegraded
		}
	}

	return result
}

func (c *Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
	}
}

func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := c.Check(r.Context())
		status := http.StatusOK
		if result.Status == StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, result)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
