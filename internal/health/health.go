// Package health runs named subsystem checks for the readiness endpoint.
package health

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Status represents the health of a single subsystem.
type Status struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Detail  string `json:"detail,omitempty"`
}

// Checker is a function that checks the health of a subsystem.
type Checker func(ctx context.Context) Status

// Registry holds named health checkers and runs them on demand.
type Registry struct {
	mu       sync.RWMutex
	checkers []namedChecker
}

type namedChecker struct {
	name  string
	check Checker
}

// NewRegistry creates a new health check registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a named health checker.
func (r *Registry) Register(name string, check Checker) {
	r.mu.Lock()
	r.checkers = append(r.checkers, namedChecker{name: name, check: check})
	r.mu.Unlock()
}

// Len reports how many checkers are registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.checkers)
}

// CheckAll runs all registered checkers and returns the aggregate health
// status plus individual subsystem results. A checker that returns no name
// is reported under the name it was registered with.
func (r *Registry) CheckAll(ctx context.Context) (healthy bool, statuses []Status) {
	r.mu.RLock()
	checkers := make([]namedChecker, len(r.checkers))
	copy(checkers, r.checkers)
	r.mu.RUnlock()

	healthy = true
	statuses = make([]Status, len(checkers))

	for i, nc := range checkers {
		statuses[i] = nc.check(ctx)
		if statuses[i].Name == "" {
			statuses[i].Name = nc.name
		}
		if !statuses[i].Healthy {
			healthy = false
		}
	}

	return healthy, statuses
}

// Freshness reports unhealthy when last() is older than maxAge. skip lets a
// subsystem that is intentionally idle (a paused feed) report healthy.
func Freshness(name string, last func() time.Time, maxAge time.Duration, skip func() bool, now func() time.Time) Checker {
	if now == nil {
		now = time.Now
	}
	return func(_ context.Context) Status {
		if skip != nil && skip() {
			return Status{Name: name, Healthy: true, Detail: "idle"}
		}
		at := last()
		if at.IsZero() {
			return Status{Name: name, Healthy: false, Detail: "no activity yet"}
		}
		age := now().Sub(at)
		if age > maxAge {
			return Status{Name: name, Healthy: false, Detail: fmt.Sprintf("last activity %s ago", age.Round(time.Second))}
		}
		return Status{Name: name, Healthy: true}
	}
}

// Pinger is anything that can round-trip to a remote dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping wraps a Pinger with a timeout.
func Ping(name string, p Pinger, timeout time.Duration) Checker {
	return func(ctx context.Context) Status {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			return Status{Name: name, Healthy: false, Detail: err.Error()}
		}
		return Status{Name: name, Healthy: true}
	}
}
