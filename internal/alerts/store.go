package alerts

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Filter narrows an alert listing. Zero values match everything.
type Filter struct {
	Status   Status
	Severity Severity
	Wallet   string
	Limit    int
}

// Store keeps alerts for the session. Alerts are never deleted.
type Store interface {
	Add(ctx context.Context, alert *Alert) error
	Get(ctx context.Context, id string) (*Alert, error)
	List(ctx context.Context, filter Filter) ([]*Alert, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Alert, error)
	Counts(ctx context.Context) (map[Status]int, error)
}

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	mu     sync.RWMutex
	alerts map[string]*Alert
	order  []string // newest first
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{alerts: make(map[string]*Alert)}
}

// Compile-time interface check
var _ Store = (*MemoryStore)(nil)

func (m *MemoryStore) Add(ctx context.Context, alert *Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.alerts[alert.ID]; exists {
		return fmt.Errorf("alert %s already recorded", alert.ID)
	}
	cp := *alert
	m.alerts[alert.ID] = &cp
	m.order = append([]string{alert.ID}, m.order...)
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.alerts[id]
	if !ok {
		return nil, ErrAlertNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *MemoryStore) List(ctx context.Context, filter Filter) ([]*Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Alert, 0)
	for _, id := range m.order {
		a := m.alerts[id]
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.Severity != "" && a.Severity != filter.Severity {
			continue
		}
		if filter.Wallet != "" && !strings.EqualFold(a.WalletAddress, filter.Wallet) {
			continue
		}
		cp := *a
		out = append(out, &cp)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}

func (m *MemoryStore) UpdateStatus(ctx context.Context, id string, status Status) (*Alert, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.alerts[id]
	if !ok {
		return nil, ErrAlertNotFound
	}
	if !CanTransition(a.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, status)
	}
	a.Status = status
	cp := *a
	return &cp, nil
}

func (m *MemoryStore) Counts(ctx context.Context) (map[Status]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := map[Status]int{
		StatusActive:        0,
		StatusInvestigating: 0,
		StatusResolved:      0,
		StatusFalsePositive: 0,
	}
	for _, a := range m.alerts {
		counts[a.Status]++
	}
	return counts, nil
}
