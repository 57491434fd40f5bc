package monitor

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/mbd888/andromeda/internal/alerts"
	"github.com/mbd888/andromeda/internal/chat"
	"github.com/mbd888/andromeda/internal/ledger"
	"github.com/mbd888/andromeda/internal/metrics"
	"github.com/mbd888/andromeda/internal/risk"
	"github.com/mbd888/andromeda/internal/rng"
	"github.com/mbd888/andromeda/internal/traces"
)

// ErrTransactionNotFound is returned when a transaction has left the feed.
var ErrTransactionNotFound = errors.New("monitor: transaction not found")

// FeedSize is how many recent results the feed keeps.
const FeedSize = 50

// Publisher receives every tick outcome. Implementations must not block.
type Publisher interface {
	PublishTick(ctx context.Context, ev Event)
}

// Stats are the aggregate counters shown next to the feed.
type Stats struct {
	TotalTransactions int `json:"totalTransactions"`
	MaliciousBlocked  int `json:"maliciousBlocked"`
	AverageRiskScore  int `json:"averageRiskScore"`
	Throughput        int `json:"throughput"`
}

// Status describes the timer loop.
type Status struct {
	Running     bool   `json:"running"`
	Paused      bool   `json:"paused"`
	Ticks       int64  `json:"ticks"`
	FeedSize    int    `json:"feedSize"`
	MinInterval string `json:"minInterval"`
	MaxInterval string `json:"maxInterval"`
	LastTick    int64  `json:"lastTick,omitempty"`
}

// Monitor owns the feed and the timer loop that fills it.
type Monitor struct {
	pipeline    *Pipeline
	alerts      alerts.Store
	src         rng.Source
	minInterval time.Duration
	maxInterval time.Duration
	publishers  []Publisher
	logger      *slog.Logger

	mu       sync.RWMutex
	feed     []ledger.Entry
	stats    Stats
	ticks    int64
	lastTick time.Time
	running  bool
	paused   bool
	wake     chan struct{}
	cancel   context.CancelFunc
}

// New creates a monitor. src drives the tick interval, the decorative
// throughput figure and suggestion wording.
func New(pipeline *Pipeline, store alerts.Store, src rng.Source, logger *slog.Logger) *Monitor {
	return &Monitor{
		pipeline:    pipeline,
		alerts:      store,
		src:         src,
		minInterval: 2 * time.Second,
		maxInterval: 5 * time.Second,
		logger:      logger,
		feed:        []ledger.Entry{},
		wake:        make(chan struct{}, 1),
	}
}

// WithInterval sets the window each tick interval is drawn from.
func (m *Monitor) WithInterval(lo, hi time.Duration) *Monitor {
	if hi < lo {
		hi = lo
	}
	m.minInterval, m.maxInterval = lo, hi
	return m
}

// WithPublishers adds tick listeners.
func (m *Monitor) WithPublishers(p ...Publisher) *Monitor {
	m.publishers = append(m.publishers, p...)
	return m
}

// Tick runs the pipeline once and updates the feed.
func (m *Monitor) Tick(ctx context.Context) (Event, error) {
	ctx, span := traces.StartSpan(ctx, "monitor.tick")
	defer span.End()

	ev, err := m.pipeline.Tick(ctx)
	if err != nil {
		span.RecordError(err)
		m.logger.Error("tick failed", "error", err)
	}

	entry := ev.Entry
	span.SetAttributes(
		traces.TransactionID(entry.ID),
		traces.WalletAddr(entry.From),
		traces.RiskScore(entry.Analysis.RiskScore),
		traces.Classification(string(entry.Analysis.Classification)),
	)

	m.mu.Lock()
	m.feed = append([]ledger.Entry{entry}, m.feed...)
	if len(m.feed) > FeedSize {
		m.feed = m.feed[:FeedSize]
	}
	m.stats = computeStats(m.feed)
	m.stats.Throughput = m.src.Intn(50) + 20
	m.ticks++
	m.lastTick = time.Now()
	m.mu.Unlock()

	metrics.TransactionsTotal.WithLabelValues(string(entry.Analysis.Classification)).Inc()
	metrics.RiskScore.Observe(float64(entry.Analysis.RiskScore))
	if ev.Alert != nil {
		metrics.AlertsTotal.WithLabelValues(string(ev.Alert.Type), string(ev.Alert.Severity)).Inc()
		if entry.Analysis.RiskScore > risk.MaliciousThreshold {
			s := suggestFor(m.src, entry)
			ev.Suggestion = &s
		}
	}

	for _, p := range m.publishers {
		p.PublishTick(ctx, ev)
	}

	m.logger.Debug("tick",
		"tx_id", entry.ID,
		"from", entry.From,
		"risk_score", entry.Analysis.RiskScore,
		"classification", entry.Analysis.Classification,
		"alert", ev.Alert != nil,
	)
	return ev, err
}

func computeStats(feed []ledger.Entry) Stats {
	s := Stats{TotalTransactions: len(feed)}
	if len(feed) == 0 {
		return s
	}
	sum := 0
	for _, e := range feed {
		sum += e.Analysis.RiskScore
		if e.Analysis.Classification == risk.ClassMalicious {
			s.MaliciousBlocked++
		}
	}
	s.AverageRiskScore = int(math.Round(float64(sum) / float64(len(feed))))
	return s
}

// Run drives ticks on a randomized interval until ctx is cancelled or Stop
// is called. While paused no ticks are scheduled.
func (m *Monitor) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		cancel()
		return errors.New("monitor: already running")
	}
	m.running = true
	m.cancel = cancel
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.running = false
		m.cancel = nil
		m.mu.Unlock()
		cancel()
	}()

	m.logger.Info("monitor started",
		"min_interval", m.minInterval,
		"max_interval", m.maxInterval,
	)

	for {
		if m.Paused() {
			select {
			case <-ctx.Done():
				m.logger.Info("monitor stopped")
				return nil
			case <-m.wake:
				continue
			}
		}

		timer := time.NewTimer(m.nextInterval())
		select {
		case <-ctx.Done():
			timer.Stop()
			m.logger.Info("monitor stopped")
			return nil
		case <-m.wake:
			// Pause or resume while waiting: reschedule from scratch.
			timer.Stop()
			continue
		case <-timer.C:
		}

		if m.Paused() {
			continue
		}
		_, _ = m.Tick(ctx)
	}
}

func (m *Monitor) nextInterval() time.Duration {
	span := float64(m.maxInterval - m.minInterval)
	return m.minInterval + time.Duration(rng.Uniform(m.src, 0, span))
}

// Stop ends a running loop. It is a no-op when the loop is not running.
func (m *Monitor) Stop() {
	m.mu.RLock()
	cancel := m.cancel
	m.mu.RUnlock()
	if cancel != nil {
		cancel()
	}
}

// Pause stops scheduling ticks. Nothing in flight is cancelled.
func (m *Monitor) Pause() { m.setPaused(true) }

// Resume schedules ticks again.
func (m *Monitor) Resume() { m.setPaused(false) }

func (m *Monitor) setPaused(paused bool) {
	m.mu.Lock()
	changed := m.paused != paused
	m.paused = paused
	m.mu.Unlock()
	if !changed {
		return
	}

	if paused {
		metrics.FeedPaused.Set(1)
		m.logger.Info("monitor paused")
	} else {
		metrics.FeedPaused.Set(0)
		m.logger.Info("monitor resumed")
	}
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// Paused reports whether tick scheduling is suspended.
func (m *Monitor) Paused() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.paused
}

// Status returns a snapshot of the loop state.
func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st := Status{
		Running:     m.running,
		Paused:      m.paused,
		Ticks:       m.ticks,
		FeedSize:    len(m.feed),
		MinInterval: m.minInterval.String(),
		MaxInterval: m.maxInterval.String(),
	}
	if !m.lastTick.IsZero() {
		st.LastTick = m.lastTick.UnixMilli()
	}
	return st
}

// LastTick returns when the pipeline last ran, or the zero time.
func (m *Monitor) LastTick() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastTick
}

// Stats returns the counters computed after the last tick.
func (m *Monitor) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats
}

// Feed returns the entries matching f, newest first.
func (m *Monitor) Feed(f Filter) []ledger.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ledger.Entry, 0, len(m.feed))
	for _, e := range m.feed {
		if !f.Matches(e) {
			continue
		}
		out = append(out, e)
		if f.Limit > 0 && len(out) >= f.Limit {
			break
		}
	}
	return out
}

// Lookup finds a feed entry by transaction ID or hash.
func (m *Monitor) Lookup(id string) (ledger.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.feed {
		if e.ID == id || e.Hash == id {
			return e, nil
		}
	}
	return ledger.Entry{}, ErrTransactionNotFound
}

// ChatStats reports the counters the assistant renders replies with.
func (m *Monitor) ChatStats(ctx context.Context) chat.Stats {
	s := m.Stats()
	out := chat.Stats{
		TotalTransactions: s.TotalTransactions,
		MaliciousBlocked:  s.MaliciousBlocked,
		AverageRiskScore:  s.AverageRiskScore,
	}
	counts, err := m.alerts.Counts(ctx)
	if err != nil {
		m.logger.Warn("failed to count alerts", "error", err)
		return out
	}
	out.ActiveAlerts = counts[alerts.StatusActive]
	return out
}
