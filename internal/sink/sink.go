// Package sink fans monitor events out to external brokers.
//
// Delivery is best-effort. Events are queued and published by a background
// worker; when the queue is full the event is dropped and counted. A failed
// publish is logged and counted, never retried. A sink that fails
// repeatedly is skipped until its circuit breaker lets a trial request through.
package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mbd888/andromeda/internal/circuitbreaker"
	"github.com/mbd888/andromeda/internal/metrics"
	"github.com/mbd888/andromeda/internal/monitor"
)

// Event types written to sinks.
const (
	TypeTransaction = "transaction"
	TypeAlert       = "alert"
	TypeSuggestion  = "suggestion"
)

// Envelope is the wire format every sink writes.
type Envelope struct {
	Type      string          `json:"type"`
	Timestamp int64           `json:"ts"`  // unix millis
	Key       string          `json:"key"` // wallet address
	Data      json.RawMessage `json:"data"`
}

// NewEnvelope marshals v into an envelope stamped with at.
func NewEnvelope(typ, key string, v any, at time.Time) (Envelope, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to encode %s event: %w", typ, err)
	}
	return Envelope{Type: typ, Timestamp: at.UnixMilli(), Key: key, Data: data}, nil
}

// Sink publishes envelopes to one destination.
type Sink interface {
	Name() string
	Publish(ctx context.Context, env Envelope) error
	Close() error
}

// DefaultQueueSize bounds the number of events awaiting publication.
const DefaultQueueSize = 1024

// Fanout queues monitor events and publishes them to every sink.
type Fanout struct {
	sinks   []Sink
	queue   chan Envelope
	breaker *circuitbreaker.Breaker
	now     func() time.Time
	logger  *slog.Logger
}

// NewFanout creates a fanout over sinks.
func NewFanout(logger *slog.Logger, sinks ...Sink) *Fanout {
	return &Fanout{
		sinks:   sinks,
		queue:   make(chan Envelope, DefaultQueueSize),
		breaker: circuitbreaker.New(circuitbreaker.DefaultThreshold, circuitbreaker.DefaultOpenDuration),
		now:     time.Now,
		logger:  logger,
	}
}

// WithBreaker replaces the per-sink circuit breaker. Call before Run.
func (f *Fanout) WithBreaker(b *circuitbreaker.Breaker) *Fanout {
	f.breaker = b
	return f
}

// Tripped returns the names of sinks currently being skipped or trialled.
func (f *Fanout) Tripped() []string {
	return f.breaker.Tripped()
}

// Compile-time interface check
var _ monitor.Publisher = (*Fanout)(nil)

// Len reports how many sinks are configured.
func (f *Fanout) Len() int { return len(f.sinks) }

// PublishTick queues the events of one tick. It never blocks.
func (f *Fanout) PublishTick(_ context.Context, ev monitor.Event) {
	if len(f.sinks) == 0 {
		return
	}
	at := f.now()
	f.enqueue(TypeTransaction, ev.Entry.From, ev.Entry, at)
	if ev.Alert != nil {
		f.enqueue(TypeAlert, ev.Alert.WalletAddress, ev.Alert, at)
	}
	if ev.Suggestion != nil {
		f.enqueue(TypeSuggestion, ev.Entry.From, ev.Suggestion, at)
	}
}

func (f *Fanout) enqueue(typ, key string, v any, at time.Time) {
	env, err := NewEnvelope(typ, key, v, at)
	if err != nil {
		f.logger.Error("sink encode failed", "type", typ, "error", err)
		return
	}
	select {
	case f.queue <- env:
	default:
		for _, s := range f.sinks {
			metrics.SinkPublishTotal.WithLabelValues(s.Name(), "dropped").Inc()
		}
		f.logger.Warn("sink queue full, dropping event", "type", typ)
	}
}

// Run publishes queued events until ctx is cancelled, then closes every sink.
func (f *Fanout) Run(ctx context.Context) error {
	defer f.close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case env := <-f.queue:
			f.publish(ctx, env)
		}
	}
}

func (f *Fanout) publish(ctx context.Context, env Envelope) {
	for _, s := range f.sinks {
		name := s.Name()
		if !f.breaker.Allow(name) {
			metrics.SinkPublishTotal.WithLabelValues(name, "skipped").Inc()
			continue
		}
		if err := s.Publish(ctx, env); err != nil {
			f.breaker.RecordFailure(name)
			metrics.SinkPublishTotal.WithLabelValues(name, "error").Inc()
			f.logger.Warn("sink publish failed", "sink", name, "type", env.Type, "error", err)
			continue
		}
		f.breaker.RecordSuccess(name)
		metrics.SinkPublishTotal.WithLabelValues(name, "ok").Inc()
	}
}

func (f *Fanout) close() {
	for _, s := range f.sinks {
		if err := s.Close(); err != nil {
			f.logger.Warn("sink close failed", "sink", s.Name(), "error", err)
		}
	}
}
