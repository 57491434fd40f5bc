// Package modelperf simulates the performance cards of the detection models.
//
// Nothing is measured. Values start from fixed baselines, drift a little on
// every Drift call and improve after a simulated retrain.
package modelperf

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/mbd888/andromeda/internal/metrics"
	"github.com/mbd888/andromeda/internal/rng"
)

// ErrRetrainInProgress is returned when a retrain is requested while one runs.
var ErrRetrainInProgress = errors.New("modelperf: retrain already in progress")

// Metrics are the headline detection figures.
type Metrics struct {
	Accuracy          float64 `json:"accuracy"`
	Precision         float64 `json:"precision"`
	Recall            float64 `json:"recall"`
	F1Score           float64 `json:"f1Score"`
	FalsePositiveRate float64 `json:"falsePositiveRate"`
	Throughput        int     `json:"throughput"` // tx/s
	Latency           int     `json:"latency"`    // ms
}

// Performance holds per-model accuracy in percent.
type Performance struct {
	Supervised float64 `json:"supervised"`
	Anomaly    float64 `json:"anomaly"`
	LSTM       float64 `json:"lstm"`
	Ensemble   float64 `json:"ensemble"`
}

// Baselines.
var (
	DefaultMetrics = Metrics{
		Accuracy:          94.2,
		Precision:         91.8,
		Recall:            89.5,
		F1Score:           90.6,
		FalsePositiveRate: 2.1,
		Throughput:        1250,
		Latency:           45,
	}
	DefaultPerformance = Performance{
		Supervised: 92.3,
		Anomaly:    87.1,
		LSTM:       89.7,
		Ensemble:   94.2,
	}
)

// Retrain improvement caps.
const (
	MaxAccuracy  = 98
	MaxPrecision = 97
	MaxRecall    = 96
)

// DefaultRetrainDuration is how long a simulated retrain takes.
const DefaultRetrainDuration = 8 * time.Second

// Snapshot is the state served to clients.
type Snapshot struct {
	Metrics     Metrics     `json:"metrics"`
	Performance Performance `json:"performance"`
	Training    bool        `json:"training"`
	Retrains    int         `json:"retrains"`
	LastRetrain int64       `json:"lastRetrain,omitempty"` // unix millis
	UpdatedAt   int64       `json:"updatedAt"`             // unix millis
}

// EventEmitter broadcasts model updates.
type EventEmitter interface {
	EmitModelUpdate(s Snapshot)
}

// Tracker owns the simulated model state
type Tracker struct {
	src             rng.Source
	retrainDuration time.Duration
	now             func() time.Time
	events          EventEmitter
	logger          *slog.Logger

	mu          sync.RWMutex
	metrics     Metrics
	performance Performance
	training    bool
	retrains    int
	lastRetrain time.Time
	updatedAt   time.Time
}

// New creates a tracker at the baselines.
func New(src rng.Source, logger *slog.Logger) *Tracker {
	t := &Tracker{
		src:             src,
		retrainDuration: DefaultRetrainDuration,
		now:             time.Now,
		logger:          logger,
		metrics:         DefaultMetrics,
		performance:     DefaultPerformance,
	}
	t.updatedAt = t.now()
	metrics.ModelAccuracy.Set(t.metrics.Accuracy)
	return t
}

// WithRetrainDuration sets how long Retrain takes.
func (t *Tracker) WithRetrainDuration(d time.Duration) *Tracker {
	t.retrainDuration = d
	return t
}

// WithClock overrides the timestamp source.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// WithEvents adds event emitter
func (t *Tracker) WithEvents(events EventEmitter) *Tracker {
	t.events = events
	return t
}

// Snapshot returns the current state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snapshotLocked()
}

func (t *Tracker) snapshotLocked() Snapshot {
	s := Snapshot{
		Metrics:     t.metrics,
		Performance: t.performance,
		Training:    t.training,
		Retrains:    t.retrains,
		UpdatedAt:   t.updatedAt.UnixMilli(),
	}
	if !t.lastRetrain.IsZero() {
		s.LastRetrain = t.lastRetrain.UnixMilli()
	}
	return s
}

// jitter returns a draw from [-width/2, width/2).
func (t *Tracker) jitter(width float64) float64 {
	return (t.src.Float64() - 0.5) * width
}

// Drift applies one random walk step to accuracy and the per-model figures
// and redraws throughput and latency.
func (t *Tracker) Drift() Snapshot {
	t.mu.Lock()
	t.metrics.Accuracy += t.jitter(0.5)
	t.metrics.Throughput = t.src.Intn(200) + 1150
	t.metrics.Latency = t.src.Intn(20) + 35

	t.performance.Supervised += t.jitter(1)
	t.performance.Anomaly += t.jitter(1)
	t.performance.LSTM += t.jitter(1)
	t.performance.Ensemble += t.jitter(0.3)
	t.updatedAt = t.now()
	s := t.snapshotLocked()
	t.mu.Unlock()

	t.publish(s)
	return s
}

// Run drifts the figures every interval until ctx is cancelled.
func (t *Tracker) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			t.Drift()
		}
	}
}

// Retrain starts a simulated retrain and returns a channel closed when it
// ends. When it completes, accuracy, precision and recall improve by a
// random amount up to their caps. If ctx ends first the retrain is abandoned
// and nothing improves.
func (t *Tracker) Retrain(ctx context.Context) (<-chan struct{}, error) {
	t.mu.Lock()
	if t.training {
		t.mu.Unlock()
		return nil, ErrRetrainInProgress
	}
	t.training = true
	s := t.snapshotLocked()
	t.mu.Unlock()

	t.logger.Info("model retrain started", "duration", t.retrainDuration)
	t.publish(s)

	done := make(chan struct{})
	go func() {
		defer close(done)

		timer := time.NewTimer(t.retrainDuration)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			t.finish(false)
		case <-timer.C:
			t.finish(true)
		}
	}()
	return done, nil
}

func (t *Tracker) finish(completed bool) {
	t.mu.Lock()
	t.training = false
	if completed {
		t.metrics.Accuracy = math.Min(t.metrics.Accuracy+rng.Uniform(t.src, 0, 2), MaxAccuracy)
		t.metrics.Precision = math.Min(t.metrics.Precision+rng.Uniform(t.src, 0, 1.5), MaxPrecision)
		t.metrics.Recall = math.Min(t.metrics.Recall+rng.Uniform(t.src, 0, 1.5), MaxRecall)
		t.retrains++
		t.lastRetrain = t.now()
	}
	t.updatedAt = t.now()
	s := t.snapshotLocked()
	t.mu.Unlock()

	if completed {
		metrics.ModelRetrainsTotal.WithLabelValues("completed").Inc()
		t.logger.Info("model retrain completed", "accuracy", s.Metrics.Accuracy)
	} else {
		metrics.ModelRetrainsTotal.WithLabelValues("abandoned").Inc()
		t.logger.Warn("model retrain abandoned")
	}
	t.publish(s)
}

func (t *Tracker) publish(s Snapshot) {
	metrics.ModelAccuracy.Set(s.Metrics.Accuracy)
	if t.events != nil {
		t.events.EmitModelUpdate(s)
	}
}
