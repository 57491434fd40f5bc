package circuitbreaker

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestBreaker(threshold int, open time.Duration) (*Breaker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	return New(threshold, open).WithClock(clock.now), clock
}

func TestBreaker_ClosedAllows(t *testing.T) {
	b, _ := newTestBreaker(3, time.Second)
	assert.True(t, b.Allow("kafka"))
	assert.Equal(t, StateClosed, b.State("kafka"))
	assert.Empty(t, b.Tripped())
}

func TestBreaker_TripsAfterThreshold(t *testing.T) {
	b, _ := newTestBreaker(3, time.Second)

	b.RecordFailure("kafka")
	b.RecordFailure("kafka")
	assert.True(t, b.Allow("kafka"), "below threshold")

	b.RecordFailure("kafka")
	assert.False(t, b.Allow("kafka"))
	assert.Equal(t, StateOpen, b.State("kafka"))
	assert.Equal(t, []string{"kafka"}, b.Tripped())
}

func TestBreaker_SuccessResetsCount(t *testing.T) {
	b, _ := newTestBreaker(3, time.Second)

	b.RecordFailure("redis")
	b.RecordFailure("redis")
	b.RecordSuccess("redis")
	b.RecordFailure("redis")
	b.RecordFailure("redis")
	assert.Equal(t, StateClosed, b.State("redis"), "failures must be consecutive")
}

func TestBreaker_HalfOpenTrial(t *testing.T) {
	b, clock := newTestBreaker(2, 30*time.Second)

	b.RecordFailure("kafka")
	b.RecordFailure("kafka")
	clock.advance(29 * time.Second)
	assert.False(t, b.Allow("kafka"), "still cooling down")

	clock.advance(time.Second)
	assert.True(t, b.Allow("kafka"), "one trial after cooldown")
	assert.Equal(t, StateHalfOpen, b.State("kafka"))
	assert.False(t, b.Allow("kafka"), "only one trial at a time")

	b.RecordSuccess("kafka")
	assert.Equal(t, StateClosed, b.State("kafka"))
	assert.True(t, b.Allow("kafka"))
}

func TestBreaker_FailedTrialReopens(t *testing.T) {
	b, clock := newTestBreaker(2, time.Second)

	b.RecordFailure("kafka")
	b.RecordFailure("kafka")
	clock.advance(time.Second)
	assert.True(t, b.Allow("kafka"))

	b.RecordFailure("kafka")
	assert.Equal(t, StateOpen, b.State("kafka"))
	assert.False(t, b.Allow("kafka"))
}

func TestBreaker_KeysAreIndependent(t *testing.T) {
	b, _ := newTestBreaker(1, time.Second)

	b.RecordFailure("kafka")
	assert.False(t, b.Allow("kafka"))
	assert.True(t, b.Allow("redis"))
}

func TestBreaker_Defaults(t *testing.T) {
	b := New(0, 0)
	assert.Equal(t, DefaultThreshold, b.threshold)
	assert.Equal(t, DefaultOpenDuration, b.openDuration)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half_open", StateHalfOpen.String())
	assert.Equal(t, "unknown", State(9).String())
}

func TestBreaker_Concurrent(t *testing.T) {
	b := New(100, time.Second)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				b.RecordFailure("kafka")
			} else {
				b.RecordSuccess("kafka")
			}
			b.Allow("kafka")
		}(i)
	}
	wg.Wait()
	assert.Equal(t, StateClosed, b.State("kafka"))
}
