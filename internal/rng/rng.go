// Package rng supplies the random draws behind the simulation. Every consumer
// takes a Source so tests can script exact values and seeded runs replay.
package rng

import (
	"hash/fnv"
	"math/rand"
	"sync"
	"time"
)

// Source is a uniform random source.
type Source interface {
	// Float64 returns a value in [0,1).
	Float64() float64
	// Intn returns a value in [0,n). It panics if n <= 0.
	Intn(n int) int
}

// Mode selects how a Factory seeds its streams.
type Mode int

const (
	Deterministic Mode = iota
	Real
)

// Factory hands out named random streams. Each stream is seeded from the
// factory seed and its name, so adding a consumer never shifts the draws of
// another.
type Factory struct {
	baseSeed int64
	mode     Mode

	mu      sync.Mutex
	streams map[string]*lockedRand
}

// New creates a factory. Real mode seeds once from the clock.
func New(mode Mode, seed int64) *Factory {
	if mode == Real {
		seed = time.Now().UnixNano()
	}
	return &Factory{
		baseSeed: seed,
		mode:     mode,
		streams:  make(map[string]*lockedRand),
	}
}

// FromSeed returns a deterministic factory for a non-zero seed and a
// clock-seeded one otherwise.
func FromSeed(seed int64) *Factory {
	if seed == 0 {
		return New(Real, 0)
	}
	return New(Deterministic, seed)
}

// Mode reports how the factory was seeded.
func (f *Factory) Mode() Mode { return f.mode }

// Stream returns the named stream, creating it on first use.
// Streams are safe for concurrent use.
func (f *Factory) Stream(name string) Source {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r, ok := f.streams[name]; ok {
		return r
	}
	r := &lockedRand{r: rand.New(rand.NewSource(deriveSeed(f.baseSeed, name)))}
	f.streams[name] = r
	return r
}

func deriveSeed(base int64, name string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return int64(h.Sum64()) ^ base
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

// Uniform draws from [lo,hi).
func Uniform(src Source, lo, hi float64) float64 {
	return lo + (hi-lo)*src.Float64()
}

// Chance reports true with probability p.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// Pick returns a uniformly chosen element. items must be non-empty.
func Pick[T any](src Source, items []T) T {
	return items[src.Intn(len(items))]
}

// Base36 returns n random characters from [0-9a-z].
func Base36(src Source, n int) string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[src.Intn(len(alphabet))]
	}
	return string(b)
}

// Sequence replays a scripted list of floats, cycling when exhausted.
// Intn maps the next float onto [0,n).
type Sequence struct {
	mu   sync.Mutex
	vals []float64
	pos  int
}

// NewSequence creates a scripted source. With no values it always yields 0.
func NewSequence(vals ...float64) *Sequence {
	return &Sequence{vals: vals}
}

func (s *Sequence) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.vals) == 0 {
		return 0
	}
	v := s.vals[s.pos%len(s.vals)]
	s.pos++
	return v
}

func (s *Sequence) Intn(n int) int {
	if n <= 0 {
		panic("rng: invalid argument to Intn")
	}
	i := int(s.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// Draws reports how many values have been consumed.
func (s *Sequence) Draws() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}
