package reconcile

import (
	"math/rand"
	"sync"
	"time"
)

// MultiplierSource yields the GDP multiplier for one record. It is injected
// so tests can pin the value while production draws a fresh one per record.
type MultiplierSource interface {
	Multiplier() float64
}

// UniformSource draws uniformly from [1000, 2000). It is safe for
// concurrent use.
type UniformSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewUniformSource creates the production multiplier source.
func NewUniformSource() *UniformSource {
	return &UniformSource{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Multiplier returns a value in [1000, 2000).
func (s *UniformSource) Multiplier() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return 1000 + s.rng.Float64()*1000
}

// Fixed is a constant multiplier source for deterministic tests.
type Fixed float64

// Multiplier returns the fixed value.
func (f Fixed) Multiplier() float64 {
	return float64(f)
}
