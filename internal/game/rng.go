package game

import (
	"math/rand"
	"sync"
	"time"
)

// RNG is the only source of randomness the engine uses.
type RNG interface {
	// Intn returns a uniform integer in [0, n). n is always positive.
	Intn(n int) int
}

type seededRNG struct {
	rng *rand.Rand
}

// NewSeededRNG wraps math/rand. A zero seed uses the current time.
func NewSeededRNG(seed int64) RNG {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &seededRNG{rng: rand.New(rand.NewSource(seed))}
}

func (s *seededRNG) Intn(n int) int { return s.rng.Intn(n) }

// ScriptedRNG replays fixed values and is deterministic and test-friendly.
// Each call consumes one value v and returns v mod n; once the script runs
// out every call returns 0.
type ScriptedRNG struct {
	mu     sync.Mutex
	values []int
	calls  int
}

func NewScriptedRNG(values ...int) *ScriptedRNG {
	return &ScriptedRNG{values: values}
}

func (s *ScriptedRNG) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[0]
	s.values = s.values[1:]
	if v < 0 {
		v = -v
	}
	return v % n
}

// Push appends values to the script.
func (s *ScriptedRNG) Push(values ...int) {
	s.mu.Lock()
	s.values = append(s.values, values...)
	s.mu.Unlock()
}

// Calls is how many values have been drawn so far.
func (s *ScriptedRNG) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Remaining is how many scripted values are still queued.
func (s *ScriptedRNG) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values)
}

// roll returns a uniform integer in [lo, hi]. One value is always drawn so
// the number of draws per decision does not depend on the stats involved.
func roll(rng RNG, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	return lo + rng.Intn(hi-lo+1)
}
