// Package dicetest provides deterministic dice.Source implementations for tests.
package dicetest

import (
	"fmt"
	"sync"
)

// Scripted replays fixed values in order. Float64 and Intn consume separate
// tapes. Drawing from an exhausted tape panics so an unexpected draw fails
// the test loudly.
type Scripted struct {
	mu     sync.Mutex
	floats []float64
	ints   []int
	drawn  int
}

// NewScripted returns a Scripted source with the given Float64 tape and no Intn values.
func NewScripted(floats ...float64) *Scripted {
	return &Scripted{floats: floats}
}

// WithInts sets the Intn tape and returns s.
func (s *Scripted) WithInts(ints ...int) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ints = ints
	return s
}

// Float64 returns the next scripted float.
func (s *Scripted) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.floats) == 0 {
		panic(fmt.Sprintf("dicetest: Float64 tape exhausted after %d draws", s.drawn))
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	s.drawn++
	return v
}

// Intn returns the next scripted int reduced modulo n.
func (s *Scripted) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ints) == 0 {
		panic(fmt.Sprintf("dicetest: Intn tape exhausted after %d draws", s.drawn))
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	s.drawn++
	return v % n
}

// Drawn returns the number of values consumed from both tapes.
func (s *Scripted) Drawn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawn
}

// Remaining returns how many Float64 and Intn values are left.
func (s *Scripted) Remaining() (floats, ints int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.floats), len(s.ints)
}

// Fixed always returns the same values.
type Fixed struct {
	F float64
	I int
}

// Float64 returns f.F.
func (f Fixed) Float64() float64 { return f.F }

// Intn returns f.I reduced modulo n.
func (f Fixed) Intn(n int) int { return f.I % n }
