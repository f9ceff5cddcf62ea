// Package edgedetect provides signal conditioning blocks for single-bit
// signals, including a multi-flop synchronizer and a one-shot edge detector.
package edgedetect

import "log"

// A Synchronizer models a chain of flip-flops that carries an asynchronous
// signal into a clock domain. A sample appears at the output after as many
// ticks as the chain has stages.
type Synchronizer struct {
	stages []bool
}

// NewSynchronizer creates a synchronizer with the given number of stages.
// Two stages is the conventional depth.
func NewSynchronizer(depth int) *Synchronizer {
	if depth < 1 {
		log.Panicf("synchronizer depth must be at least 1, got %d", depth)
	}

	return &Synchronizer{stages: make([]bool, depth)}
}

// Tick shifts the chain by one stage, taking in the given input sample, and
// returns the output of the last stage.
func (s *Synchronizer) Tick(in bool) bool {
	out := s.stages[len(s.stages)-1]

	copy(s.stages[1:], s.stages[:len(s.stages)-1])
	s.stages[0] = in

	return out
}

// Output returns the last stage without advancing the chain.
func (s *Synchronizer) Output() bool {
	return s.stages[len(s.stages)-1]
}

// Reset clears all stages to false.
func (s *Synchronizer) Reset() {
	for i := range s.stages {
		s.stages[i] = false
	}
}

// Edge selects which signal transitions a Detector reports.
type Edge int

// The edge kinds a Detector can watch for.
const (
	Rising Edge = iota
	Falling
	Either
)

// A Detector emits a one-tick pulse when the input signal transitions. The
// first sample primes the detector and never produces a pulse.
type Detector struct {
	edge   Edge
	prev   bool
	primed bool
}

// NewDetector creates a detector for the given edge kind.
func NewDetector(edge Edge) *Detector {
	return &Detector{edge: edge}
}

// Tick samples the input and reports whether the watched transition happened
// since the previous sample.
func (d *Detector) Tick(in bool) bool {
	if !d.primed {
		d.primed = true
		d.prev = in

		return false
	}

	rising := in && !d.prev
	falling := !in && d.prev
	d.prev = in

	switch d.edge {
	case Rising:
		return rising
	case Falling:
		return falling
	default:
		return rising || falling
	}
}

// Reset returns the detector to the unprimed state.
func (d *Detector) Reset() {
	d.prev = false
	d.primed = false
}
