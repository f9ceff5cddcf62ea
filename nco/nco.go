// Package nco implements a numerically controlled oscillator.
//
// The oscillator keeps a 32-bit phase accumulator and advances it by a
// tuning word once per sample clock tick. The high bits of the phase select
// the output waveform value, so the output frequency is
// sampleRate * tuningWord / 2^32.
package nco

import (
	"log"
	"math"
)

// Freq defines the type of frequency.
type Freq float64

// Defines the unit of frequency.
const (
	Hz  Freq = 1
	KHz Freq = 1e3
	MHz Freq = 1e6
	GHz Freq = 1e9
)

const phaseRange = 1 << 32

// An NCO is a numerically controlled oscillator.
type NCO struct {
	sampleRate Freq
	tuningWord uint32
	phase      uint32
}

// NewNCO creates an oscillator driven by a sample clock of the given rate.
func NewNCO(sampleRate Freq) *NCO {
	if sampleRate <= 0 {
		log.Panic("sample rate must be positive")
	}

	return &NCO{sampleRate: sampleRate}
}

// SetOutputFreq tunes the oscillator to the given output frequency, which
// must stay below half the sample rate.
func (n *NCO) SetOutputFreq(f Freq) {
	if f < 0 || f*2 > n.sampleRate {
		log.Panicf("output frequency %v out of range for sample rate %v",
			f, n.sampleRate)
	}

	n.tuningWord = uint32(math.Round(
		float64(f) / float64(n.sampleRate) * phaseRange))
}

// SetTuningWord sets the phase increment directly.
func (n *NCO) SetTuningWord(word uint32) {
	n.tuningWord = word
}

// OutputFreq returns the currently tuned output frequency.
func (n *NCO) OutputFreq() Freq {
	return n.sampleRate * Freq(n.tuningWord) / phaseRange
}

// Tick advances the phase accumulator by one sample clock cycle.
func (n *NCO) Tick() {
	n.phase += n.tuningWord
}

// Phase returns the current phase in [0, 1).
func (n *NCO) Phase() float64 {
	return float64(n.phase) / phaseRange
}

// Sine returns the sine output for the current phase.
func (n *NCO) Sine() float64 {
	return math.Sin(2 * math.Pi * n.Phase())
}

// Square returns the square-wave output for the current phase. It is the
// most significant bit of the phase accumulator.
func (n *NCO) Square() bool {
	return n.phase >= phaseRange/2
}

// Sawtooth returns the sawtooth output for the current phase, rising from
// -1 to 1 over one period.
func (n *NCO) Sawtooth() float64 {
	return 2*n.Phase() - 1
}

// Reset returns the phase accumulator to zero.
func (n *NCO) Reset() {
	n.phase = 0
}
