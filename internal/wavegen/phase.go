// Package wavegen holds the phase-accumulator primitive shared by every
// module that advances a periodic waveform at audio or sub-audio rate:
// the oscillator and the LFO.
package wavegen

import "math"

// Phase is a scalar in [0, 1) advanced once per sample.
type Phase struct {
	value float32
}

// Value returns the current phase without advancing it.
func (p *Phase) Value() float32 {
	return p.value
}

// Reset sets the phase back to 0, as on a sync pulse.
func (p *Phase) Reset() {
	p.value = 0
}

// Advance steps the phase by freqHz/sampleRate, wrapping into [0, 1), and
// reports whether the step wrapped (completed a full cycle).
func (p *Phase) Advance(freqHz, sampleRate float32) bool {
	if sampleRate <= 0 {
		return false
	}
	p.value += freqHz / sampleRate
	wrapped := false
	for p.value >= 1.0 {
		p.value -= 1.0
		wrapped = true
	}
	for p.value < 0.0 {
		p.value += 1.0
		wrapped = true
	}
	return wrapped
}

// Sine returns sin(2*pi*phase).
func Sine(phase float32) float32 {
	return float32(math.Sin(2 * math.Pi * float64(phase)))
}

// Saw returns a bipolar ramp: -1 at phase 0, +1 just before phase 1.
func Saw(phase float32) float32 {
	return 2*phase - 1
}

// Square returns +1 for the first half of the cycle, -1 for the second.
func Square(phase float32) float32 {
	if phase < 0.5 {
		return 1
	}
	return -1
}

// Triangle returns a bipolar triangle rising from -1 to +1 over the first
// half of the cycle and falling back over the second.
func Triangle(phase float32) float32 {
	if phase < 0.5 {
		return 4*phase - 1
	}
	return 3 - 4*phase
}

// Gate returns a unipolar 0/1 gate, high for the first half of the cycle.
func Gate(phase float32) float32 {
	if phase < 0.5 {
		return 1
	}
	return 0
}

// Ramp returns a unipolar sawtooth equal to the phase itself.
func Ramp(phase float32) float32 {
	return phase
}

// RisingEdge reports whether the signal crossed from <=0 to >0.
func RisingEdge(prev, cur float32) bool {
	return cur > 0 && prev <= 0
}
