package modules

import (
	"github.com/navicore/zim-dsp-go/internal/graph"
	"github.com/navicore/zim-dsp-go/internal/wavegen"
)

// Oscillator is an audio-rate phase accumulator with linear FM and
// hard sync, producing all four classic waveforms simultaneously.
type Oscillator struct {
	baseFreq   float32
	sampleRate float32
	phase      wavegen.Phase
	prevSync   float32
}

// NewOscillator returns an oscillator with the given base frequency in Hz.
func NewOscillator(baseFreq float32) *Oscillator {
	return &Oscillator{baseFreq: baseFreq, sampleRate: 44100}
}

func (o *Oscillator) SetSampleRate(sr float32) { o.sampleRate = sr }

func (o *Oscillator) Inputs() []graph.PortDescriptor {
	return []graph.PortDescriptor{
		{Name: "freq", Default: 0, Description: "overrides base frequency (Hz) when > 0"},
		{Name: "fm", Default: 0, Description: "relative FM, scaled by base frequency"},
		{Name: "sync", Default: 0, Description: "rising edge resets phase to 0"},
	}
}

func (o *Oscillator) Outputs() []graph.PortDescriptor {
	return []graph.PortDescriptor{
		{Name: "sine"},
		{Name: "saw"},
		{Name: "square"},
		{Name: "triangle"},
	}
}

func (o *Oscillator) Process(inputs, outputs *graph.PortBuffers, n int) {
	freq := inputs.GetOrDefault("freq", n, 0)
	fm := inputs.GetOrDefault("fm", n, 0)
	sync := inputs.GetOrDefault("sync", n, 0)

	bufs := out(outputs, n, "sine", "saw", "square", "triangle")
	sine, saw, square, triangle := bufs[0], bufs[1], bufs[2], bufs[3]

	sampleRate := o.sampleRate
	for i := 0; i < n; i++ {
		if risingEdge(o.prevSync, sync[i]) {
			o.phase.Reset()
		}
		o.prevSync = sync[i]

		base := o.baseFreq
		if freq[i] > 0 {
			base = freq[i]
		}
		instant := base * (1 + fm[i])

		p := o.phase.Value()
		sine[i] = wavegen.Sine(p)
		saw[i] = wavegen.Saw(p)
		square[i] = wavegen.Square(p)
		triangle[i] = wavegen.Triangle(p)

		o.phase.Advance(instant, sampleRate)
	}
}

func (o *Oscillator) SetParam(name string, value float32) error {
	switch name {
	case "freq":
		o.baseFreq = value
	default:
		return errUnknownParam(name)
	}
	return nil
}

func (o *Oscillator) GetParam(name string) (float32, bool) {
	if name == "freq" {
		return o.baseFreq, true
	}
	return 0, false
}
