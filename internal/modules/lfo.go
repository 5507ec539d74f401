package modules

import (
	"github.com/navicore/zim-dsp-go/internal/graph"
	"github.com/navicore/zim-dsp-go/internal/wavegen"
)

// LFO is a sub-audio-rate phase accumulator, identical in shape to
// Oscillator but without FM and with a different output set tuned for
// modulation duty: bipolar sine/square, unipolar gate/ramp.
type LFO struct {
	freq       float32
	sampleRate float32
	phase      wavegen.Phase
	prevSync   float32
}

func NewLFO(freq float32) *LFO {
	return &LFO{freq: freq, sampleRate: 44100}
}

func (l *LFO) SetSampleRate(sr float32) { l.sampleRate = sr }

func (l *LFO) Inputs() []graph.PortDescriptor {
	return []graph.PortDescriptor{
		{Name: "sync", Default: 0, Description: "rising edge resets phase to 0"},
	}
}

func (l *LFO) Outputs() []graph.PortDescriptor {
	return []graph.PortDescriptor{
		{Name: "sine"},
		{Name: "square"},
		{Name: "gate"},
		{Name: "ramp"},
	}
}

func (l *LFO) Process(inputs, outputs *graph.PortBuffers, n int) {
	sync := inputs.GetOrDefault("sync", n, 0)
	bufs := out(outputs, n, "sine", "square", "gate", "ramp")
	sine, square, gate, ramp := bufs[0], bufs[1], bufs[2], bufs[3]

	for i := 0; i < n; i++ {
		if risingEdge(l.prevSync, sync[i]) {
			l.phase.Reset()
		}
		l.prevSync = sync[i]

		p := l.phase.Value()
		sine[i] = wavegen.Sine(p)
		square[i] = wavegen.Square(p)
		gate[i] = wavegen.Gate(p)
		ramp[i] = wavegen.Ramp(p)

		l.phase.Advance(l.freq, l.sampleRate)
	}
}

func (l *LFO) SetParam(name string, value float32) error {
	if name != "freq" {
		return errUnknownParam(name)
	}
	l.freq = value
	return nil
}

func (l *LFO) GetParam(name string) (float32, bool) {
	if name == "freq" {
		return l.freq, true
	}
	return 0, false
}
