package modules

import "github.com/navicore/zim-dsp-go/internal/graph"

// Filter is a one-pole low-pass with CV over cutoff. The resonance
// port and parameter are declared for patch compatibility but the
// one-pole topology has no resonance stage to feed; this mirrors the
// reference implementation, which accepts but does not wire it.
type Filter struct {
	cutoff     float32
	resonance  float32
	sampleRate float32
	state      float32
}

func NewFilter(cutoff, resonance float32) *Filter {
	return &Filter{cutoff: cutoff, resonance: resonance, sampleRate: 44100}
}

func (f *Filter) SetSampleRate(sr float32) { f.sampleRate = sr }

func (f *Filter) Inputs() []graph.PortDescriptor {
	return []graph.PortDescriptor{
		{Name: "audio", Default: 0},
		{Name: "cutoff", Default: 0, Description: "added to configured cutoff, clamped to [20, 20000] Hz"},
		{Name: "resonance", Default: 0},
	}
}

func (f *Filter) Outputs() []graph.PortDescriptor {
	return []graph.PortDescriptor{{Name: "lp"}, {Name: "hp"}}
}

func (f *Filter) Process(inputs, outputs *graph.PortBuffers, n int) {
	audio := inputs.GetOrDefault("audio", n, 0)
	cutoffCV := inputs.GetOrDefault("cutoff", n, 0)
	bufs := out(outputs, n, "lp", "hp")
	lp, hp := bufs[0], bufs[1]

	nyquist := f.sampleRate * 0.5
	for i := 0; i < n; i++ {
		freq := clamp(f.cutoff+cutoffCV[i], 20, 20000)
		k := freq / nyquist
		if k > 0.99 {
			k = 0.99
		}
		f.state += k * (audio[i] - f.state)
		lp[i] = f.state
		hp[i] = audio[i] - f.state
	}
}

func (f *Filter) SetParam(name string, value float32) error {
	switch name {
	case "cutoff":
		f.cutoff = value
	case "resonance":
		f.resonance = value
	default:
		return errUnknownParam(name)
	}
	return nil
}

func (f *Filter) GetParam(name string) (float32, bool) {
	switch name {
	case "cutoff":
		return f.cutoff, true
	case "resonance":
		return f.resonance, true
	}
	return 0, false
}
