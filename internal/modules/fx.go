package modules

import (
	"github.com/navicore/zim-dsp-go/internal/effects"
	"github.com/navicore/zim-dsp-go/internal/graph"
)

// FX adapts a sample-rate stereo effects chain (reverb, delay, chorus,
// compressor, distortion, EQ) into a graph node, letting a patch route
// any signal through post-processing the same way it would route
// audio through any other module.
type FX struct {
	chain *effects.Chain
}

// NewFX wraps a prebuilt effects chain. Patches select the chain shape
// via the `fx` module's keyword token at parse time (`fx: fx reverb
// 0.6 0.3 0.4`); see the engine's fx built-in for the concrete chains
// offered (reverb, delay, chorus, comp, drive, eq3, eq5).
func NewFX(chain *effects.Chain) *FX {
	return &FX{chain: chain}
}

func (f *FX) Inputs() []graph.PortDescriptor {
	return []graph.PortDescriptor{
		{Name: "left", Default: 0},
		{Name: "right", Default: 0},
	}
}

func (f *FX) Outputs() []graph.PortDescriptor {
	return []graph.PortDescriptor{{Name: "left"}, {Name: "right"}}
}

func (f *FX) Process(inputs, outputs *graph.PortBuffers, n int) {
	left := inputs.GetOrDefault("left", n, 0)
	right := inputs.GetOrDefault("right", n, 0)
	bufs := out(outputs, n, "left", "right")
	leftOut, rightOut := bufs[0], bufs[1]

	for i := 0; i < n; i++ {
		leftOut[i], rightOut[i] = f.chain.Process(left[i], right[i])
	}
}

func (f *FX) SetParam(name string, value float32) error {
	return errUnknownParam(name)
}

func (f *FX) GetParam(name string) (float32, bool) {
	return 0, false
}
