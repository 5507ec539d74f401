package modules

import "github.com/navicore/zim-dsp-go/internal/graph"

// ManualGate exposes a control-thread-settable flag as a gate/trigger
// pair. The executor's ActivateAll/ReleaseAll batch operations flip
// every instance of this module in the graph via SetGate.
type ManualGate struct {
	on bool
}

func NewManualGate() *ManualGate {
	return &ManualGate{}
}

func (g *ManualGate) SetGate(on bool) { g.on = on }

func (g *ManualGate) Inputs() []graph.PortDescriptor { return nil }

func (g *ManualGate) Outputs() []graph.PortDescriptor {
	return []graph.PortDescriptor{{Name: "gate"}, {Name: "trig"}}
}

func (g *ManualGate) Process(inputs, outputs *graph.PortBuffers, n int) {
	bufs := out(outputs, n, "gate", "trig")
	var level float32
	if g.on {
		level = 1
	}
	for i := 0; i < n; i++ {
		bufs[0][i] = level
		bufs[1][i] = level
	}
}

func (g *ManualGate) SetParam(name string, value float32) error {
	if name != "gate" {
		return errUnknownParam(name)
	}
	g.on = value > 0.5
	return nil
}

func (g *ManualGate) GetParam(name string) (float32, bool) {
	if name != "gate" {
		return 0, false
	}
	if g.on {
		return 1, true
	}
	return 0, true
}
