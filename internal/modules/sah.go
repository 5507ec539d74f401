package modules

import "github.com/navicore/zim-dsp-go/internal/graph"

// SampleAndHold captures and holds the value of in at each rising
// edge of trigger.
type SampleAndHold struct {
	held        float32
	prevTrigger float32
}

func NewSampleAndHold() *SampleAndHold {
	return &SampleAndHold{}
}

func (s *SampleAndHold) Inputs() []graph.PortDescriptor {
	return []graph.PortDescriptor{
		{Name: "in", Default: 0},
		{Name: "trigger", Default: 0},
	}
}

func (s *SampleAndHold) Outputs() []graph.PortDescriptor {
	return []graph.PortDescriptor{{Name: "out"}}
}

func (s *SampleAndHold) Process(inputs, outputs *graph.PortBuffers, n int) {
	in := inputs.GetOrDefault("in", n, 0)
	trigger := inputs.GetOrDefault("trigger", n, 0)
	res := out(outputs, n, "out")[0]

	for i := 0; i < n; i++ {
		if risingEdge(s.prevTrigger, trigger[i]) {
			s.held = in[i]
		}
		s.prevTrigger = trigger[i]
		res[i] = s.held
	}
}

func (s *SampleAndHold) SetParam(name string, value float32) error {
	return errUnknownParam(name)
}

func (s *SampleAndHold) GetParam(name string) (float32, bool) {
	return 0, false
}
