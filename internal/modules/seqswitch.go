package modules

import "github.com/navicore/zim-dsp-go/internal/graph"

// SeqSwitch is a clocked sequential multiplexer: each clock edge
// selects the next of inputCount inputs, wrapping around.
type SeqSwitch struct {
	inputCount int

	selected  int
	prevClock float32
	prevReset float32
}

func NewSeqSwitch(inputCount int) *SeqSwitch {
	if inputCount < 2 {
		inputCount = 2
	}
	if inputCount > 8 {
		inputCount = 8
	}
	return &SeqSwitch{inputCount: inputCount}
}

func (s *SeqSwitch) Inputs() []graph.PortDescriptor {
	ports := []graph.PortDescriptor{
		{Name: "clock", Default: 0},
		{Name: "reset", Default: 0},
	}
	for i := 1; i <= s.inputCount; i++ {
		ports = append(ports, graph.PortDescriptor{Name: stepPortName("in", i), Default: 0})
	}
	return ports
}

func (s *SeqSwitch) Outputs() []graph.PortDescriptor {
	return []graph.PortDescriptor{{Name: "out"}, {Name: "gate"}}
}

func (s *SeqSwitch) Process(inputs, outputs *graph.PortBuffers, n int) {
	clock := inputs.GetOrDefault("clock", n, 0)
	reset := inputs.GetOrDefault("reset", n, 0)

	ins := make([][]float32, s.inputCount)
	for i := 0; i < s.inputCount; i++ {
		ins[i] = inputs.GetOrDefault(stepPortName("in", i+1), n, 0)
	}

	bufs := out(outputs, n, "out", "gate")
	outBuf, gate := bufs[0], bufs[1]

	for i := 0; i < n; i++ {
		if risingEdge(s.prevReset, reset[i]) {
			s.selected = 0
		}
		s.prevReset = reset[i]

		gate[i] = 0
		if risingEdge(s.prevClock, clock[i]) {
			s.selected = (s.selected + 1) % s.inputCount
			gate[i] = 1
		}
		s.prevClock = clock[i]

		outBuf[i] = ins[s.selected][i]
	}
}

func (s *SeqSwitch) SetParam(name string, value float32) error {
	if name != "input_count" {
		return errUnknownParam(name)
	}
	c := int(clamp(value, 2, 8))
	s.inputCount = c
	return nil
}

func (s *SeqSwitch) GetParam(name string) (float32, bool) {
	if name == "input_count" {
		return float32(s.inputCount), true
	}
	return 0, false
}
