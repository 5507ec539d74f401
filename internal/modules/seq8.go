package modules

import "github.com/navicore/zim-dsp-go/internal/graph"

const seq8Steps = 8

// Seq8 is an 8-step CV/gate sequencer advanced by an external clock,
// with reset and direction-reverse inputs.
type Seq8 struct {
	length     int
	gateLength float32
	sampleRate float32

	step    int
	dir     int
	gateCountdown int

	prevClock, prevReset, prevReverse float32

	// stepVal holds each step's CV set via `seq.stepN <- v`; it adds to
	// whatever the stepN input port is also carrying, so a patch can
	// either wire a live CV or just assign a constant.
	stepVal [seq8Steps]float32
	// gateEnable holds each step's on/off flag set via `seq.gateN <- v`,
	// ANDed with the gateN input port (which defaults enabled).
	gateEnable [seq8Steps]bool
}

func NewSeq8() *Seq8 {
	s := &Seq8{length: seq8Steps, gateLength: 0.1, sampleRate: 44100, dir: 1}
	for i := range s.gateEnable {
		s.gateEnable[i] = true
	}
	return s
}

func (s *Seq8) SetSampleRate(sr float32) { s.sampleRate = sr }

func (s *Seq8) Inputs() []graph.PortDescriptor {
	ports := []graph.PortDescriptor{
		{Name: "clock", Default: 0},
		{Name: "reset", Default: 0},
		{Name: "reverse", Default: 0},
		{Name: "length", Default: float32(seq8Steps)},
		{Name: "gate_length", Default: 0.1},
	}
	for i := 1; i <= seq8Steps; i++ {
		ports = append(ports, graph.PortDescriptor{Name: stepPortName("step", i), Default: 0})
	}
	for i := 1; i <= seq8Steps; i++ {
		ports = append(ports, graph.PortDescriptor{Name: stepPortName("gate", i), Default: 1})
	}
	return ports
}

func (s *Seq8) Outputs() []graph.PortDescriptor {
	return []graph.PortDescriptor{{Name: "cv"}, {Name: "gate"}, {Name: "step"}}
}

func stepPortName(prefix string, i int) string {
	// step1..step8 / gate1..gate8
	digits := [10]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9'}
	return prefix + string(digits[i])
}

func (s *Seq8) Process(inputs, outputs *graph.PortBuffers, n int) {
	clock := inputs.GetOrDefault("clock", n, 0)
	reset := inputs.GetOrDefault("reset", n, 0)
	reverse := inputs.GetOrDefault("reverse", n, 0)

	steps := make([][]float32, seq8Steps)
	gates := make([][]float32, seq8Steps)
	for i := 0; i < seq8Steps; i++ {
		steps[i] = inputs.GetOrDefault(stepPortName("step", i+1), n, 0)
		gates[i] = inputs.GetOrDefault(stepPortName("gate", i+1), n, 1)
	}

	bufs := out(outputs, n, "cv", "gate", "step")
	cv, gate, stepOut := bufs[0], bufs[1], bufs[2]

	length := s.length
	if length < 1 {
		length = 1
	}
	if length > seq8Steps {
		length = seq8Steps
	}

	gateLen := int(s.gateLength * s.sampleRate)

	for i := 0; i < n; i++ {
		if risingEdge(s.prevReverse, reverse[i]) {
			s.dir = -s.dir
		}
		s.prevReverse = reverse[i]

		if risingEdge(s.prevReset, reset[i]) {
			s.step = 0
		}
		s.prevReset = reset[i]

		if risingEdge(s.prevClock, clock[i]) {
			s.step = ((s.step+s.dir)%length + length) % length
			if gates[s.step][i] > 0.5 && s.gateEnable[s.step] {
				s.gateCountdown = gateLen
			} else {
				s.gateCountdown = 0
			}
		}
		s.prevClock = clock[i]

		cv[i] = steps[s.step][i] + s.stepVal[s.step]
		stepOut[i] = float32(s.step)
		if s.gateCountdown > 0 {
			gate[i] = 1
			s.gateCountdown--
		} else {
			gate[i] = 0
		}
	}
}

func (s *Seq8) SetParam(name string, value float32) error {
	switch {
	case name == "length":
		s.length = int(clamp(value, 1, seq8Steps))
	case name == "gate_length":
		s.gateLength = value
	case stepParamIndex("step", name) >= 0:
		s.stepVal[stepParamIndex("step", name)] = value
	case stepParamIndex("gate", name) >= 0:
		s.gateEnable[stepParamIndex("gate", name)] = value > 0.5
	default:
		return errUnknownParam(name)
	}
	return nil
}

func (s *Seq8) GetParam(name string) (float32, bool) {
	switch {
	case name == "length":
		return float32(s.length), true
	case name == "gate_length":
		return s.gateLength, true
	case stepParamIndex("step", name) >= 0:
		return s.stepVal[stepParamIndex("step", name)], true
	case stepParamIndex("gate", name) >= 0:
		if s.gateEnable[stepParamIndex("gate", name)] {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// stepParamIndex returns the zero-based step index if name is
// prefix+"1".."8", or -1 otherwise.
func stepParamIndex(prefix, name string) int {
	for i := 1; i <= seq8Steps; i++ {
		if name == stepPortName(prefix, i) {
			return i - 1
		}
	}
	return -1
}
