package modules

import "github.com/navicore/zim-dsp-go/internal/graph"

// MonoMixer sums a fixed number of inputs, each with its own level.
type MonoMixer struct {
	inputCount int
	levels     []float32
}

func NewMonoMixer(inputCount int) *MonoMixer {
	if inputCount < 1 {
		inputCount = 1
	}
	levels := make([]float32, inputCount)
	for i := range levels {
		levels[i] = 1
	}
	return &MonoMixer{inputCount: inputCount, levels: levels}
}

func (m *MonoMixer) Inputs() []graph.PortDescriptor {
	ports := make([]graph.PortDescriptor, m.inputCount)
	for i := range ports {
		ports[i] = graph.PortDescriptor{Name: stepPortName("in", i+1), Default: 0}
	}
	return ports
}

func (m *MonoMixer) Outputs() []graph.PortDescriptor {
	return []graph.PortDescriptor{{Name: "out"}}
}

func (m *MonoMixer) Process(inputs, outputs *graph.PortBuffers, n int) {
	res := out(outputs, n, "out")[0]
	for i := range res {
		res[i] = 0
	}
	for ch := 0; ch < m.inputCount; ch++ {
		buf := inputs.GetOrDefault(stepPortName("in", ch+1), n, 0)
		level := m.levels[ch]
		for i, v := range buf {
			res[i] += v * level
		}
	}
}

func (m *MonoMixer) SetParam(name string, value float32) error {
	for ch := 0; ch < m.inputCount; ch++ {
		if name == stepPortName("level", ch+1) {
			m.levels[ch] = value
			return nil
		}
	}
	return errUnknownParam(name)
}

func (m *MonoMixer) GetParam(name string) (float32, bool) {
	for ch := 0; ch < m.inputCount; ch++ {
		if name == stepPortName("level", ch+1) {
			return m.levels[ch], true
		}
	}
	return 0, false
}

// StereoMixer sums a fixed number of stereo input pairs, each with its
// own level, into a left/right bus.
type StereoMixer struct {
	inputCount int
	levels     []float32
}

func NewStereoMixer(inputCount int) *StereoMixer {
	if inputCount < 1 {
		inputCount = 1
	}
	levels := make([]float32, inputCount)
	for i := range levels {
		levels[i] = 1
	}
	return &StereoMixer{inputCount: inputCount, levels: levels}
}

func (m *StereoMixer) Inputs() []graph.PortDescriptor {
	ports := make([]graph.PortDescriptor, 0, m.inputCount*2)
	for i := 1; i <= m.inputCount; i++ {
		ports = append(ports,
			graph.PortDescriptor{Name: stepPortName("in", i) + "l", Default: 0},
			graph.PortDescriptor{Name: stepPortName("in", i) + "r", Default: 0},
		)
	}
	return ports
}

func (m *StereoMixer) Outputs() []graph.PortDescriptor {
	return []graph.PortDescriptor{{Name: "left"}, {Name: "right"}}
}

func (m *StereoMixer) Process(inputs, outputs *graph.PortBuffers, n int) {
	bufs := out(outputs, n, "left", "right")
	left, right := bufs[0], bufs[1]
	for i := range left {
		left[i] = 0
		right[i] = 0
	}
	for ch := 0; ch < m.inputCount; ch++ {
		l := inputs.GetOrDefault(stepPortName("in", ch+1)+"l", n, 0)
		r := inputs.GetOrDefault(stepPortName("in", ch+1)+"r", n, 0)
		level := m.levels[ch]
		for i := range left {
			left[i] += l[i] * level
			right[i] += r[i] * level
		}
	}
}

func (m *StereoMixer) SetParam(name string, value float32) error {
	for ch := 0; ch < m.inputCount; ch++ {
		if name == stepPortName("level", ch+1) {
			m.levels[ch] = value
			return nil
		}
	}
	return errUnknownParam(name)
}

func (m *StereoMixer) GetParam(name string) (float32, bool) {
	for ch := 0; ch < m.inputCount; ch++ {
		if name == stepPortName("level", ch+1) {
			return m.levels[ch], true
		}
	}
	return 0, false
}
