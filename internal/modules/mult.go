package modules

import "github.com/navicore/zim-dsp-go/internal/graph"

// Mult is a passive multiple: one input fanned out to four outputs,
// each independently scalable for attenuated taps.
type Mult struct {
	scales [4]float32
}

func NewMult() *Mult {
	return &Mult{scales: [4]float32{1, 1, 1, 1}}
}

func (m *Mult) Inputs() []graph.PortDescriptor {
	return []graph.PortDescriptor{{Name: "in", Default: 0}}
}

func (m *Mult) Outputs() []graph.PortDescriptor {
	return []graph.PortDescriptor{{Name: "out1"}, {Name: "out2"}, {Name: "out3"}, {Name: "out4"}}
}

func (m *Mult) Process(inputs, outputs *graph.PortBuffers, n int) {
	in := inputs.GetOrDefault("in", n, 0)
	bufs := out(outputs, n, "out1", "out2", "out3", "out4")
	for ch, buf := range bufs {
		scale := m.scales[ch]
		for i, v := range in {
			buf[i] = v * scale
		}
	}
}

func (m *Mult) SetParam(name string, value float32) error {
	switch name {
	case "scale1":
		m.scales[0] = value
	case "scale2":
		m.scales[1] = value
	case "scale3":
		m.scales[2] = value
	case "scale4":
		m.scales[3] = value
	default:
		return errUnknownParam(name)
	}
	return nil
}

func (m *Mult) GetParam(name string) (float32, bool) {
	switch name {
	case "scale1":
		return m.scales[0], true
	case "scale2":
		return m.scales[1], true
	case "scale3":
		return m.scales[2], true
	case "scale4":
		return m.scales[3], true
	}
	return 0, false
}
