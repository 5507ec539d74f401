package modules

import "github.com/navicore/zim-dsp-go/internal/graph"

// VCA is a three-input voltage-controlled amplifier: audio times two
// independent control voltages times a configured static gain.
type VCA struct {
	gain float32
}

func NewVCA(gain float32) *VCA {
	return &VCA{gain: gain}
}

func (v *VCA) Inputs() []graph.PortDescriptor {
	return []graph.PortDescriptor{
		{Name: "audio", Default: 0},
		{Name: "cv", Default: 0, Description: "closed unless driven"},
		{Name: "cv2", Default: 1, Description: "unity unless driven"},
	}
}

func (v *VCA) Outputs() []graph.PortDescriptor {
	return []graph.PortDescriptor{{Name: "out"}}
}

func (v *VCA) Process(inputs, outputs *graph.PortBuffers, n int) {
	audio := inputs.GetOrDefault("audio", n, 0)
	cv := inputs.GetOrDefault("cv", n, 0)
	cv2 := inputs.GetOrDefault("cv2", n, 1)
	res := out(outputs, n, "out")[0]

	for i := 0; i < n; i++ {
		res[i] = audio[i] * cv[i] * cv2[i] * v.gain
	}
}

func (v *VCA) SetParam(name string, value float32) error {
	if name != "gain" {
		return errUnknownParam(name)
	}
	v.gain = value
	return nil
}

func (v *VCA) GetParam(name string) (float32, bool) {
	if name == "gain" {
		return v.gain, true
	}
	return 0, false
}
