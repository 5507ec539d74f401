package modules

import "github.com/navicore/zim-dsp-go/internal/graph"

// StereoOutput is the hidden `_output` node the engine façade creates
// on first use of `out`/`out.left`/`out.right`. It normalizes a
// mono-or-stereo source into an always-present left/right pair: mono
// wins when driven (or when neither side is connected), otherwise left
// is fed straight through and right falls back to left when only left
// was ever wired.
type StereoOutput struct {
	leftConnected, rightConnected bool
}

func NewStereoOutput() *StereoOutput {
	return &StereoOutput{}
}

// MarkConnected records that the façade wired a connection to port
// ("left" or "right"); it is called once per AddConnection, not per
// sample.
func (s *StereoOutput) MarkConnected(port string) {
	switch port {
	case "left":
		s.leftConnected = true
	case "right":
		s.rightConnected = true
	}
}

func (s *StereoOutput) Inputs() []graph.PortDescriptor {
	return []graph.PortDescriptor{
		{Name: "left", Default: 0},
		{Name: "right", Default: 0},
		{Name: "mono", Default: 0},
	}
}

func (s *StereoOutput) Outputs() []graph.PortDescriptor {
	return []graph.PortDescriptor{{Name: "left"}, {Name: "right"}}
}

func (s *StereoOutput) Process(inputs, outputs *graph.PortBuffers, n int) {
	left := inputs.GetOrDefault("left", n, 0)
	right := inputs.GetOrDefault("right", n, 0)
	mono := inputs.GetOrDefault("mono", n, 0)
	bufs := out(outputs, n, "left", "right")
	leftOut, rightOut := bufs[0], bufs[1]

	for i := 0; i < n; i++ {
		if mono[i] != 0 || (!s.leftConnected && !s.rightConnected) {
			leftOut[i] = mono[i]
			rightOut[i] = mono[i]
			continue
		}
		leftOut[i] = left[i]
		if s.leftConnected && !s.rightConnected {
			rightOut[i] = left[i]
		} else {
			rightOut[i] = right[i]
		}
	}
}

func (s *StereoOutput) SetParam(name string, value float32) error {
	return errUnknownParam(name)
}

func (s *StereoOutput) GetParam(name string) (float32, bool) {
	return 0, false
}
