package modules

import "github.com/navicore/zim-dsp-go/internal/graph"

// Logger is the minimal structured-logging capability Visual needs.
// A logger is attached only through SetLogger; the engine façade does
// not attach one. This package stays independent of any particular
// logging library.
type Logger interface {
	Debug(msg string, keyvals ...interface{})
}

// Visual is the patch-language equivalent of an oscilloscope probe: it
// has no outputs and keeps the last sample seen on each connected
// input, returned by Values and, when a debug logger is attached,
// logged once per cycle. Engine.Inspect lists output ports only, so it
// shows nothing for a Visual node.
type Visual struct {
	last   [4]float32
	logger Logger
	cycle  int
}

func NewVisual() *Visual {
	return &Visual{}
}

// SetLogger attaches a debug-level logger; nil detaches it.
func (v *Visual) SetLogger(l Logger) { v.logger = l }

func (v *Visual) Inputs() []graph.PortDescriptor {
	return []graph.PortDescriptor{
		{Name: "in1", Default: 0},
		{Name: "in2", Default: 0},
		{Name: "in3", Default: 0},
		{Name: "in4", Default: 0},
	}
}

func (v *Visual) Outputs() []graph.PortDescriptor { return nil }

func (v *Visual) Process(inputs, outputs *graph.PortBuffers, n int) {
	names := [4]string{"in1", "in2", "in3", "in4"}
	for i, name := range names {
		buf := inputs.GetOrDefault(name, n, 0)
		if n > 0 {
			v.last[i] = buf[n-1]
		}
	}
	if v.logger != nil {
		v.logger.Debug("visual probe",
			"cycle", v.cycle,
			"in1", v.last[0], "in2", v.last[1], "in3", v.last[2], "in4", v.last[3])
	}
	v.cycle++
}

// Values returns the last sample observed on each input.
func (v *Visual) Values() [4]float32 { return v.last }

func (v *Visual) SetParam(name string, value float32) error {
	return errUnknownParam(name)
}

func (v *Visual) GetParam(name string) (float32, bool) {
	return 0, false
}
