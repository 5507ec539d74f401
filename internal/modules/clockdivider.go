package modules

import "github.com/navicore/zim-dsp-go/internal/graph"

// ClockDivider counts incoming clock edges and toggles a square output
// plus a one-sample gate pulse every N edges.
type ClockDivider struct {
	division int

	count      int
	state      float32
	prevClock  float32
	prevReset  float32
}

func NewClockDivider(division int) *ClockDivider {
	if division < 1 {
		division = 1
	}
	return &ClockDivider{division: division}
}

func (c *ClockDivider) Inputs() []graph.PortDescriptor {
	return []graph.PortDescriptor{
		{Name: "clock", Default: 0},
		{Name: "reset", Default: 0},
	}
}

func (c *ClockDivider) Outputs() []graph.PortDescriptor {
	return []graph.PortDescriptor{{Name: "out"}, {Name: "gate"}}
}

func (c *ClockDivider) Process(inputs, outputs *graph.PortBuffers, n int) {
	clock := inputs.GetOrDefault("clock", n, 0)
	reset := inputs.GetOrDefault("reset", n, 0)
	bufs := out(outputs, n, "out", "gate")
	outBuf, gate := bufs[0], bufs[1]

	for i := 0; i < n; i++ {
		if risingEdge(c.prevReset, reset[i]) {
			c.count = 0
			c.state = 0
		}
		c.prevReset = reset[i]

		gate[i] = 0
		if risingEdge(c.prevClock, clock[i]) {
			c.count++
			if c.count >= c.division {
				c.count = 0
				if c.state > 0 {
					c.state = -1
				} else {
					c.state = 1
				}
				gate[i] = 1
			}
		}
		c.prevClock = clock[i]
		outBuf[i] = c.state
	}
}

func (c *ClockDivider) SetParam(name string, value float32) error {
	if name != "division" {
		return errUnknownParam(name)
	}
	d := int(value)
	if d < 1 {
		d = 1
	}
	c.division = d
	return nil
}

func (c *ClockDivider) GetParam(name string) (float32, bool) {
	if name == "division" {
		return float32(c.division), true
	}
	return 0, false
}
