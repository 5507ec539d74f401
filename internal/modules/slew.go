package modules

import (
	"math"

	"github.com/navicore/zim-dsp-go/internal/graph"
)

// SlewShape selects the curve applied to a rise or fall's progress.
type SlewShape int

const (
	SlewLinear SlewShape = iota
	SlewExponential
	SlewLogarithmic
)

const slewEpsilon = 0.001

// Slew bounds the rate of change of its input, with independently
// configurable rise and fall times and a curve shape. Its eor/eoc gate
// outputs default HIGH at idle; this is the deliberate bootstrap that
// lets in <- eor self-start a sustained triangle oscillator.
type Slew struct {
	riseTime, fallTime float32
	shape              SlewShape
	sampleRate         float32

	current float32
	atTarget bool
}

func NewSlew(riseTime, fallTime float32) *Slew {
	return &Slew{riseTime: riseTime, fallTime: fallTime, sampleRate: 44100, atTarget: true}
}

func (s *Slew) SetSampleRate(sr float32) { s.sampleRate = sr }

func (s *Slew) Inputs() []graph.PortDescriptor {
	return []graph.PortDescriptor{
		{Name: "in", Default: 0, Description: "target level"},
		{Name: "rise", Default: 0, Description: "overrides configured rise time when > 0.001"},
		{Name: "fall", Default: 0, Description: "overrides configured fall time when > 0.001"},
	}
}

func (s *Slew) Outputs() []graph.PortDescriptor {
	return []graph.PortDescriptor{{Name: "out"}, {Name: "eor"}, {Name: "eoc"}}
}

func (s *Slew) Process(inputs, outputs *graph.PortBuffers, n int) {
	in := inputs.GetOrDefault("in", n, 0)
	rise := inputs.GetOrDefault("rise", n, 0)
	fall := inputs.GetOrDefault("fall", n, 0)
	bufs := out(outputs, n, "out", "eor", "eoc")
	outBuf, eor, eoc := bufs[0], bufs[1], bufs[2]

	for i := 0; i < n; i++ {
		target := in[i]
		diff := target - s.current

		eor[i] = 1
		eoc[i] = 1

		if float32(math.Abs(float64(diff))) > slewEpsilon {
			s.atTarget = false
			riseTime := s.riseTime
			if rise[i] > slewEpsilon {
				riseTime = rise[i]
			}
			fallTime := s.fallTime
			if fall[i] > slewEpsilon {
				fallTime = fall[i]
			}
			rising := diff > 0
			effectiveTime := fallTime
			if rising {
				effectiveTime = riseTime
			}
			if effectiveTime <= 0 {
				effectiveTime = slewEpsilon
			}
			p := float32(1) / (effectiveTime * s.sampleRate)
			shaped := shapedSlewStep(s.shape, p)
			step := shaped * diff

			if rising {
				eor[i] = 0
			} else {
				eoc[i] = 0
			}

			s.current += step
			if (rising && s.current >= target) || (!rising && s.current <= target) {
				s.current = target
				s.atTarget = true
				if rising {
					eor[i] = 1
				} else {
					eoc[i] = 1
				}
			}
		} else if !s.atTarget {
			s.current = target
			s.atTarget = true
			eor[i] = 1
			eoc[i] = 1
		}
		outBuf[i] = s.current
	}
}

func shapedSlewStep(shape SlewShape, p float32) float32 {
	switch shape {
	case SlewExponential:
		return 1 - float32(math.Exp(-4*float64(p)))
	case SlewLogarithmic:
		return float32(math.Log(1+4*float64(p)) / math.Log(5))
	default:
		return p
	}
}

func (s *Slew) SetParam(name string, value float32) error {
	switch name {
	case "rise":
		s.riseTime = value
	case "fall":
		s.fallTime = value
	case "shape":
		s.shape = SlewShape(value)
	default:
		return errUnknownParam(name)
	}
	return nil
}

func (s *Slew) GetParam(name string) (float32, bool) {
	switch name {
	case "rise":
		return s.riseTime, true
	case "fall":
		return s.fallTime, true
	case "shape":
		return float32(s.shape), true
	}
	return 0, false
}
