package modules

import "github.com/navicore/zim-dsp-go/internal/graph"

type envPhase int

const (
	envIdle envPhase = iota
	envAttack
	envDecay
)

// EnvelopeShape selects the curve used for a phase's progress.
type EnvelopeShape int

const (
	ShapeLinear EnvelopeShape = iota
	ShapeExponential
	ShapeLogarithmic
)

func shapeProgress(shape EnvelopeShape, p float32) float32 {
	switch shape {
	case ShapeExponential:
		return p * p
	case ShapeLogarithmic:
		return 2*p - p*p
	default:
		return p
	}
}

// Envelope is an attack-decay generator triggered by a rising edge on
// its gate input; it does not sustain or release.
type Envelope struct {
	attack, decay         float32
	attackShape, decayShape EnvelopeShape
	sampleRate            float32

	phase     envPhase
	phaseTime float32
	prevGate  float32
}

func NewEnvelope(attack, decay float32) *Envelope {
	return &Envelope{attack: attack, decay: decay, sampleRate: 44100}
}

func (e *Envelope) SetSampleRate(sr float32) { e.sampleRate = sr }

func (e *Envelope) Inputs() []graph.PortDescriptor {
	return []graph.PortDescriptor{{Name: "gate", Default: 0}}
}

func (e *Envelope) Outputs() []graph.PortDescriptor {
	return []graph.PortDescriptor{{Name: "out"}}
}

func (e *Envelope) Process(inputs, outputs *graph.PortBuffers, n int) {
	gate := inputs.GetOrDefault("gate", n, 0)
	res := out(outputs, n, "out")[0]

	for i := 0; i < n; i++ {
		if risingEdge(e.prevGate, gate[i]) {
			e.phase = envAttack
			e.phaseTime = 0
			if e.attack <= 0 {
				e.phase = envDecay
			}
		}
		e.prevGate = gate[i]

		var level float32
		switch e.phase {
		case envIdle:
			level = 0
		case envAttack:
			p := float32(1)
			if e.attack > 0 {
				p = e.phaseTime / e.attack
			}
			if p >= 1 {
				level = 1
				e.phase = envDecay
				e.phaseTime = 0
				if e.decay <= 0 {
					e.phase = envIdle
				}
			} else {
				level = shapeProgress(e.attackShape, p)
			}
		case envDecay:
			p := float32(1)
			if e.decay > 0 {
				p = e.phaseTime / e.decay
			}
			if p >= 1 {
				level = 0
				e.phase = envIdle
			} else {
				level = 1 - shapeProgress(e.decayShape, p)
			}
		}
		res[i] = level
		if e.phase != envIdle {
			e.phaseTime += 1 / e.sampleRate
		}
	}
}

func (e *Envelope) SetParam(name string, value float32) error {
	switch name {
	case "attack":
		e.attack = value
	case "decay":
		e.decay = value
	case "attack_shape":
		e.attackShape = EnvelopeShape(value)
	case "decay_shape":
		e.decayShape = EnvelopeShape(value)
	default:
		return errUnknownParam(name)
	}
	return nil
}

func (e *Envelope) GetParam(name string) (float32, bool) {
	switch name {
	case "attack":
		return e.attack, true
	case "decay":
		return e.decay, true
	case "attack_shape":
		return float32(e.attackShape), true
	case "decay_shape":
		return float32(e.decayShape), true
	}
	return 0, false
}
