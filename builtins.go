package zimdsp

import (
	"fmt"

	"github.com/navicore/zim-dsp-go/internal/effects"
	"github.com/navicore/zim-dsp-go/internal/graph"
	"github.com/navicore/zim-dsp-go/internal/modules"
	"github.com/navicore/zim-dsp-go/internal/parser"
)

// builtin constructs one of the built-in DSP module types from a
// parsed CreateModule command. It returns (nil, nil) for a type it
// doesn't recognize so the caller can fall back to sub-patch
// instantiation.
func builtin(cmd parser.CreateModule, sampleRate float32) (graph.Module, error) {
	p := cmd.Params
	switch cmd.Type {
	case "osc":
		return modules.NewOscillator(paramAt(p, 0, 440)), nil
	case "lfo":
		return modules.NewLFO(paramAt(p, 0, 1)), nil
	case "vca":
		return modules.NewVCA(paramAt(p, 0, 1)), nil
	case "filter":
		return modules.NewFilter(paramAt(p, 0, 1000), paramAt(p, 1, 0)), nil
	case "envelope":
		return modules.NewEnvelope(paramAt(p, 0, 0.01), paramAt(p, 1, 0.1)), nil
	case "slew":
		return modules.NewSlew(paramAt(p, 0, 0.01), paramAt(p, 1, 0.01)), nil
	case "seq8":
		return modules.NewSeq8(), nil
	case "clockdiv", "divider":
		return modules.NewClockDivider(int(paramAt(p, 0, 2))), nil
	case "seqswitch", "switch":
		return modules.NewSeqSwitch(int(paramAt(p, 0, 2))), nil
	case "mixer":
		return modules.NewMonoMixer(int(paramAt(p, 0, 2))), nil
	case "stereomixer":
		return modules.NewStereoMixer(int(paramAt(p, 0, 2))), nil
	case "noise":
		return modules.NewNoise(), nil
	case "sah":
		return modules.NewSampleAndHold(), nil
	case "mult":
		return modules.NewMult(), nil
	case "visual":
		return modules.NewVisual(), nil
	case "fx":
		chain, err := buildFXChain(cmd.Keyword, p, sampleRate)
		if err != nil {
			return nil, err
		}
		return modules.NewFX(chain), nil
	case "gate":
		if cmd.Keyword != "" && cmd.Keyword != "manual" {
			return nil, fmt.Errorf("unknown gate variant %q (only %q is supported)", cmd.Keyword, "manual")
		}
		return modules.NewManualGate(), nil
	default:
		return nil, nil
	}
}

func paramAt(params []float32, i int, fallback float32) float32 {
	if i < len(params) {
		return params[i]
	}
	return fallback
}

// buildFXChain builds the effector named by kind (the `fx` module's
// keyword token) from params, for the `fx: fx <kind> ...` patch
// syntax. An empty kind yields a pass-through chain with no effector,
// matching a bare `fx: fx` declaration.
func buildFXChain(kind string, p []float32, sampleRate float32) (*effects.Chain, error) {
	sr := int(sampleRate)
	switch kind {
	case "":
		return effects.NewChain(), nil
	case "reverb":
		return effects.NewChain(effects.NewReverb(sr,
			paramAt(p, 0, 0.5), paramAt(p, 1, 0.3), paramAt(p, 2, 0.3))), nil
	case "delay":
		return effects.NewChain(effects.NewDelay(sr,
			float64(paramAt(p, 0, 300)), paramAt(p, 1, 0.3), paramAt(p, 2, 0), paramAt(p, 3, 0.3))), nil
	case "chorus":
		return effects.NewChain(effects.NewChorus(sr,
			paramAt(p, 0, 15), paramAt(p, 1, 0.2), paramAt(p, 2, 3), paramAt(p, 3, 0.5), paramAt(p, 4, 0.3))), nil
	case "comp":
		return effects.NewChain(effects.NewCompressor(sr,
			paramAt(p, 0, -18), paramAt(p, 1, 4), paramAt(p, 2, 10), paramAt(p, 3, 80), paramAt(p, 4, 0))), nil
	case "drive":
		return effects.NewChain(effects.NewDistortion(sr,
			paramAt(p, 0, 2), paramAt(p, 1, 0.5), paramAt(p, 2, 8000))), nil
	case "eq3":
		return effects.NewChain(effects.NewEQ3Band(sr,
			paramAt(p, 0, 0), paramAt(p, 1, 0), paramAt(p, 2, 0), paramAt(p, 3, 300), paramAt(p, 4, 3000))), nil
	case "eq5":
		return effects.NewChain(effects.NewEQ5Band(sr)), nil
	default:
		return nil, fmt.Errorf("unknown fx kind %q", kind)
	}
}
