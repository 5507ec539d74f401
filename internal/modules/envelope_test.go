package modules

import (
	"testing"

	"github.com/navicore/zim-dsp-go/internal/graph"
)

func TestEnvelopeRisesThenFalls(t *testing.T) {
	e := NewEnvelope(0.01, 0.01)
	e.SetSampleRate(1000)

	in := graph.NewPortBuffers()
	gate := in.GetOrDefault("gate", 40, 0)
	for i := 5; i < 40; i++ {
		gate[i] = 1
	}

	outp := graph.NewPortBuffers()
	e.Process(in, outp, 40)
	out := outp.Get("out")

	var peak float32
	for _, v := range out {
		if v > peak {
			peak = v
		}
	}
	if peak < 0.9 {
		t.Fatalf("expected envelope to approach 1, peak=%v", peak)
	}
	if out[39] > peak {
		t.Fatalf("expected decay after attack completes")
	}
}

func TestEnvelopeZeroAttackJumpsToDecay(t *testing.T) {
	e := NewEnvelope(0, 0.01)
	e.SetSampleRate(1000)

	in := graph.NewPortBuffers()
	gate := in.GetOrDefault("gate", 1, 1)
	_ = gate
	outp := graph.NewPortBuffers()
	e.Process(in, outp, 1)

	if e.phase != envDecay {
		t.Fatalf("expected immediate transition to decay, got phase %v", e.phase)
	}
}
