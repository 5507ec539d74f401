package modules

import (
	"testing"

	"github.com/navicore/zim-dsp-go/internal/graph"
)

func TestSlewSelfPatchSustainsOscillation(t *testing.T) {
	s := NewSlew(0.01, 0.01)
	s.SetSampleRate(1000)

	eorCount := 0
	var minOut, maxOut float32 = 1, -1
	var prevGateState float32 = 1

	const block = 32
	in := graph.NewPortBuffers()
	outp := graph.NewPortBuffers()

	// Feed the previous cycle's full eor buffer back into "in",
	// sample for sample, exactly as the executor's Direct connection
	// evaluator would (it copies the whole buffer, not a scalar).
	prevEor := make([]float32, block)
	for i := range prevEor {
		prevEor[i] = 1
	}
	for cycle := 0; cycle < 40; cycle++ {
		buf := in.GetOrDefault("in", block, 0)
		copy(buf, prevEor)
		s.Process(in, outp, block)
		out := outp.Get("out")
		eor := outp.Get("eor")
		for i, v := range out {
			if v < minOut {
				minOut = v
			}
			if v > maxOut {
				maxOut = v
			}
			if eor[i] > 0 && prevGateState <= 0 {
				eorCount++
			}
			prevGateState = eor[i]
		}
		copy(prevEor, eor)
	}

	if eorCount < 3 {
		t.Fatalf("expected self-patched slew to fire eor repeatedly, got %d", eorCount)
	}
	if maxOut-minOut < 0.5 {
		t.Fatalf("expected sustained oscillation amplitude >= 0.5, got range %v", maxOut-minOut)
	}
}

func TestSlewHoldsAtTargetWithGatesHigh(t *testing.T) {
	s := NewSlew(0.001, 0.001)
	s.SetSampleRate(1000)

	in := graph.NewPortBuffers()
	buf := in.GetOrDefault("in", 100, 1)
	outp := graph.NewPortBuffers()
	s.Process(in, outp, 100)

	// Run again with the same constant target; by now current should
	// have reached 1 and both gates should read HIGH in steady state.
	s.Process(in, outp, 100)
	eor := outp.Get("eor")
	eoc := outp.Get("eoc")
	out := outp.Get("out")
	_ = buf
	if out[99] < 0.99 {
		t.Fatalf("expected slew to reach target, got %v", out[99])
	}
	if eor[99] != 1 || eoc[99] != 1 {
		t.Fatalf("expected both gates HIGH at steady state, eor=%v eoc=%v", eor[99], eoc[99])
	}
}
