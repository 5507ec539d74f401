package zimdsp

import "testing"

// TestRenderPatchSelfPatchingSlew exercises the self-patching slew
// oscillator end-to-end through RenderPatch, the same patch as
// TestEngineSelfPatchingSlew but driven by the offline renderer rather
// than the Engine façade directly, and checking that the rendered
// output stays in range and keeps changing. A single-cycle
// render would leave the feedback loop frozen for the whole buffer;
// this catches that regression.
func TestRenderPatchSelfPatchingSlew(t *testing.T) {
	patch := "slew: slew 0.01 0.01\nslew.in <- slew.eor\nout <- slew.out\n"
	const sampleRate = 44100
	const frames = 4410 // 100ms

	samples, diags, err := RenderPatch(patch, sampleRate, frames)
	if err != nil {
		t.Fatalf("RenderPatch: %v (diags=%v)", err, diags)
	}
	if len(samples) != frames*2 {
		t.Fatalf("len(samples) = %d, want %d", len(samples), frames*2)
	}

	left := make([]float32, frames)
	for i := 0; i < frames; i++ {
		left[i] = samples[i*2]
	}

	min, max := left[0], left[0]
	for _, v := range left {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if max-min < 0.5 {
		t.Fatalf("slew.out range = %g, want >= 0.5 (min=%g max=%g)", max-min, min, max)
	}

	var distinct int
	seen := make(map[float32]struct{})
	for _, v := range left {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			distinct++
		}
	}
	if distinct < 100 {
		t.Fatalf("slew.out distinct sample values = %d, want >= 100 (a single-cycle render would freeze after the first block)", distinct)
	}
}

// TestRenderPatchOscillatorVaries is a plain forward-chain sanity
// check: no feedback, so it should pass even with a single huge block,
// but it confirms RenderPatch's chunking doesn't disturb ordinary
// patches.
func TestRenderPatchOscillatorVaries(t *testing.T) {
	patch := "osc: osc sine 440\nout <- osc.sine\n"
	samples, diags, err := RenderPatch(patch, 44100, 441)
	if err != nil {
		t.Fatalf("RenderPatch: %v (diags=%v)", err, diags)
	}

	min, max := samples[0], samples[0]
	for i := 0; i < len(samples); i += 2 {
		v := samples[i]
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if max-min < 0.5 {
		t.Fatalf("osc.sine range = %g, want >= 0.5", max-min)
	}
}
