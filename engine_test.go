package zimdsp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// tap names one node/port pair to accumulate across advanceCollecting's
// blocks.
type tap struct{ node, port string }

// advanceCollecting runs the engine in chunk-sized blocks until frames
// samples have elapsed, concatenating each tap's output buffer across
// every block. This is needed for any self-patched or clock-driven
// graph: the executor reads a connection's source from the *previous*
// cycle's output, so a feedback loop only advances once per Advance
// call, not once per sample (the documented one-block latency).
func advanceCollecting(t *testing.T, e *Engine, frames, chunk int, taps ...tap) map[tap][]float32 {
	t.Helper()
	collected := make(map[tap][]float32, len(taps))
	for remaining := frames; remaining > 0; {
		n := chunk
		if n > remaining {
			n = remaining
		}
		e.Advance(n)
		for _, tp := range taps {
			buf, ok := e.Output(tp.node, tp.port)
			require.True(t, ok, "no output for %s.%s", tp.node, tp.port)
			collected[tp] = append(collected[tp], buf...)
		}
		remaining -= n
	}
	return collected
}

func countRisingEdges(samples []float32) int {
	count := 0
	var prev float32
	for _, v := range samples {
		if v > 0 && prev <= 0 {
			count++
		}
		prev = v
	}
	return count
}

func countZeroCrossings(samples []float32) int {
	count := 0
	var prev float32
	for i, v := range samples {
		if i > 0 && ((prev < 0 && v >= 0) || (prev > 0 && v <= 0)) {
			count++
		}
		prev = v
	}
	return count
}

func distinctValues(samples []float32) map[float32]struct{} {
	set := make(map[float32]struct{})
	for _, v := range samples {
		set[v] = struct{}{}
	}
	return set
}

func rangeOf(samples []float32) (min, max float32) {
	if len(samples) == 0 {
		return 0, 0
	}
	min, max = samples[0], samples[0]
	for _, v := range samples[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

func errorDiags(diags []Diagnostic) []Diagnostic {
	var errs []Diagnostic
	for _, d := range diags {
		if d.Kind == DiagError {
			errs = append(errs, d)
		}
	}
	return errs
}

// Scenario 1: oscillator only.
func TestEngineOscillatorOnly(t *testing.T) {
	e := NewEngine(44100)
	diags := e.LoadPatch("osc: osc sine 440\nout <- osc.sine\n")
	require.Empty(t, errorDiags(diags))

	out := advanceCollecting(t, e, 4410, 512, tap{"_output", "left"})
	min, max := rangeOf(out[tap{"_output", "left"}])
	require.Greater(t, max-min, float32(0.5), "expected an oscillating signal, got range [%v, %v]", min, max)
}

// Scenario 2: a self-patching slew oscillator.
func TestEngineSelfPatchingSlew(t *testing.T) {
	e := NewEngine(44100)
	diags := e.LoadPatch("slew: slew 0.01 0.01\nslew.in <- slew.eor\nout <- slew.out\n")
	require.Empty(t, errorDiags(diags))

	const frames = 4410 // 100ms
	const chunk = 32

	out := advanceCollecting(t, e, frames, chunk, tap{"slew", "eor"}, tap{"slew", "out"})
	eor := out[tap{"slew", "eor"}]
	slewOut := out[tap{"slew", "out"}]

	require.GreaterOrEqual(t, countRisingEdges(eor), 3, "expected the self-patch to free-run through several cycles")

	min, max := rangeOf(slewOut)
	require.GreaterOrEqual(t, max-min, float32(0.5), "expected a wide swing from the free-running triangle, got range [%v, %v]", min, max)
}

// Scenario 3: sequencer drives oscillator frequency.
func TestEngineSequencerDrivesOscillator(t *testing.T) {
	e := NewEngine(44100)
	patch := `
clk: lfo 4
seq: seq8
seq.clock <- clk.gate
seq.step1 <- 110
seq.step2 <- 220
seq.step3 <- 330
seq.step4 <- 440
seq.step5 <- 550
seq.step6 <- 660
seq.step7 <- 770
seq.step8 <- 880
osc: osc sine 440
osc.freq <- seq.cv
out <- osc.sine
`
	diags := e.LoadPatch(patch)
	require.Empty(t, errorDiags(diags))

	const frames = 88200 // 2s
	const chunk = 256

	out := advanceCollecting(t, e, frames, chunk,
		tap{"seq", "cv"}, tap{"seq", "step"}, tap{"_output", "left"})

	cv := out[tap{"seq", "cv"}]
	step := out[tap{"seq", "step"}]
	sine := out[tap{"_output", "left"}]

	require.GreaterOrEqual(t, len(distinctValues(cv)), 3, "expected seq.cv to take at least 3 distinct values")
	require.GreaterOrEqual(t, len(distinctValues(step)), 3, "expected seq.step to take at least 3 distinct values")
	sMin, sMax := rangeOf(sine)
	require.Greater(t, sMax-sMin, float32(0.1), "expected osc.sine to vary as its frequency is modulated")
}

// Scenario 4: LFO-modulated filter.
func TestEngineLFOModulatedFilter(t *testing.T) {
	e := NewEngine(44100)
	patch := `
vco: osc saw 220
lfo: lfo 2
vcf: filter 1000 0.5
vcf.audio <- vco.saw
vcf.cutoff <- lfo.sine * 2000
out <- vcf.lp
`
	diags := e.LoadPatch(patch)
	require.Empty(t, errorDiags(diags))

	const frames = 4410
	const chunk = 512

	out := advanceCollecting(t, e, frames, chunk, tap{"vco", "saw"}, tap{"vcf", "lp"})
	sawCrossings := countZeroCrossings(out[tap{"vco", "saw"}])
	lpCrossings := countZeroCrossings(out[tap{"vcf", "lp"}])
	require.Less(t, lpCrossings, sawCrossings, "expected the lowpass output to cross zero less often than the raw sawtooth")
}

// Scenario 5: envelope via manual gate.
func TestEngineEnvelopeViaManualGate(t *testing.T) {
	e := NewEngine(44100)
	patch := `
g: gate manual
e: envelope 0.01 0.1
e.gate <- g.gate
out <- e.out
`
	diags := e.LoadPatch(patch)
	require.Empty(t, errorDiags(diags))

	e.ActivateGates()
	rise := advanceCollecting(t, e, 441, 64, tap{"e", "out"}) // 10ms: the length of the attack
	_, peak := rangeOf(rise[tap{"e", "out"}])
	require.GreaterOrEqual(t, peak, float32(0.95), "expected the envelope to have risen near 1 after its attack")

	e.ReleaseGates()
	fall := advanceCollecting(t, e, 8820, 64, tap{"e", "out"}) // another 200ms: past the 100ms decay
	tail := fall[tap{"e", "out"}]
	last := tail[len(tail)-1]
	require.LessOrEqual(t, last, float32(0.05), "expected the envelope to have decayed back near 0")
}

// Scenario 6: imported sub-patch instantiation.
func TestEngineImportedSubPatchInstantiation(t *testing.T) {
	dir := t.TempDir()
	voicePath := filepath.Join(dir, "voice.zim")
	require.NoError(t, os.WriteFile(voicePath, []byte(
		"patchbay:\n  o.sine: port 1 voice output\no: osc sine 440\n"), 0o644))

	mainPath := filepath.Join(dir, "main.zim")
	mainSource := "import voice\nv: voice\nout <- v_o.sine\n"
	require.NoError(t, os.WriteFile(mainPath, []byte(mainSource), 0o644))

	e := NewEngineForFile(44100, mainPath)
	diags := e.LoadFile(mainPath)
	require.Empty(t, errorDiags(diags))

	names := e.Names()
	require.Contains(t, names, "v_o")
	require.NotContains(t, names, "o")
}
