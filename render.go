package zimdsp

// renderBlockSize is the cycle size RenderPatch advances by. Audio-rate
// feedback (the self-patched slew, §8 scenario 2) only progresses once
// per Advance call, matching the executor's one-block latency on
// cycles; rendering the whole buffer as a single cycle would freeze
// any self-patching or slow-feedback patch for its entire duration, so
// RenderPatch chunks the same way the live audio callback does.
const renderBlockSize = 64

// RenderPatch loads patchSource into a fresh engine and renders frames
// samples of interleaved stereo audio at sampleRate, with no audio
// device involved. Used by tests.
func RenderPatch(patchSource string, sampleRate, frames int) ([]float32, []Diagnostic, error) {
	e := NewEngine(sampleRate)
	diags := e.LoadPatch(patchSource)
	for _, d := range diags {
		if d.Kind == DiagError {
			return nil, diags, errDiagnostic(d)
		}
	}

	out := make([]float32, frames*2)
	e.mu.Lock()
	defer e.mu.Unlock()
	for rendered := 0; rendered < frames; rendered += renderBlockSize {
		n := renderBlockSize
		if rendered+n > frames {
			n = frames - rendered
		}
		e.exec.Process(out[rendered*2 : (rendered+n)*2])
	}
	return out, diags, nil
}

type errDiagnostic Diagnostic

func (e errDiagnostic) Error() string { return Diagnostic(e).String() }
