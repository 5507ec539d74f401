package graph

import "testing"

// countingModule records how many times Process was called and copies
// its "in" input straight to its "out" output, for wiring tests.
type countingModule struct {
	calls   int
	lastN   int
	params  map[string]float32
}

func newCountingModule() *countingModule {
	return &countingModule{params: make(map[string]float32)}
}

func (m *countingModule) Inputs() []PortDescriptor {
	return []PortDescriptor{{Name: "in", Default: 0}}
}

func (m *countingModule) Outputs() []PortDescriptor {
	return []PortDescriptor{{Name: "out", Default: 0}}
}

func (m *countingModule) Process(inputs, outputs *PortBuffers, n int) {
	m.calls++
	m.lastN = n
	in := inputs.GetOrDefault("in", n, 0)
	out := outputs.GetOrDefault("out", n, 0)
	copy(out, in)
}

func (m *countingModule) SetParam(name string, value float32) error {
	m.params[name] = value
	return nil
}

func (m *countingModule) GetParam(name string) (float32, bool) {
	v, ok := m.params[name]
	return v, ok
}

// gateModule emits a caller-supplied waveform on its "gate" output so
// tests can exercise edge detection across block boundaries.
type gateModule struct {
	wave []float32
	pos  int
}

func (m *gateModule) Inputs() []PortDescriptor  { return nil }
func (m *gateModule) Outputs() []PortDescriptor { return []PortDescriptor{{Name: "gate"}} }
func (m *gateModule) SetParam(string, float32) error { return nil }
func (m *gateModule) GetParam(string) (float32, bool) { return 0, false }

func (m *gateModule) Process(inputs, outputs *PortBuffers, n int) {
	out := outputs.GetOrDefault("gate", n, 0)
	for i := 0; i < n; i++ {
		if m.pos < len(m.wave) {
			out[i] = m.wave[m.pos]
		}
		m.pos++
	}
}

func TestAdvanceCallsProcessExactlyOncePerCycle(t *testing.T) {
	e := NewExecutor(48000)
	m := newCountingModule()
	if err := e.AddModule("a", m); err != nil {
		t.Fatalf("AddModule: %v", err)
	}
	e.Advance(64)
	e.Advance(64)
	if m.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", m.calls)
	}
	if m.lastN != 64 {
		t.Fatalf("expected block size 64, got %d", m.lastN)
	}
}

func TestDirectConnectionReadsPreviousCycle(t *testing.T) {
	e := NewExecutor(48000)
	dst := newCountingModule()
	src := &gateModule{wave: []float32{1, 2, 3, 4, 5, 6, 7, 8}}
	e.AddModule("dst", dst)
	e.AddModule("src", src)
	e.AddConnection(Connection{DestNode: "dst", DestPort: "in", Source: Direct{Module: "src", Port: "gate"}})

	if err := e.SetParam("src", "ignored", 0); err != nil {
		t.Fatalf("SetParam: %v", err)
	}

	// dst runs before src in execution order, so each cycle it copies
	// the block src wrote on the previous cycle: nothing (the input
	// default 0) on the first cycle, src's first block on the second.
	e.Advance(4)
	out, ok := e.Output("dst", "out")
	if !ok {
		t.Fatalf("expected dst.out buffer to exist")
	}
	if len(out) != 4 {
		t.Fatalf("expected 4 samples, got %d", len(out))
	}
	for i, v := range out {
		if v != 0 {
			t.Fatalf("cycle 1: expected dst.out[%d] = 0, got %v", i, v)
		}
	}

	e.Advance(4)
	out, _ = e.Output("dst", "out")
	want := []float32{1, 2, 3, 4}
	for i, v := range want {
		if out[i] != v {
			t.Fatalf("cycle 2: expected dst.out[%d] = %v, got %v", i, v, out[i])
		}
	}
}

func TestGateRisingEdgeDetectedAcrossBlockBoundary(t *testing.T) {
	e := NewExecutor(48000)
	g := &gateModule{wave: []float32{0, 0, 0, 1, 1, 0, 0, 1}}
	e.AddModule("g", g)
	obs := &MemoryObserver{}
	e.AddObserver(obs)

	// Split the 8-sample waveform across two 4-sample blocks: the HIGH
	// that starts at index 3, the last sample of block 1, carries into
	// block 2, and the stored last value keeps index 4 from counting as
	// a second edge. The two edges are at indices 3 and 7.
	e.Advance(4)
	e.Advance(4)

	if len(obs.Gates) != 2 {
		t.Fatalf("expected 2 rising edges, got %d: %+v", len(obs.Gates), obs.Gates)
	}
}

func TestSumOfSingleExprEqualsExpr(t *testing.T) {
	outputs := map[string]*PortBuffers{
		"src": func() *PortBuffers {
			pb := NewPortBuffers()
			buf := pb.GetOrDefault("out", 4, 0)
			copy(buf, []float32{1, 2, 3, 4})
			return pb
		}(),
	}
	direct := Direct{Module: "src", Port: "out"}
	want := make(PortBuffer, 4)
	direct.Evaluate(outputs, want)

	got := make(PortBuffer, 4)
	Sum{Exprs: []Expr{direct}}.Evaluate(outputs, got)

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Sum of single expr differs at %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestScaledByOneAndOffsetByZeroAreIdentity(t *testing.T) {
	outputs := map[string]*PortBuffers{
		"src": func() *PortBuffers {
			pb := NewPortBuffers()
			buf := pb.GetOrDefault("out", 3, 0)
			copy(buf, []float32{0.5, -0.5, 2})
			return pb
		}(),
	}
	direct := Direct{Module: "src", Port: "out"}
	base := make(PortBuffer, 3)
	direct.Evaluate(outputs, base)

	scaled := make(PortBuffer, 3)
	Scaled{Expr: direct, Factor: 1}.Evaluate(outputs, scaled)
	for i := range base {
		if scaled[i] != base[i] {
			t.Fatalf("Scaled by 1 differs at %d: got %v want %v", i, scaled[i], base[i])
		}
	}

	offset := make(PortBuffer, 3)
	Offset{Expr: direct, Amount: 0}.Evaluate(outputs, offset)
	for i := range base {
		if offset[i] != base[i] {
			t.Fatalf("Offset by 0 differs at %d: got %v want %v", i, offset[i], base[i])
		}
	}
}

func TestValidateReportsNoDiagnosticsWhenEverythingResolves(t *testing.T) {
	e := NewExecutor(48000)
	e.AddModule("src", newCountingModule())
	e.AddModule("dst", newCountingModule())
	e.AddConnection(Connection{DestNode: "dst", DestPort: "in", Source: Direct{Module: "src", Port: "out"}})

	if diags := e.Validate(); len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %+v", diags)
	}
}

func TestValidateCatchesUnknownModuleAndPort(t *testing.T) {
	e := NewExecutor(48000)
	e.AddModule("dst", newCountingModule())
	e.AddConnection(Connection{DestNode: "dst", DestPort: "in", Source: Direct{Module: "missing", Port: "out"}})
	e.AddConnection(Connection{DestNode: "missing", DestPort: "in", Source: Direct{Module: "dst", Port: "out"}})
	e.AddConnection(Connection{DestNode: "dst", DestPort: "nope", Source: Direct{Module: "dst", Port: "out"}})

	diags := e.Validate()
	if len(diags) != 3 {
		t.Fatalf("expected 3 diagnostics, got %d: %+v", len(diags), diags)
	}
}

func TestAddModuleRejectsDuplicateName(t *testing.T) {
	e := NewExecutor(48000)
	if err := e.AddModule("a", newCountingModule()); err != nil {
		t.Fatalf("AddModule: %v", err)
	}
	if err := e.AddModule("a", newCountingModule()); err == nil {
		t.Fatalf("expected error on duplicate module name")
	}
}

func TestActivateAndReleaseAllReachGateSettableModules(t *testing.T) {
	e := NewExecutor(48000)
	g := &settableModule{countingModule: *newCountingModule()}
	e.AddModule("manual", g)
	e.ActivateAll()
	if !g.on {
		t.Fatalf("expected gate on after ActivateAll")
	}
	e.ReleaseAll()
	if g.on {
		t.Fatalf("expected gate off after ReleaseAll")
	}
}

type settableModule struct {
	countingModule
	on bool
}

func (m *settableModule) SetGate(on bool) { m.on = on }
