package graph

// GateEvent reports a single LOW->HIGH transition detected on a gate-
// like output port during a cycle.
type GateEvent struct {
	Node        string
	Port        string
	Cycle       int
	SampleIndex int
}

// SignalEvent reports a sampled value from a non-gate output port.
type SignalEvent struct {
	Node   string
	Port   string
	Cycle  int
	Value  float32
}

// ParamEvent reports a successful parameter write.
type ParamEvent struct {
	Node  string
	Param string
	Value float32
}

// Observer receives copied event values from inside Executor.Process.
// Implementations must be non-blocking: they run on whichever
// goroutine drives the audio callback.
type Observer interface {
	BeginCycle(cycle int)
	EndCycle(cycle int)
	OnGate(GateEvent)
	OnSignal(SignalEvent)
	OnParam(ParamEvent)
}

// NopObserver implements Observer with no-ops; embed it to satisfy
// the interface while overriding only the methods you need.
type NopObserver struct{}

func (NopObserver) BeginCycle(int)        {}
func (NopObserver) EndCycle(int)          {}
func (NopObserver) OnGate(GateEvent)      {}
func (NopObserver) OnSignal(SignalEvent)  {}
func (NopObserver) OnParam(ParamEvent)    {}

// MemoryObserver accumulates events in memory; used by tests.
type MemoryObserver struct {
	NopObserver
	Gates   []GateEvent
	Signals []SignalEvent
	Params  []ParamEvent
	Cycles  int
}

func (m *MemoryObserver) EndCycle(cycle int) {
	m.Cycles = cycle
}

func (m *MemoryObserver) OnGate(e GateEvent) {
	m.Gates = append(m.Gates, e)
}

func (m *MemoryObserver) OnSignal(e SignalEvent) {
	m.Signals = append(m.Signals, e)
}

func (m *MemoryObserver) OnParam(e ParamEvent) {
	m.Params = append(m.Params, e)
}
