package graph

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Connection routes one source expression into one destination node's
// input port. Multiple connections may target the same port; later
// connections (in the order they were added) overwrite earlier ones
// when evaluated, per the reference implementation's documented
// behavior (spec "Open Questions": implicit Sum is a valid extension
// but not what this executor does).
type Connection struct {
	DestNode string
	DestPort string
	Source   Expr
}

// Diagnostic is a single validation finding.
type Diagnostic struct {
	Message string
}

func (d Diagnostic) String() string { return d.Message }

// gateOutputMarkers lists the substrings that mark an output port as
// gate-like for edge-detection purposes (spec 4.4 step 4).
var gateOutputMarkers = []string{"eor", "eoc", "gate", "trigger", "clock"}

func isGateLike(port string) bool {
	for _, m := range gateOutputMarkers {
		if strings.Contains(port, m) {
			return true
		}
	}
	return false
}

// Executor owns the node registry, the connection list, and the
// per-cycle drive loop. It is safe for concurrent use: all mutating
// and processing methods take a single coarse mutex, matching the
// concurrency model in spec section 5.
type Executor struct {
	mu sync.Mutex

	sampleRate float32

	nodes map[string]Module
	order []string

	connections []Connection

	inputs  map[string]*PortBuffers
	outputs map[string]*PortBuffers

	gateState map[string]float32
	sampleCounter map[string]int

	observers []Observer

	cycle int
}

// NewExecutor returns an empty graph running at the given sample rate.
func NewExecutor(sampleRate float32) *Executor {
	return &Executor{
		sampleRate:    sampleRate,
		nodes:         make(map[string]Module),
		inputs:        make(map[string]*PortBuffers),
		outputs:       make(map[string]*PortBuffers),
		gateState:     make(map[string]float32),
		sampleCounter: make(map[string]int),
	}
}

// SampleRate returns the graph-wide sample rate constant.
func (e *Executor) SampleRate() float32 {
	return e.sampleRate
}

// Cycle returns the number of blocks processed so far.
func (e *Executor) Cycle() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cycle
}

// AddObserver registers an observer. The observer list is append-only
// for the graph's lifetime.
func (e *Executor) AddObserver(o Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, o)
}

// AddModule registers a new node under name. Returns an error if the
// name is already taken.
func (e *Executor) AddModule(name string, m Module) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.nodes[name]; exists {
		return fmt.Errorf("graph: module %q already exists", name)
	}
	e.nodes[name] = m
	e.order = append(e.order, name)
	e.outputs[name] = NewPortBuffers()
	if sra, ok := m.(SampleRateAware); ok {
		sra.SetSampleRate(e.sampleRate)
	}
	return nil
}

// HasModule reports whether a node by that name exists.
func (e *Executor) HasModule(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.nodes[name]
	return ok
}

// Node returns a read-only view of a node by name, for introspection.
func (e *Executor) Node(name string) (Module, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	m, ok := e.nodes[name]
	return m, ok
}

// Names returns all node names, sorted for stable inspection output.
func (e *Executor) Names() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]string, len(e.order))
	copy(names, e.order)
	sort.Strings(names)
	return names
}

// AddConnection appends a connection to the graph.
func (e *Executor) AddConnection(c Connection) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.connections = append(e.connections, c)
}

// Connections returns a copy of the current connection list.
func (e *Executor) Connections() []Connection {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Connection, len(e.connections))
	copy(out, e.connections)
	return out
}

// Clear removes every node, connection, and buffer, resetting the
// cycle counter. Observers are preserved.
func (e *Executor) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nodes = make(map[string]Module)
	e.order = nil
	e.connections = nil
	e.inputs = make(map[string]*PortBuffers)
	e.outputs = make(map[string]*PortBuffers)
	e.gateState = make(map[string]float32)
	e.sampleCounter = make(map[string]int)
	e.cycle = 0
}

// SetParam forwards a parameter write to the named node. Returns an
// error if the node doesn't exist or rejects the parameter.
func (e *Executor) SetParam(node, param string, value float32) error {
	e.mu.Lock()
	m, ok := e.nodes[node]
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("graph: no such module %q", node)
	}
	err := m.SetParam(param, value)
	observers := e.observers
	e.mu.Unlock()
	if err != nil {
		return fmt.Errorf("graph: %s.%s: %w", node, param, err)
	}
	for _, o := range observers {
		o.OnParam(ParamEvent{Node: node, Param: param, Value: value})
	}
	return nil
}

// GetParam reads a parameter from the named node.
func (e *Executor) GetParam(node, param string) (float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	m, ok := e.nodes[node]
	if !ok {
		return 0, fmt.Errorf("graph: no such module %q", node)
	}
	v, ok := m.GetParam(param)
	if !ok {
		return 0, fmt.Errorf("graph: %s has no parameter %q", node, param)
	}
	return v, nil
}

// ActivateAll flips every manual-gate-capable node's gate on.
func (e *Executor) ActivateAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, m := range e.nodes {
		if g, ok := m.(GateSettable); ok {
			g.SetGate(true)
		}
	}
}

// ReleaseAll flips every manual-gate-capable node's gate off.
func (e *Executor) ReleaseAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, m := range e.nodes {
		if g, ok := m.(GateSettable); ok {
			g.SetGate(false)
		}
	}
}

// Validate inspects the connection list without running the graph:
// every destination node+port must exist, and every Direct leaf in a
// source expression must reference an existing source node+output.
func (e *Executor) Validate() []Diagnostic {
	e.mu.Lock()
	defer e.mu.Unlock()

	var diags []Diagnostic
	for _, c := range e.connections {
		destMod, ok := e.nodes[c.DestNode]
		if !ok {
			diags = append(diags, Diagnostic{fmt.Sprintf("connection targets unknown module %q", c.DestNode)})
		} else if !hasPort(destMod.Inputs(), c.DestPort) {
			diags = append(diags, Diagnostic{fmt.Sprintf("%s has no input port %q", c.DestNode, c.DestPort)})
		}
		for _, d := range DirectRefs(c.Source) {
			srcMod, ok := e.nodes[d.Module]
			if !ok {
				diags = append(diags, Diagnostic{fmt.Sprintf("connection references unknown module %q", d.Module)})
				continue
			}
			if !hasPort(srcMod.Outputs(), d.Port) {
				diags = append(diags, Diagnostic{fmt.Sprintf("%s has no output port %q", d.Module, d.Port)})
			}
		}
	}
	return diags
}

func hasPort(ports []PortDescriptor, name string) bool {
	for _, p := range ports {
		if p.Name == name {
			return true
		}
	}
	return false
}

// Advance runs exactly one cycle of n frames, following the per-cycle
// protocol in spec section 4.4. Output buffers persist across calls,
// so a connection whose source runs later in execution order (or is
// the destination node itself) reads that source's previous-cycle
// values, while a source earlier in the order is read from the current
// cycle: cycles (e.g. a self-patched slew) incur exactly one block of
// latency.
func (e *Executor) Advance(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.advanceLocked(n)
}

func (e *Executor) advanceLocked(n int) {
	for _, o := range e.observers {
		o.BeginCycle(e.cycle)
	}

	// Step 2: prepare every node's input buffers at their declared
	// defaults before any connection is evaluated.
	for _, name := range e.order {
		mod := e.nodes[name]
		in, ok := e.inputs[name]
		if !ok {
			in = NewPortBuffers()
			e.inputs[name] = in
		}
		for _, pd := range mod.Inputs() {
			buf := in.GetOrDefault(pd.Name, n, pd.Default)
			for i := range buf {
				buf[i] = pd.Default
			}
		}
	}

	// Step 3: for each node in execution order, evaluate every
	// connection targeting it, then run process().
	for _, name := range e.order {
		mod := e.nodes[name]
		in := e.inputs[name]
		for _, c := range e.connections {
			if c.DestNode != name {
				continue
			}
			dst := in.GetOrDefault(c.DestPort, n, 0)
			c.Source.Evaluate(e.outputs, dst)
		}

		out := e.outputs[name]
		for _, pd := range mod.Outputs() {
			out.GetOrDefault(pd.Name, n, 0)
		}
		mod.Process(in, out, n)

		e.sampleOutputs(name, mod, out, n)
	}

	for _, o := range e.observers {
		o.EndCycle(e.cycle)
	}
	e.cycle++
}

// sampleOutputs performs edge detection on gate-like ports and
// periodic sampling on every other output port, per spec 4.4 step 4.
func (e *Executor) sampleOutputs(name string, mod Module, out *PortBuffers, n int) {
	for _, pd := range mod.Outputs() {
		buf := out.Get(pd.Name)
		if buf == nil {
			continue
		}
		key := name + "." + pd.Name
		if isGateLike(pd.Name) {
			prev := e.gateState[key]
			for i, cur := range buf {
				if cur > 0 && prev <= 0 {
					for _, o := range e.observers {
						o.OnGate(GateEvent{Node: name, Port: pd.Name, Cycle: e.cycle, SampleIndex: i})
					}
				}
				prev = cur
			}
			e.gateState[key] = prev
			continue
		}
		if n <= 128 {
			continue
		}
		counter := e.sampleCounter[key]
		for i, v := range buf {
			if (counter+i)%64 == 0 {
				for _, o := range e.observers {
					o.OnSignal(SignalEvent{Node: name, Port: pd.Name, Cycle: e.cycle, Value: v})
				}
			}
		}
		e.sampleCounter[key] = (counter + n) % 64
	}
}

// Process implements the audio.SampleSource contract: dst holds
// interleaved stereo float32 samples, len(dst)/2 frames. The executor
// advances one cycle and copies the `_output` node's left/right
// buffers into dst, leaving silence if no output node exists yet.
func (e *Executor) Process(dst []float32) {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := len(dst) / 2
	if n == 0 {
		return
	}
	e.advanceLocked(n)

	out, ok := e.outputs["_output"]
	if !ok {
		for i := range dst {
			dst[i] = 0
		}
		return
	}
	left := out.Get("left")
	right := out.Get("right")
	for i := 0; i < n; i++ {
		var l, r float32
		if i < len(left) {
			l = left[i]
		}
		if i < len(right) {
			r = right[i]
		}
		dst[i*2] = l
		dst[i*2+1] = r
	}
}

// Output returns a read view of a node's output buffer for port, and
// whether it exists. Used by tests and inspection.
func (e *Executor) Output(node, port string) (PortBuffer, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	pb, ok := e.outputs[node]
	if !ok {
		return nil, false
	}
	buf := pb.Get(port)
	return buf, buf != nil
}
