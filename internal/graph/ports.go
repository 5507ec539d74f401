// Package graph implements the signal-graph runtime: port buffers, the
// connection-expression evaluator, and the block-processing executor
// that drives a heterogeneous collection of stateful DSP nodes.
package graph

import "fmt"

// PortDescriptor declares one input or output port of a module type.
type PortDescriptor struct {
	Name        string
	Default     float32
	Description string
}

// PortBuffer is a single port's block of samples.
type PortBuffer []float32

// PortBuffers holds one node's port buffers, addressed by name.
type PortBuffers struct {
	buffers map[string]PortBuffer
}

// NewPortBuffers returns an empty buffer set.
func NewPortBuffers() *PortBuffers {
	return &PortBuffers{buffers: make(map[string]PortBuffer)}
}

// Get returns a read view of a port's buffer, or nil if it has never
// been written or allocated.
func (pb *PortBuffers) Get(port string) PortBuffer {
	return pb.buffers[port]
}

// GetOrDefault returns a mutable buffer of length size for port,
// allocating and filling it with def if it doesn't exist yet or is the
// wrong size.
func (pb *PortBuffers) GetOrDefault(port string, size int, def float32) PortBuffer {
	buf, ok := pb.buffers[port]
	if !ok || len(buf) != size {
		buf = make(PortBuffer, size)
		for i := range buf {
			buf[i] = def
		}
		pb.buffers[port] = buf
	}
	return buf
}

// GetMany returns distinct mutable buffers for a fixed set of port
// names, allocating each to size zero-filled if absent. It rejects
// duplicate names at the contract boundary.
func (pb *PortBuffers) GetMany(size int, ports ...string) ([]PortBuffer, error) {
	seen := make(map[string]struct{}, len(ports))
	out := make([]PortBuffer, len(ports))
	for i, name := range ports {
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("graph: duplicate port name %q in batched accessor", name)
		}
		seen[name] = struct{}{}
		out[i] = pb.GetOrDefault(name, size, 0)
	}
	return out, nil
}

// Names returns the set of port names currently allocated.
func (pb *PortBuffers) Names() []string {
	names := make([]string, 0, len(pb.buffers))
	for n := range pb.buffers {
		names = append(names, n)
	}
	return names
}
