// Package modules implements the DSP node library: the concrete
// graph.Module types that the parser instantiates from a patch's
// module declarations.
package modules

import (
	"fmt"

	"github.com/navicore/zim-dsp-go/internal/graph"
)

func errUnknownParam(name string) error {
	return fmt.Errorf("unknown parameter %q", name)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// risingEdge reports whether cur crosses from non-positive to
// positive, the gate convention used throughout the module library.
func risingEdge(prev, cur float32) bool {
	return cur > 0 && prev <= 0
}

// out allocates (or reuses) a module's declared output buffers in one
// batched call, matching the PortBuffers contract that rejects
// duplicate names.
func out(outputs *graph.PortBuffers, n int, names ...string) []graph.PortBuffer {
	bufs, err := outputs.GetMany(n, names...)
	if err != nil {
		// Every call site passes a fixed, distinct literal port list;
		// a duplicate here is a programming error in this package.
		panic(err)
	}
	return bufs
}
