// Package effects implements the stereo post-processors available to
// the `fx` module (internal/modules/fx.go). A patch never constructs
// an Effector directly; it names one by the `fx` module's keyword
// token (`fx: fx reverb 0.6 0.3 0.4`), and builtins.go's buildFXChain
// resolves that keyword to a concrete Chain (one Effector, or none for
// the bare `fx: fx`) with the patch's numeric arguments as constructor
// parameters.
package effects

// Effector processes one stereo sample pair and carries its own state
// between calls; the `fx` module drives it one sample at a time from
// inside the graph's per-cycle Process loop.
type Effector interface {
	Process(l, r float32) (float32, float32)
	Reset()
}

// Chain applies a sequence of Effectors in order, so the graph node
// drives it without needing to know how many stages it holds.
// buildFXChain gives every `fx` keyword a chain of exactly one
// Effector, and the bare `fx: fx` an empty chain.
type Chain struct {
	effects []Effector
}

// NewChain builds a chain from zero or more Effectors. An empty chain
// (the bare `fx: fx` keyword) passes audio through unchanged.
func NewChain(effects ...Effector) *Chain {
	return &Chain{effects: effects}
}

func (c *Chain) Process(l, r float32) (float32, float32) {
	for _, e := range c.effects {
		l, r = e.Process(l, r)
	}
	return l, r
}

func (c *Chain) Reset() {
	for _, e := range c.effects {
		e.Reset()
	}
}

// Add appends an Effector to the chain; buildFXChain uses NewChain's
// variadic form instead, but Add remains for a future `fx` keyword
// that needs to assemble a chain conditionally.
func (c *Chain) Add(e Effector) {
	c.effects = append(c.effects, e)
}
