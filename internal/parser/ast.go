// Package parser tokenizes and parses zim-dsp patch files: module
// declarations, connections with arithmetic source expressions,
// parameter assignments, imports, and patchbay documentation blocks.
package parser

import "fmt"

// PortRef is a `name.port` reference, the primary term of every
// source expression and connection destination.
type PortRef struct {
	Module string
	Port   string
}

func (r PortRef) String() string {
	if r.Port == "" {
		return r.Module
	}
	return r.Module + "." + r.Port
}

// SourceExpr is the parsed arithmetic tree for a connection's
// right-hand side: a primary PortRef optionally scaled and/or offset
// by constants. It mirrors internal/graph.Expr but stays independent
// of it so the parser has no dependency on the runtime package; the
// engine façade is what lowers a SourceExpr into a graph.Expr once
// node names are resolved (and, for imports, prefixed).
type SourceExpr interface {
	fmt.Stringer
	isSourceExpr()
}

// Primary is a bare `name.port` reference.
type Primary struct {
	Ref PortRef
}

func (Primary) isSourceExpr() {}
func (p Primary) String() string { return p.Ref.String() }

// ScaledExpr is `expr * factor` (or `factor * expr`).
type ScaledExpr struct {
	Expr   SourceExpr
	Factor float32
}

func (ScaledExpr) isSourceExpr() {}
func (s ScaledExpr) String() string { return fmt.Sprintf("%s * %g", s.Expr, s.Factor) }

// OffsetExpr is `expr + amount` (or `amount + expr`).
type OffsetExpr struct {
	Expr   SourceExpr
	Amount float32
}

func (OffsetExpr) isSourceExpr() {}
func (o OffsetExpr) String() string { return fmt.Sprintf("%s + %g", o.Expr, o.Amount) }

// Command is one parsed statement.
type Command interface {
	fmt.Stringer
	isCommand()
}

// CreateModule declares a new node: `name: type params...`.
type CreateModule struct {
	Name string
	Type string // built-in type name, or an imported sub-patch's name

	// Keyword is the one non-numeric token immediately after Type, if
	// present -- the oscillator's waveform (`sine|saw|square|tri|triangle`)
	// or the gate's variant (`manual`). Most types never use it.
	Keyword string

	// Waveform mirrors Keyword for the oscillator type specifically;
	// kept as a distinctly-named accessor since "waveform" is the
	// vocabulary the grammar uses for that one case.
	Waveform string

	Params []float32
}

func (CreateModule) isCommand() {}
func (c CreateModule) String() string {
	s := c.Name + ": " + c.Type
	if c.Keyword != "" {
		s += " " + c.Keyword
	}
	for _, p := range c.Params {
		s += fmt.Sprintf(" %g", p)
	}
	return s
}

// Connect wires a source expression into a destination port:
// `destination <- source_expr`.
type Connect struct {
	Dest   PortRef
	Source SourceExpr
}

func (Connect) isCommand() {}
func (c Connect) String() string {
	return fmt.Sprintf("%s <- %s", c.Dest, c.Source)
}

// SetParam assigns a constant to a module parameter:
// `name.param <- number`.
type SetParam struct {
	Module string
	Param  string
	Value  float32
}

func (SetParam) isCommand() {}
func (s SetParam) String() string {
	return fmt.Sprintf("%s.%s <- %g", s.Module, s.Param, s.Value)
}

// Import resolves and inlines a sub-patch: `import path [as alias]`.
type Import struct {
	Path  string
	Alias string
}

func (Import) isCommand() {}
func (i Import) String() string {
	if i.Alias != "" {
		return fmt.Sprintf("import %s as %s", i.Path, i.Alias)
	}
	return "import " + i.Path
}

// PatchbayPort is one line of a patchbay block:
// `  name: port N [description]`.
type PatchbayPort struct {
	Name        string
	Number      int
	Description string
}

// Patchbay documents a sub-patch's named-port interface. It has no
// runtime effect; the importer uses it only for validation.
type Patchbay struct {
	Ports []PatchbayPort
}

func (Patchbay) isCommand() {}
func (p Patchbay) String() string {
	return fmt.Sprintf("patchbay: %d ports", len(p.Ports))
}
