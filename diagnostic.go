package zimdsp

import "fmt"

// DiagnosticKind classifies a Diagnostic for callers that want to
// filter or color them (the REPL uses this to pick a lipgloss style).
type DiagnosticKind int

const (
	DiagError DiagnosticKind = iota
	DiagWarning
)

// Diagnostic reports one problem found while loading or validating a
// patch, tagged with the source line it came from when known.
type Diagnostic struct {
	Kind    DiagnosticKind
	Line    int
	Message string
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("line %d: %s", d.Line, d.Message)
	}
	return d.Message
}
