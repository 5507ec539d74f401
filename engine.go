// Package zimdsp is the engine façade: it ties the patch-language
// parser, module resolver, signal graph executor, and audio device
// together into the single entry point the CLI and REPL drive.
package zimdsp

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/navicore/zim-dsp-go/internal/audio"
	"github.com/navicore/zim-dsp-go/internal/graph"
	"github.com/navicore/zim-dsp-go/internal/modules"
	"github.com/navicore/zim-dsp-go/internal/parser"
	"github.com/navicore/zim-dsp-go/internal/resolver"
)

const outputNodeName = "_output"

// Engine owns one patch's signal graph and, optionally, a live audio
// stream. It serializes all control-thread mutations behind mu; the
// executor itself holds the finer-grained lock described in §5 that
// also guards the real-time audio callback.
type Engine struct {
	mu sync.Mutex

	exec     *graph.Executor
	resolver *resolver.Resolver
	logger   *log.Logger

	subPatches map[string][]parser.Command
	player     *audio.Player
}

// NewEngine creates an engine with an empty graph at sampleRate,
// using the default module search paths.
func NewEngine(sampleRate int) *Engine {
	return &Engine{
		exec:       graph.NewExecutor(float32(sampleRate)),
		resolver:   resolver.New(),
		logger:     log.New(os.Stderr),
		subPatches: make(map[string][]parser.Command),
	}
}

// NewEngineForFile creates an engine whose sub-patch imports resolve
// relative to patchFile's directory first.
func NewEngineForFile(sampleRate int, patchFile string) *Engine {
	e := NewEngine(sampleRate)
	e.resolver = resolver.FromPatchFile(patchFile)
	return e
}

// SetLogger overrides the engine's structured logger, e.g. to redirect
// to a different writer or level from the CLI.
func (e *Engine) SetLogger(l *log.Logger) { e.logger = l }

// LoadPatch parses and applies patch source text, returning any
// diagnostics. Per the reference loader's abort-on-error policy, the
// first parse error stops processing and is returned as the sole
// diagnostic. The whole source is parsed before any command is
// applied, so a parse error leaves the graph unchanged.
func (e *Engine) LoadPatch(source string) []Diagnostic {
	e.mu.Lock()
	defer e.mu.Unlock()

	lines := strings.Split(source, "\n")
	cmds, err := parser.ParseLines(lines)
	if err != nil {
		if pe, ok := err.(*parser.ParseError); ok {
			return []Diagnostic{{Kind: DiagError, Line: pe.Line, Message: pe.Message}}
		}
		return []Diagnostic{{Kind: DiagError, Message: err.Error()}}
	}

	var diags []Diagnostic
	if err := e.apply(cmds, &diags); err != nil {
		diags = append(diags, Diagnostic{Kind: DiagError, Message: err.Error()})
	}
	return diags
}

// LoadFile reads and loads a patch file from disk.
func (e *Engine) LoadFile(path string) []Diagnostic {
	data, err := os.ReadFile(path)
	if err != nil {
		return []Diagnostic{{Kind: DiagError, Message: err.Error()}}
	}
	return e.LoadPatch(string(data))
}

// apply walks a flat command list, expanding sub-patch instantiations
// and imports as it goes, and mutates the executor accordingly.
func (e *Engine) apply(cmds []parser.Command, diags *[]Diagnostic) error {
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case parser.Import:
			if err := e.registerImport(c); err != nil {
				return err
			}
		case parser.CreateModule:
			if err := e.createModule(c, diags); err != nil {
				return err
			}
		case parser.Connect:
			e.connect(c)
		case parser.SetParam:
			if err := e.exec.SetParam(c.Module, c.Param, c.Value); err != nil {
				*diags = append(*diags, Diagnostic{Kind: DiagError, Message: err.Error()})
			}
		case parser.Patchbay:
			// Documentation only; no runtime effect.
		default:
			return fmt.Errorf("unknown command type %T", cmd)
		}
	}
	return nil
}

func (e *Engine) registerImport(imp parser.Import) error {
	key := imp.Alias
	if key == "" {
		key = imp.Path
	}
	src, err := e.resolver.Load(imp.Path)
	if err != nil {
		return fmt.Errorf("import %q: %w", imp.Path, err)
	}
	subCmds, err := parser.ParseLines(strings.Split(src, "\n"))
	if err != nil {
		return fmt.Errorf("import %q: %w", imp.Path, err)
	}
	for _, sc := range subCmds {
		if _, ok := sc.(parser.Import); ok {
			return fmt.Errorf("import %q: nested import is not supported", imp.Path)
		}
	}
	e.subPatches[key] = subCmds
	return nil
}

func (e *Engine) createModule(cmd parser.CreateModule, diags *[]Diagnostic) error {
	mod, err := builtin(cmd, e.exec.SampleRate())
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.Name, err)
	}
	if mod != nil {
		return e.exec.AddModule(cmd.Name, mod)
	}

	subCmds, ok := e.subPatches[cmd.Type]
	if !ok {
		return fmt.Errorf("%s: unknown module type or sub-patch %q", cmd.Name, cmd.Type)
	}
	rewritten, err := parser.RewriteForImport(cmd.Name, subCmds)
	if err != nil {
		return fmt.Errorf("instantiating %q as %q: %w", cmd.Type, cmd.Name, err)
	}
	return e.apply(rewritten, diags)
}

func (e *Engine) connect(c parser.Connect) {
	if c.Dest.Module == "out" {
		e.ensureOutput()
		if c.Dest.Port == "left" || c.Dest.Port == "right" {
			if node, ok := e.exec.Node(outputNodeName); ok {
				if sink, ok := node.(graph.StereoSink); ok {
					sink.MarkConnected(c.Dest.Port)
				}
			}
		}
		e.exec.AddConnection(graph.Connection{
			DestNode: outputNodeName,
			DestPort: c.Dest.Port,
			Source:   lowerExpr(c.Source),
		})
		return
	}
	e.exec.AddConnection(graph.Connection{
		DestNode: c.Dest.Module,
		DestPort: c.Dest.Port,
		Source:   lowerExpr(c.Source),
	})
}

func (e *Engine) ensureOutput() {
	if e.exec.HasModule(outputNodeName) {
		return
	}
	_ = e.exec.AddModule(outputNodeName, modules.NewStereoOutput())
}

func lowerExpr(e parser.SourceExpr) graph.Expr {
	switch v := e.(type) {
	case parser.Primary:
		return graph.Direct{Module: v.Ref.Module, Port: v.Ref.Port}
	case parser.ScaledExpr:
		return graph.Scaled{Expr: lowerExpr(v.Expr), Factor: v.Factor}
	case parser.OffsetExpr:
		return graph.Offset{Expr: lowerExpr(v.Expr), Amount: v.Amount}
	default:
		return graph.Sum{}
	}
}

// Validate reports diagnostics about the current graph without
// mutating it.
func (e *Engine) Validate() []Diagnostic {
	e.mu.Lock()
	defer e.mu.Unlock()

	var diags []Diagnostic
	for _, d := range e.exec.Validate() {
		diags = append(diags, Diagnostic{Kind: DiagWarning, Message: d.Message})
	}
	return diags
}

// Clear removes every node and connection from the graph, leaving the
// engine otherwise configured (resolver, logger, sub-patch registry).
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.exec.Clear()
}

// Names returns the sorted list of every node currently in the graph.
func (e *Engine) Names() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exec.Names()
}

// SetParam writes a module parameter.
func (e *Engine) SetParam(node, param string, value float32) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exec.SetParam(node, param, value)
}

// Inspect returns a node's current output port values, for the REPL's
// `inspect <name>` command. Gate/audio values are read from the most
// recently produced block.
func (e *Engine) Inspect(name string) (map[string]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	mod, ok := e.exec.Node(name)
	if !ok {
		return nil, fmt.Errorf("no such module %q", name)
	}
	values := make(map[string]float32)
	for _, port := range mod.Outputs() {
		buf, ok := e.exec.Output(name, port.Name)
		if !ok || len(buf) == 0 {
			continue
		}
		values[port.Name] = buf[len(buf)-1]
	}
	return values, nil
}

// ActivateGates triggers every manual gate in the graph.
func (e *Engine) ActivateGates() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.exec.ActivateAll()
}

// ReleaseGates releases every manual gate in the graph.
func (e *Engine) ReleaseGates() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.exec.ReleaseAll()
}

// Advance processes n frames without touching an audio device; used
// by tests and the offline renderer.
func (e *Engine) Advance(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.exec.Advance(n)
}

// Output returns a node's most recently produced port buffer.
func (e *Engine) Output(node, port string) ([]float32, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	buf, ok := e.exec.Output(node, port)
	return buf, ok
}

// Start opens the audio device and begins streaming the graph's
// output. It is a no-op if already started.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.player != nil {
		return nil
	}
	e.ensureOutput()
	player, err := audio.NewPlayer(int(e.exec.SampleRate()), e.exec)
	if err != nil {
		return fmt.Errorf("starting audio: %w", err)
	}
	player.Play()
	e.player = player
	e.logger.Info("audio started", "sample_rate", e.exec.SampleRate())
	return nil
}

// Stop closes the audio device, if open.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.player == nil {
		return nil
	}
	err := e.player.Stop()
	e.player = nil
	e.logger.Info("audio stopped")
	return err
}

// IsPlaying reports whether the audio device is currently open.
func (e *Engine) IsPlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.player != nil && e.player.IsPlaying()
}
