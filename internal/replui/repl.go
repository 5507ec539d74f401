// Package replui implements the interactive shell: a line-oriented
// REPL over the engine façade with persistent history and styled
// output, built on bufio.Scanner since no third-party line editor
// library is available.
package replui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	zimdsp "github.com/navicore/zim-dsp-go"
)

const helpText = `commands:
  help             show this message
  start            start audio output
  stop             stop audio output
  gate, g          activate every manual gate
  release, r       release every manual gate
  clear            remove every module and connection
  list             list module names in the current graph
  validate         check the current graph for dangling connections
  inspect <name>   show a module's most recent output values
  quit, exit       leave the shell

any other line is parsed as a patch statement and applied immediately.`

// Repl drives one interactive session against an engine.
type Repl struct {
	engine      *zimdsp.Engine
	in          *bufio.Scanner
	out         io.Writer
	historyPath string
	history     []string
	logger      *log.Logger
}

// New returns a Repl reading from in, writing prompts and output to
// out, and persisting history at historyPath (empty disables history).
func New(engine *zimdsp.Engine, in io.Reader, out io.Writer, historyPath string, logger *log.Logger) *Repl {
	return &Repl{
		engine:      engine,
		in:          bufio.NewScanner(in),
		out:         out,
		historyPath: historyPath,
		logger:      logger,
	}
}

// LoadHistory reads past entries from historyPath, if set; a missing
// file is not an error.
func (r *Repl) LoadHistory() error {
	if r.historyPath == "" {
		return nil
	}
	data, err := os.ReadFile(r.historyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, line := range strings.Split(string(data), "\n") {
		if line != "" {
			r.history = append(r.history, line)
		}
	}
	return nil
}

func (r *Repl) appendHistory(line string) {
	r.history = append(r.history, line)
	if r.historyPath == "" {
		return
	}
	f, err := os.OpenFile(r.historyPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		r.logger.Warn("could not write history", "path", r.historyPath, "err", err)
		return
	}
	defer f.Close()
	fmt.Fprintln(f, line)
}

// Run reads commands until quit/exit or EOF, returning any scanner
// error encountered.
func (r *Repl) Run() error {
	fmt.Fprintln(r.out, PromptStyle.Render("zim-dsp")+" "+MutedStyle.Render("type 'help' for commands"))
	for {
		fmt.Fprint(r.out, PromptStyle.Render("> "))
		if !r.in.Scan() {
			break
		}
		line := strings.TrimSpace(r.in.Text())
		if line == "" {
			continue
		}
		r.appendHistory(line)
		if r.dispatch(line) {
			break
		}
	}
	return r.in.Err()
}

// dispatch handles one line; it returns true when the session should
// end.
func (r *Repl) dispatch(line string) bool {
	fields := strings.Fields(line)
	cmd := fields[0]
	switch cmd {
	case "help":
		fmt.Fprintln(r.out, helpText)
	case "quit", "exit":
		return true
	case "start":
		if err := r.engine.Start(); err != nil {
			r.printErr(err)
		} else {
			fmt.Fprintln(r.out, OKStyle.Render("audio started"))
		}
	case "stop":
		if err := r.engine.Stop(); err != nil {
			r.printErr(err)
		} else {
			fmt.Fprintln(r.out, OKStyle.Render("audio stopped"))
		}
	case "gate", "g":
		r.engine.ActivateGates()
	case "release", "r":
		r.engine.ReleaseGates()
	case "clear":
		r.engine.Clear()
		fmt.Fprintln(r.out, OKStyle.Render("graph cleared"))
	case "list":
		for _, name := range r.engine.Names() {
			fmt.Fprintln(r.out, name)
		}
	case "validate":
		r.printDiagnostics(r.engine.Validate())
	case "inspect":
		if len(fields) < 2 {
			r.printErr(fmt.Errorf("usage: inspect <name>"))
			break
		}
		values, err := r.engine.Inspect(fields[1])
		if err != nil {
			r.printErr(err)
			break
		}
		for port, v := range values {
			fmt.Fprintf(r.out, "%s.%s = %g\n", fields[1], port, v)
		}
	default:
		r.printDiagnostics(r.engine.LoadPatch(line))
	}
	return false
}

func (r *Repl) printErr(err error) {
	fmt.Fprintln(r.out, ErrorStyle.Render(err.Error()))
}

func (r *Repl) printDiagnostics(diags []zimdsp.Diagnostic) {
	for _, d := range diags {
		if d.Kind == zimdsp.DiagError {
			fmt.Fprintln(r.out, ErrorStyle.Render(d.String()))
		} else {
			fmt.Fprintln(r.out, WarnStyle.Render(d.String()))
		}
	}
}
