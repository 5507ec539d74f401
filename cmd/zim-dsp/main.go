// Command zim-dsp is the CLI entry point: it loads a patch file (or
// starts a bare REPL), wiring the engine façade to the interactive
// shell or to a short auto-play run.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	zimdsp "github.com/navicore/zim-dsp-go"
	"github.com/navicore/zim-dsp-go/internal/config"
	"github.com/navicore/zim-dsp-go/internal/replui"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("zim-dsp", pflag.ContinueOnError)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: zim-dsp [flags] [patch-file]")
		flags.PrintDefaults()
	}

	sampleRate := flags.Int("sample-rate", 0, "output sample rate (overrides config)")
	configPath := flags.StringP("config", "c", config.DefaultPath(), "path to config.yaml")
	engineDebug := flags.Bool("engine-debug", false, "enable debug-level engine logging")
	help := flags.BoolP("help", "h", false, "show usage")

	if err := flags.Parse(args); err != nil {
		return 2
	}
	if *help {
		flags.Usage()
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *sampleRate > 0 {
		cfg.SampleRate = *sampleRate
	}

	logger := newLogger(cfg, *engineDebug)

	switch flags.NArg() {
	case 0:
		engine := zimdsp.NewEngine(cfg.SampleRate)
		engine.SetLogger(logger)
		return startRepl(engine, cfg, logger)
	case 1:
		return runFile(flags.Arg(0), cfg, logger)
	default:
		flags.Usage()
		return 2
	}
}

func newLogger(cfg config.Config, debug bool) *log.Logger {
	logger := log.New(os.Stderr)
	level := log.InfoLevel
	switch {
	case debug:
		level = log.DebugLevel
	default:
		if parsed, err := log.ParseLevel(cfg.LogLevel); err == nil {
			level = parsed
		}
	}
	logger.SetLevel(level)
	return logger
}

func runFile(path string, cfg config.Config, logger *log.Logger) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	source := string(data)

	engine := zimdsp.NewEngineForFile(cfg.SampleRate, path)
	engine.SetLogger(logger)

	for _, d := range engine.LoadPatch(source) {
		fmt.Fprintln(os.Stderr, d.String())
	}

	if hasStartLine(source) {
		return autoPlay(engine)
	}
	return startRepl(engine, cfg, logger)
}

// hasStartLine reports whether source has a bare `start` line, the
// patch file format's CLI-only auto-play marker.
func hasStartLine(source string) bool {
	for _, line := range strings.Split(source, "\n") {
		if strings.TrimSpace(line) == "start" {
			return true
		}
	}
	return false
}

func autoPlay(engine *zimdsp.Engine) int {
	if err := engine.Start(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("playing; press Enter to stop")
	bufio.NewScanner(os.Stdin).Scan()
	if err := engine.Stop(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func startRepl(engine *zimdsp.Engine, cfg config.Config, logger *log.Logger) int {
	r := replui.New(engine, os.Stdin, os.Stdout, cfg.HistoryFile, logger)
	if err := r.LoadHistory(); err != nil {
		logger.Warn("could not load history", "err", err)
	}
	if err := r.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
