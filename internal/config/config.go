// Package config loads zim-dsp's on-disk configuration: sample rate,
// REPL history file location, extra module search directories, and
// log verbosity.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk shape of ~/.config/zim-dsp/config.yaml.
type Config struct {
	SampleRate  int      `yaml:"sample_rate"`
	HistoryFile string   `yaml:"history_file"`
	ModuleDirs  []string `yaml:"module_dirs"`
	LogLevel    string   `yaml:"log_level"`
}

// Default returns the built-in configuration used when no config file
// is present.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		SampleRate:  44100,
		HistoryFile: filepath.Join(home, ".zim_dsp_history"),
		LogLevel:    "info",
	}
}

// Load reads a YAML config file, applying its values over Default().
// A missing file is not an error: Default() is returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %q: %w", path, err)
	}
	return cfg, nil
}

// DefaultPath returns ~/.config/zim-dsp/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "zim-dsp-config.yaml"
	}
	return filepath.Join(home, ".config", "zim-dsp", "config.yaml")
}
