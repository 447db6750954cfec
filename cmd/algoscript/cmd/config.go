package cmd

import (
	"os"

	"github.com/goccy/go-yaml"
)

// runConfig holds the host-tunable knobs kept out of the interpreter
// core: the PRNG seed, the run built-in's search path list, and a
// belt-and-braces step budget.
type runConfig struct {
	Seed       *int64   `yaml:"seed"`
	SearchPath []string `yaml:"searchPath"`
	MaxSteps   int      `yaml:"maxSteps"`
}

// loadRunConfig reads and parses a YAML config file. An empty path
// returns the zero value (no seed override, no search path, no step
// budget) rather than an error.
func loadRunConfig(path string) (runConfig, error) {
	var cfg runConfig
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
