// Package config holds the compile session options.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Options configures one compile session
type Options struct {
	// ExecutionEngine selects the in-process JIT run instead of
	// emit-and-link through the external toolchain
	ExecutionEngine bool `yaml:"execution_engine"`
	// Target overrides the target triple; empty means host native
	Target string `yaml:"target,omitempty"`
}

// Default returns the options used when no config file is given:
// in-process execution on the host target.
func Default() Options {
	return Options{ExecutionEngine: true}
}

// Load reads options from a YAML file
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("read config: %w", err)
	}

	var opts Options
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("parse config: %w", err)
	}
	return opts, nil
}
