package amalgam

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ldemailly/amalgamate/directive"
)

// ConfigFile is looked up at the project root.
const ConfigFile = "amalgamate.yaml"

// Config describes the project layout and the shape of the two outputs.
// Relative directories are relative to the project root.
type Config struct {
	Project    string `yaml:"project"`
	SourceDir  string `yaml:"source_dir"`
	SourceExt  string `yaml:"source_ext"`
	IncludeDir string `yaml:"include_dir"`
	// Namespace is the prefix of namespaced includes, "semi" for "semi/config.h".
	Namespace string `yaml:"namespace"`
	// PublicHeaders, relative to IncludeDir, in the order they are emitted.
	// These never take part in the include graph.
	PublicHeaders []string `yaml:"public_headers"`
	// Banner lines are stripped from the top of every file and written at
	// the top of both outputs.
	Banner       []string `yaml:"banner"`
	OutputDir    string   `yaml:"output_dir"`
	SourceOutput string   `yaml:"source_output"`
	HeaderOutput string   `yaml:"header_output"`
	Guard        string   `yaml:"guard"`
	// Strict fails on include cycles instead of emitting a best effort order.
	Strict bool `yaml:"strict"`
}

func DefaultConfig() *Config {
	return &Config{
		Project:       "semi",
		SourceDir:     "src",
		SourceExt:     ".c",
		IncludeDir:    filepath.Join("include", "semi"),
		Namespace:     "semi",
		PublicHeaders: []string{"config.h", "error.h", "semi.h"},
		Banner: []string{
			"// Copyright (c) 2025 Ian Chen",
			"// SPDX-License-Identifier: MPL-2.0",
		},
		OutputDir:    "amalgamated",
		SourceOutput: "semi.c",
		HeaderOutput: "semi.h",
		Guard:        "SEMI_AMALGAMATED_H",
	}
}

// LoadConfig reads path over the defaults. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the fields the assembler cannot do without.
func (c *Config) Validate() error {
	switch {
	case c.SourceDir == "":
		return errors.New("source_dir is required")
	case c.IncludeDir == "":
		return errors.New("include_dir is required")
	case c.SourceOutput == "" || c.HeaderOutput == "":
		return errors.New("source_output and header_output are required")
	}
	if _, ok := directive.GuardIfndef("#ifndef " + c.Guard); !ok {
		return fmt.Errorf("guard %q must match [A-Z][A-Z0-9_]*_H", c.Guard)
	}
	return nil
}
