// Package config loads the optional resweep.yaml configuration file.
// Everything in it has a working default; deployments that used to hardcode
// their source and output paths put them here instead.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/resweep/resweep/internal/scan"
)

// DefaultFile is looked up in the working directory when --config is not
// given.
const DefaultFile = "resweep.yaml"

// AnalyzerConfig describes the external analyzer binary. A nil Flags list
// means "use the mode's defaults"; an explicit empty list suppresses them.
type AnalyzerConfig struct {
	Bin   string   `yaml:"bin"`
	Mode  string   `yaml:"mode"` // "legacy-csv" or "tags"; empty follows the scan mode
	Flags []string `yaml:"flags"`
}

// Config is the full file schema. Unknown keys are rejected.
type Config struct {
	Analyzer AnalyzerConfig `yaml:"analyzer"`
	Source   string         `yaml:"source"`
	CSV      string         `yaml:"csv"`
	Log      string         `yaml:"log"`
	Excludes []string       `yaml:"excludes"`
	StateDir string         `yaml:"stateDir"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Analyzer: AnalyzerConfig{
			Bin: "aguille.py",
		},
		Excludes: scan.DefaultExcludes,
		StateDir: ".resweep",
	}
}

// Load reads path, or DefaultFile when path is empty. A missing default
// file is not an error; a missing explicit path is.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config (%s): %w", filepath.Base(path), err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config (%s): %w", filepath.Base(path), err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Analyzer.Mode {
	case "", "legacy-csv", "tags":
	default:
		return fmt.Errorf("unknown analyzer mode %q", c.Analyzer.Mode)
	}
	if c.Analyzer.Bin == "" {
		return errors.New("analyzer bin must not be empty")
	}
	return nil
}
