// Package config loads the driver's YAML configuration file (shiikac.yaml):
// the corelib search path, import directories, and diagnostic verbosity.
// Grounded on the teacher's internal/eval_harness/spec.go's LoadSpec (read
// file, yaml.Unmarshal, validate required fields, wrap errors with %w).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Verbosity is the configured level of diagnostic detail: "quiet",
// "normal" or "verbose". It is parsed and validated here; cmd/shiikac does
// not consult it, and its output is the same at every level.
type Verbosity string

const (
	Quiet   Verbosity = "quiet"
	Normal  Verbosity = "normal"
	Verbose Verbosity = "verbose"
)

// Config is the shiikac.yaml shape: where to find the corelib and any
// additional source directories to index alongside the entrypoint file,
// plus how noisy the driver should be.
type Config struct {
	// CorelibPath names the standard-library directory. It is required and
	// defaulted here; cmd/shiikac reads no source files from it (the
	// bootstrap classes come from classdict.New).
	CorelibPath string `yaml:"corelib_path"`

	// ImportDirs lists additional source directories. cmd/shiikac does not
	// search them.
	ImportDirs []string `yaml:"import_dirs"`

	// DumpExports, when non-empty, is the format ("json" or "yaml") the
	// driver writes the MIR LibraryExports to after a successful build.
	DumpExports string `yaml:"dump_exports"`

	// Verbosity is the configured diagnostic level (see Verbosity).
	Verbosity Verbosity `yaml:"verbosity"`
}

// defaults fills in a Config's zero-value fields with the driver's
// built-in defaults. Load seeds the Config with them before unmarshalling,
// so a shiikac.yaml need only mention the fields it wants to override.
func defaults() Config {
	return Config{
		CorelibPath: "corelib",
		Verbosity:   Normal,
	}
}

// Load reads and parses path as a shiikac.yaml, validating its required
// fields. A missing or malformed file is always an error: the driver never
// silently falls back to an all-defaults Config when a path was given.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects a Config with a recognizable but unusable shape:
// a corelib path must be set (even if it's the default), and
// dump_exports, when set, must name a format the driver actually knows
// how to write (internal/mir.LibraryExports only has JSON and YAML
// encoders).
func (c *Config) Validate() error {
	if c.CorelibPath == "" {
		return fmt.Errorf("config: missing required field: corelib_path")
	}
	switch c.DumpExports {
	case "", "json", "yaml":
	default:
		return fmt.Errorf("config: dump_exports must be \"json\" or \"yaml\", got %q", c.DumpExports)
	}
	switch c.Verbosity {
	case "", Quiet, Normal, Verbose:
	default:
		return fmt.Errorf("config: unknown verbosity %q", c.Verbosity)
	}
	if c.Verbosity == "" {
		c.Verbosity = Normal
	}
	return nil
}
