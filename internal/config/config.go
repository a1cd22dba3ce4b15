// Package config loads the optional cstyle.toml that tunes output and
// checking defaults. Flags always win over the file; the file wins over
// built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ManifestName is the configuration file looked up from the start
// directory towards the filesystem root.
const ManifestName = "cstyle.toml"

// Output controls how diagnostics are rendered.
type Output struct {
	Format         string `toml:"format"`
	Paths          string `toml:"paths"`
	MaxDiagnostics int    `toml:"max-diagnostics"`
	Color          string `toml:"color"`
}

// Check controls the checking pipeline itself.
type Check struct {
	Jobs  int  `toml:"jobs"`
	Cache bool `toml:"cache"`
}

// Tools names the external helper binaries wrapped by the tools
// subcommands.
type Tools struct {
	Spell  string `toml:"spell"`
	Encode string `toml:"encode"`
}

// Config is the full file shape.
type Config struct {
	Output Output `toml:"output"`
	Check  Check  `toml:"check"`
	Tools  Tools  `toml:"tools"`
}

// Default returns the built-in configuration used when no manifest exists.
func Default() Config {
	return Config{
		Output: Output{
			Format:         "stream",
			Paths:          "absolute",
			MaxDiagnostics: 1000,
			Color:          "auto",
		},
		Check: Check{
			Jobs:  0, // 0 means one worker per CPU
			Cache: false,
		},
		Tools: Tools{
			Spell:  "codespell",
			Encode: "cvt2utf",
		},
	}
}

// Find walks up from startDir to locate the manifest.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes one manifest over the defaults, so absent keys keep their
// built-in values.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Discover finds and loads the nearest manifest. Without one it returns
// the defaults and an empty path.
func Discover(startDir string) (Config, string, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, "", err
	}
	if !ok {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	return cfg, path, err
}

func (c Config) validate(path string) error {
	switch c.Output.Format {
	case "stream", "pretty", "json":
	default:
		return fmt.Errorf("%s: invalid output.format %q", path, c.Output.Format)
	}
	switch c.Output.Paths {
	case "absolute", "relative", "basename", "auto":
	default:
		return fmt.Errorf("%s: invalid output.paths %q", path, c.Output.Paths)
	}
	switch c.Output.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("%s: invalid output.color %q", path, c.Output.Color)
	}
	if c.Output.MaxDiagnostics <= 0 {
		return fmt.Errorf("%s: output.max-diagnostics must be positive", path)
	}
	if c.Check.Jobs < 0 {
		return fmt.Errorf("%s: check.jobs must not be negative", path)
	}
	return nil
}
