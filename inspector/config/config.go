// Package config loads the oxy-loupe TOML configuration file.
//
// A missing file is not an error: every key has a default, and keys present in
// the file override only themselves. Example:
//
//	log_level = "debug"
//
//	[glb]
//	unknown_chunks = "skip"
//	duplicate_chunks = "reject"
//	require_bin = false
//
//	[skin]
//	tolerance = 1e-4
//
//	[check]
//	workers = 8
//
//	[output]
//	color = "never"
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/Carmen-Shannon/oxy-loupe/common"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/glb"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Color modes of [output] color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config is the full configuration.
type Config struct {
	LogLevel string       `toml:"log_level"`
	GLB      GLBConfig    `toml:"glb"`
	Skin     SkinConfig   `toml:"skin"`
	Check    CheckConfig  `toml:"check"`
	Output   OutputConfig `toml:"output"`
}

// GLBConfig holds the container reader policies.
type GLBConfig struct {
	UnknownChunks   string `toml:"unknown_chunks"`
	DuplicateChunks string `toml:"duplicate_chunks"`
	RequireBIN      bool   `toml:"require_bin"`
}

// SkinConfig holds the skin validator settings.
type SkinConfig struct {
	Tolerance float32 `toml:"tolerance"`
}

// CheckConfig holds the batch check settings.
type CheckConfig struct {
	Workers int `toml:"workers"`
}

// OutputConfig holds terminal output settings.
type OutputConfig struct {
	Color string `toml:"color"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		LogLevel: "info",
		GLB: GLBConfig{
			UnknownChunks:   "reject",
			DuplicateChunks: "reject",
			RequireBIN:      true,
		},
		Skin:   SkinConfig{Tolerance: 1e-5},
		Check:  CheckConfig{Workers: runtime.NumCPU()},
		Output: OutputConfig{Color: ColorAuto},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/oxy-loupe/config.toml or the platform
// equivalent. It returns "" when no user config directory is known.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "oxy-loupe", "config.toml")
}

// Load reads the file at path over the defaults. A missing file, or an empty path,
// yields Default().
//
// Parameters:
//   - path: the TOML file
//
// Returns:
//   - Config: the validated configuration
//   - error: error if the file cannot be read, parsed, or fails validation
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %q: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes TOML over the defaults and validates the result. Unknown keys are errors.
func Parse(data []byte) (Config, error) {
	c := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	def := Default()
	c.LogLevel = common.Coalesce(strings.ToLower(c.LogLevel), def.LogLevel)
	c.GLB.UnknownChunks = common.Coalesce(strings.ToLower(c.GLB.UnknownChunks), def.GLB.UnknownChunks)
	c.GLB.DuplicateChunks = common.Coalesce(strings.ToLower(c.GLB.DuplicateChunks), def.GLB.DuplicateChunks)
	c.Output.Color = common.Coalesce(strings.ToLower(c.Output.Color), def.Output.Color)
	c.Check.Workers = common.Coalesce(c.Check.Workers, def.Check.Workers)
	c.Skin.Tolerance = common.Coalesce(c.Skin.Tolerance, def.Skin.Tolerance)

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks every enumerated and numeric value.
func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := c.ReaderOptions(); err != nil {
		return err
	}
	if c.Skin.Tolerance < 0 {
		return fmt.Errorf("%w: skin.tolerance %g is negative", ErrInvalid, c.Skin.Tolerance)
	}
	if c.Check.Workers < 0 {
		return fmt.Errorf("%w: check.workers %d is negative", ErrInvalid, c.Check.Workers)
	}
	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%w: output.color %q (want auto, always or never)", ErrInvalid, c.Output.Color)
	}
	return nil
}

// Level returns the slog level named by LogLevel.
func (c Config) Level() (slog.Level, error) {
	return ParseLevel(c.LogLevel)
}

// ParseLevel maps "debug", "info", "warn" and "error" to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%w: log level %q (want debug, info, warn or error)", ErrInvalid, s)
}

// ReaderOptions converts the [glb] table into container reader options.
//
// Returns:
//   - []glb.ReaderBuilderOption: the policies for glb.NewReader
//   - error: error wrapping ErrInvalid for an unknown policy name
func (c Config) ReaderOptions() ([]glb.ReaderBuilderOption, error) {
	var unknown glb.UnknownChunkPolicy
	switch c.GLB.UnknownChunks {
	case "reject":
		unknown = glb.UnknownChunkReject
	case "skip":
		unknown = glb.UnknownChunkSkip
	default:
		return nil, fmt.Errorf("%w: glb.unknown_chunks %q (want reject or skip)", ErrInvalid, c.GLB.UnknownChunks)
	}

	var duplicate glb.DuplicateChunkPolicy
	switch c.GLB.DuplicateChunks {
	case "reject":
		duplicate = glb.DuplicateChunkReject
	case "overwrite":
		duplicate = glb.DuplicateChunkOverwrite
	default:
		return nil, fmt.Errorf("%w: glb.duplicate_chunks %q (want reject or overwrite)", ErrInvalid, c.GLB.DuplicateChunks)
	}

	return []glb.ReaderBuilderOption{
		glb.WithUnknownChunkPolicy(unknown),
		glb.WithDuplicateChunkPolicy(duplicate),
		glb.WithRequireBIN(c.GLB.RequireBIN),
	}, nil
}
