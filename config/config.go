// Package config loads the overlay's TOML configuration file.
//
// A configuration file looks like:
//
//	[font]
//	base_size = 18.0
//	oversample_horizontal = 3
//	oversample_vertical = 1
//	path = ""
//	language = "Japanese"
//
//	[paths]
//	fonts = "fonts"
//
// Missing keys keep their Default values.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ErrInvalid is wrapped by Validate errors.
var ErrInvalid = errors.New("config: invalid configuration")

// MaxOversample is the largest accepted oversampling factor.
const MaxOversample = 8

// FontOptions configures the UI font.
type FontOptions struct {
	// BaseSize is the font size in pixels at the 1920x1080 reference
	// resolution.
	BaseSize float32 `toml:"base_size"`

	OversampleHorizontal int `toml:"oversample_horizontal"`
	OversampleVertical   int `toml:"oversample_vertical"`

	// Path is an optional custom font file, absolute or relative to the
	// fonts directory.
	Path string `toml:"path"`

	// Language optionally names the extra glyphs to merge: ChineseFull,
	// ChineseSimplifiedCommon, Japanese, Korean, Cyrillic, Thai or
	// Vietnamese. Empty selects from the system locale.
	Language string `toml:"language"`
}

// Paths locates the overlay's files.
type Paths struct {
	// Fonts is the directory bundled font files are read from.
	Fonts string `toml:"fonts"`
}

// Config is the whole configuration file.
type Config struct {
	Font  FontOptions `toml:"font"`
	Paths Paths       `toml:"paths"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Font: FontOptions{
			BaseSize:             18,
			OversampleHorizontal: 3,
			OversampleVertical:   1,
		},
		Paths: Paths{
			Fonts: "fonts",
		},
	}
}

// Load reads path over Default and validates the result. A relative fonts
// directory is resolved against the directory holding the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if cfg.Paths.Fonts != "" && !filepath.IsAbs(cfg.Paths.Fonts) {
		cfg.Paths.Fonts = filepath.Join(filepath.Dir(path), cfg.Paths.Fonts)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Write stores cfg as TOML at path, creating parent directories.
func Write(path string, cfg Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	return c.Font.Validate()
}

// Validate checks value ranges.
func (f *FontOptions) Validate() error {
	if f.BaseSize <= 0 {
		return fmt.Errorf("%w: font base_size %v must be positive", ErrInvalid, f.BaseSize)
	}
	for _, o := range []struct {
		name string
		v    int
	}{
		{"oversample_horizontal", f.OversampleHorizontal},
		{"oversample_vertical", f.OversampleVertical},
	} {
		if o.v < 1 || o.v > MaxOversample {
			return fmt.Errorf("%w: font %s %d out of range [1, %d]", ErrInvalid, o.name, o.v, MaxOversample)
		}
	}
	return nil
}
