// Package config loads roundimg CLI settings and persisted preferences.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all roundimg CLI configuration.
type Config struct {
	// Radius is the default corner radius in pixels.
	Radius int `yaml:"radius"`

	// PreviewMaxSize bounds the longest preview side.
	PreviewMaxSize int `yaml:"preview_max_size"`

	// OutputDir receives exported files.
	OutputDir string `yaml:"output_dir"`

	// Prefix starts every generated filename.
	Prefix string `yaml:"prefix"`

	// MaxUploadBytes rejects larger input files.
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// Filter names the resampler: catmull-rom, bilinear or lanczos.
	Filter string `yaml:"filter"`

	// AntiAlias enables soft corner edges.
	AntiAlias bool `yaml:"anti_alias"`

	Encoding EncodingConfig `yaml:"encoding"`
	Watch    WatchConfig    `yaml:"watch"`
}

// EncodingConfig selects output encoders.
type EncodingConfig struct {
	Primary  string `yaml:"primary"`  // png, tiff
	Fallback string `yaml:"fallback"` // png, tiff, or empty for none
}

// WatchConfig configures directory watching.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Radius:         50,
		PreviewMaxSize: 400,
		OutputDir:      ".",
		Prefix:         "export",
		MaxUploadBytes: 10 << 20,
		Filter:         "catmull-rom",
		AntiAlias:      false,
		Encoding: EncodingConfig{
			Primary:  "png",
			Fallback: "tiff",
		},
		Watch: WatchConfig{
			Debounce: "300ms",
		},
	}
}

// DefaultPath returns the config file location under the user config
// directory, falling back to the working directory.
func DefaultPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

func configDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "roundimg")
	}
	return ".roundimg"
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // config is not secret
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("ROUNDIMG_RADIUS"); v != "" {
		r, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ROUNDIMG_RADIUS %q: %w", v, err)
		}
		c.Radius = r
	}
	if v := os.Getenv("ROUNDIMG_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("ROUNDIMG_FILTER"); v != "" {
		c.Filter = v
	}
	return nil
}

// GetDebounce returns the watch debounce as a duration.
func (c *Config) GetDebounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d <= 0 {
		return 300 * time.Millisecond
	}
	return d
}

// ValidFilters lists the accepted Filter values.
var ValidFilters = []string{"catmull-rom", "bilinear", "lanczos"}

// ValidFormats lists the accepted encoder names.
var ValidFormats = []string{"png", "tiff"}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Radius < 0 {
		return fmt.Errorf("radius must be non-negative, got %d", c.Radius)
	}
	if c.PreviewMaxSize <= 0 {
		return fmt.Errorf("preview_max_size must be positive, got %d", c.PreviewMaxSize)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive, got %d", c.MaxUploadBytes)
	}
	if c.OutputDir == "" {
		return errors.New("output_dir is required")
	}
	if !contains(ValidFilters, c.Filter) {
		return fmt.Errorf("invalid filter %q (valid: %v)", c.Filter, ValidFilters)
	}
	if !contains(ValidFormats, c.Encoding.Primary) {
		return fmt.Errorf("invalid encoding.primary %q (valid: %v)", c.Encoding.Primary, ValidFormats)
	}
	if c.Encoding.Fallback != "" && !contains(ValidFormats, c.Encoding.Fallback) {
		return fmt.Errorf("invalid encoding.fallback %q (valid: %v)", c.Encoding.Fallback, ValidFormats)
	}
	if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
		return fmt.Errorf("invalid watch.debounce %q: %w", c.Watch.Debounce, err)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
