package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Theme is the persisted color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme accepts "light" or "dark".
func ParseTheme(s string) (Theme, error) {
	switch t := Theme(s); t {
	case ThemeLight, ThemeDark:
		return t, nil
	default:
		return "", fmt.Errorf("invalid theme %q (valid: light, dark)", s)
	}
}

// Matte returns the background color previews are flattened onto.
func (t Theme) Matte() color.NRGBA {
	if t == ThemeDark {
		return color.NRGBA{R: 0x11, G: 0x18, B: 0x27, A: 0xff}
	}
	return color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
}

// Preferences is user state that survives restarts.
type Preferences struct {
	Theme Theme `yaml:"theme"`
}

// DefaultPreferencesPath returns prefs.yaml next to the default config.
func DefaultPreferencesPath() string {
	return filepath.Join(configDir(), "prefs.yaml")
}

// LoadPreferences reads preferences from path. A missing file or an
// unknown theme yields the light theme.
func LoadPreferences(path string) (*Preferences, error) {
	p := &Preferences{Theme: ThemeLight}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse preferences: %w", err)
	}
	if _, err := ParseTheme(string(p.Theme)); err != nil {
		p.Theme = ThemeLight
	}
	return p, nil
}

// Save writes preferences to path.
func (p *Preferences) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // preferences are not secret
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}

// Toggle switches between light and dark and returns the new theme.
func (p *Preferences) Toggle() Theme {
	if p.Theme == ThemeDark {
		p.Theme = ThemeLight
	} else {
		p.Theme = ThemeDark
	}
	return p.Theme
}
