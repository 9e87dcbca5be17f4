// Package config handles global magpie configuration and per-project
// settings. The global file is TOML under the user's config directory; each
// browsable database lives in a project directory holding a magpie.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the global magpie configuration.
type Config struct {
	// DefaultProject is the name of the default project (from Projects).
	DefaultProject string `toml:"default_project"`

	// Projects maps project names to directories.
	Projects map[string]string `toml:"projects"`

	// Editor is the editor used to open report files (defaults to $EDITOR).
	Editor string `toml:"editor"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output and markdown
	// rendering: ANSI color codes ("0" to "255") or hex ("#RRGGBB").
	Accent string `toml:"accent"`

	// CodeTheme sets the Glamour/Chroma theme for rendered code blocks.
	CodeTheme string `toml:"code_theme"`
}

// GetProjectDir returns the directory of a named project. An empty name
// means the default project.
func (c *Config) GetProjectDir(name string) (string, error) {
	if name == "" {
		name = c.DefaultProject
	}
	if name == "" {
		return "", fmt.Errorf("no default project configured")
	}
	if c.Projects != nil {
		if dir, ok := c.Projects[name]; ok {
			return dir, nil
		}
	}
	return "", fmt.Errorf("project '%s' not found in config", name)
}

// GetEditor returns the editor to use, falling back to $EDITOR.
func (c *Config) GetEditor() string {
	if c.Editor != "" {
		return c.Editor
	}
	return os.Getenv("EDITOR")
}

// Load loads the configuration from the default location. A missing file
// loads as an empty config.
func Load() (*Config, error) {
	path := DefaultPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &config, nil
}

// DefaultPath returns the default config file path. It prefers the
// XDG-style ~/.config/magpie/config.toml, then the OS config directory.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "magpie", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "magpie", "config.toml")
	}
	return filepath.Join(".", "config.toml")
}

// CreateDefault creates a commented default config file if none exists.
func CreateDefault() (string, error) {
	path := DefaultPath()
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	defaultConfig := `# magpie configuration

# Default project name (must exist in [projects] below)
# default_project = "shop"

# Named projects
# [projects]
# shop = "/path/to/shop-browser"

# Editor for opening report files (defaults to $EDITOR)
# editor = "code"

# Optional UI accent color for headers/links in terminal output.
# Supports ANSI color codes (0-255) or hex (#RRGGBB).
# [ui]
# accent = "39"
# code_theme = "monokai"
`

	if err := os.WriteFile(path, []byte(defaultConfig), 0644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}
