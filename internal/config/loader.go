package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configDir  = ".config/sidenotes"
	configFile = "config.json"
)

// rawConfig is the unmarshaling intermediary. Durations are strings and
// booleans are pointers so absent keys keep their defaults.
type rawConfig struct {
	Storage StorageConfig `json:"storage" yaml:"storage"`
	Editor  rawEditor     `json:"editor" yaml:"editor"`
	Keymap  KeymapConfig  `json:"keymap" yaml:"keymap"`
	UI      rawUI         `json:"ui" yaml:"ui"`
}

type rawEditor struct {
	AutoSaveDelay string `json:"autoSaveDelay" yaml:"autoSaveDelay"`
	FrameDelay    string `json:"frameDelay" yaml:"frameDelay"`
	SettleDelay   string `json:"settleDelay" yaml:"settleDelay"`
	IndentWidth   int    `json:"indentWidth" yaml:"indentWidth"`
}

type rawUI struct {
	ShowFooter   *bool  `json:"showFooter" yaml:"showFooter"`
	Background   string `json:"background" yaml:"background"`
	SidebarWidth int    `json:"sidebarWidth" yaml:"sidebarWidth"`
}

// Load loads configuration from the default location.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from a specific path. Files ending in .yaml
// or .yml are read as YAML, everything else as JSON.
// If path is empty, uses ~/.config/sidenotes/config.json
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = ConfigPath()
		if path == "" {
			return cfg, nil // Return defaults without a home directory
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	var raw rawConfig
	if isYAML(path) {
		err = yaml.Unmarshal(data, &raw)
	} else {
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := mergeConfig(cfg, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.Storage.Path = ExpandPath(cfg.Storage.Path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func parseDuration(field, s string, dst *time.Duration) error {
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	*dst = d
	return nil
}

// mergeConfig merges raw config values into the config.
func mergeConfig(cfg *Config, raw *rawConfig) error {
	// Storage
	if raw.Storage.Driver != "" {
		cfg.Storage.Driver = raw.Storage.Driver
	}
	if raw.Storage.Path != "" {
		cfg.Storage.Path = raw.Storage.Path
	}

	// Editor
	if err := parseDuration("editor.autoSaveDelay", raw.Editor.AutoSaveDelay, &cfg.Editor.AutoSaveDelay); err != nil {
		return err
	}
	if err := parseDuration("editor.frameDelay", raw.Editor.FrameDelay, &cfg.Editor.FrameDelay); err != nil {
		return err
	}
	if err := parseDuration("editor.settleDelay", raw.Editor.SettleDelay, &cfg.Editor.SettleDelay); err != nil {
		return err
	}
	if raw.Editor.IndentWidth != 0 {
		cfg.Editor.IndentWidth = raw.Editor.IndentWidth
	}

	// Keymap
	for k, v := range raw.Keymap.Overrides {
		cfg.Keymap.Overrides[k] = v
	}

	// UI
	if raw.UI.ShowFooter != nil {
		cfg.UI.ShowFooter = *raw.UI.ShowFooter
	}
	if raw.UI.Background != "" {
		cfg.UI.Background = raw.UI.Background
	}
	if raw.UI.SidebarWidth != 0 {
		cfg.UI.SidebarWidth = raw.UI.SidebarWidth
	}
	return nil
}

// ExpandPath expands ~ to home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Dir returns the configuration directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDir)
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, configFile)
}

// DBPath returns the notes database path: storage.path when set, else
// notes.db next to the config file at configPath.
func (c *Config) DBPath(configPath string) string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	if configPath == "" {
		configPath = ConfigPath()
	}
	return filepath.Join(filepath.Dir(configPath), "notes.db")
}
