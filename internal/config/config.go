package config

import (
	"fmt"
	"slices"
	"time"
)

// Config is the root configuration structure.
type Config struct {
	Storage StorageConfig `json:"storage" yaml:"storage"`
	Editor  EditorConfig  `json:"editor" yaml:"editor"`
	Keymap  KeymapConfig  `json:"keymap" yaml:"keymap"`
	UI      UIConfig      `json:"ui" yaml:"ui"`
}

// StorageConfig selects the notes database.
type StorageConfig struct {
	Driver string `json:"driver" yaml:"driver"` // "sqlite3" (cgo) or "sqlite" (pure Go)
	Path   string `json:"path" yaml:"path"`     // supports ~ expansion; empty = <config dir>/notes.db
}

// EditorConfig tunes the editing engine.
type EditorConfig struct {
	AutoSaveDelay time.Duration `json:"autoSaveDelay" yaml:"autoSaveDelay"`
	// FrameDelay is the selection restore delay after style toggles.
	FrameDelay time.Duration `json:"frameDelay" yaml:"frameDelay"`
	// SettleDelay is the selection restore delay after list rewrites.
	SettleDelay time.Duration `json:"settleDelay" yaml:"settleDelay"`
	// IndentWidth is fixed at 4; other values are rejected.
	IndentWidth int `json:"indentWidth" yaml:"indentWidth"`
}

// KeymapConfig holds key binding overrides.
type KeymapConfig struct {
	Overrides map[string]string `json:"overrides" yaml:"overrides"`
}

// UIConfig configures UI appearance.
type UIConfig struct {
	ShowFooter   bool   `json:"showFooter" yaml:"showFooter"`
	Background   string `json:"background" yaml:"background"`
	SidebarWidth int    `json:"sidebarWidth" yaml:"sidebarWidth"`
}

// Backgrounds lists the background variants in cycle order.
var Backgrounds = []string{"default", "light", "ocean", "aurora", "sunset"}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver: "sqlite3",
		},
		Editor: EditorConfig{
			AutoSaveDelay: 2 * time.Second,
			FrameDelay:    16 * time.Millisecond,
			SettleDelay:   25 * time.Millisecond,
			IndentWidth:   4,
		},
		Keymap: KeymapConfig{
			Overrides: make(map[string]string),
		},
		UI: UIConfig{
			ShowFooter:   true,
			Background:   "default",
			SidebarWidth: 32,
		},
	}
}

// Validate checks the configuration for errors. Out-of-range durations
// fall back to their defaults.
func (c *Config) Validate() error {
	def := Default()
	if c.Editor.AutoSaveDelay <= 0 {
		c.Editor.AutoSaveDelay = def.Editor.AutoSaveDelay
	}
	if c.Editor.FrameDelay <= 0 {
		c.Editor.FrameDelay = def.Editor.FrameDelay
	}
	if c.Editor.SettleDelay <= 0 {
		c.Editor.SettleDelay = def.Editor.SettleDelay
	}
	if c.Editor.IndentWidth == 0 {
		c.Editor.IndentWidth = def.Editor.IndentWidth
	}
	if c.Editor.IndentWidth != 4 {
		return fmt.Errorf("editor.indentWidth must be 4, got %d", c.Editor.IndentWidth)
	}
	switch c.Storage.Driver {
	case "":
		c.Storage.Driver = def.Storage.Driver
	case "sqlite3", "sqlite":
	default:
		return fmt.Errorf("storage.driver %q: want sqlite3 or sqlite", c.Storage.Driver)
	}
	if !slices.Contains(Backgrounds, c.UI.Background) {
		c.UI.Background = def.UI.Background
	}
	if c.UI.SidebarWidth < 16 {
		c.UI.SidebarWidth = def.UI.SidebarWidth
	}
	return nil
}
