package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// saveConfig is the marshaling intermediary that uses string durations.
type saveConfig struct {
	Storage StorageConfig `json:"storage" yaml:"storage"`
	Editor  rawEditor     `json:"editor" yaml:"editor"`
	Keymap  KeymapConfig  `json:"keymap" yaml:"keymap"`
	UI      rawUI         `json:"ui" yaml:"ui"`
}

// toSaveConfig converts Config to the serializable format.
func toSaveConfig(cfg *Config) saveConfig {
	return saveConfig{
		Storage: cfg.Storage,
		Editor: rawEditor{
			AutoSaveDelay: cfg.Editor.AutoSaveDelay.String(),
			FrameDelay:    cfg.Editor.FrameDelay.String(),
			SettleDelay:   cfg.Editor.SettleDelay.String(),
			IndentWidth:   cfg.Editor.IndentWidth,
		},
		Keymap: cfg.Keymap,
		UI: rawUI{
			ShowFooter:   &cfg.UI.ShowFooter,
			Background:   cfg.UI.Background,
			SidebarWidth: cfg.UI.SidebarWidth,
		},
	}
}

// SaveTo writes the config to path, as YAML when the extension says so.
func SaveTo(path string, cfg *Config) error {
	if path == "" {
		return fmt.Errorf("no config path")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	sc := toSaveConfig(cfg)
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(sc)
	} else {
		data, err = json.MarshalIndent(sc, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SaveBackground updates only the background variant in the config at path.
func SaveBackground(path, background string) error {
	if path == "" {
		path = ConfigPath()
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		return err
	}
	cfg.UI.Background = background
	return SaveTo(path, cfg)
}
