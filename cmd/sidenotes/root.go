package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/marcus/sidenotes/internal/app"
	"github.com/marcus/sidenotes/internal/config"
	"github.com/marcus/sidenotes/internal/keymap"
	"github.com/marcus/sidenotes/internal/logging"
	"github.com/marcus/sidenotes/internal/notes"
	"github.com/marcus/sidenotes/internal/plugin"
	notesplugin "github.com/marcus/sidenotes/internal/plugins/notes"
	"github.com/marcus/sidenotes/internal/state"
)

var rootCmd = &cobra.Command{
	Use:           "sidenotes",
	Short:         "A terminal notes app with a rich-text editor",
	Long:          `Sidenotes keeps notes in a local SQLite database and edits them with headings, inline styles and auto-numbered lists.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to config file (default ~/.config/sidenotes/config.json)")
	rootCmd.PersistentFlags().String("db", "", "path to the notes database (overrides storage.path)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
}

// env is what every command needs: the config, where it came from and a
// logger.
type env struct {
	cfg        *config.Config
	configPath string
	logger     *slog.Logger
}

// loadEnv resolves the config path and loads the config.
func loadEnv(cmd *cobra.Command) (*env, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.ConfigPath()
	}
	path = config.ExpandPath(path)

	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		cfg.Storage.Path = config.ExpandPath(db)
	}
	debug, _ := cmd.Flags().GetBool("debug")
	return &env{
		cfg:        cfg,
		configPath: path,
		logger:     logging.NewStderr(logging.Level(debug)),
	}, nil
}

func (e *env) openStore() (*notes.Store, error) {
	path := e.cfg.DBPath(e.configPath)
	e.logger.Debug("opening store", "path", path, "driver", e.cfg.Storage.Driver)
	store, err := notes.NewStore(e.cfg.Storage.Driver, path)
	if err != nil {
		return nil, fmt.Errorf("open notes database %s: %w", path, err)
	}
	return store, nil
}

// runTUI runs the interactive app. The TUI owns the terminal, so it logs
// to a file next to the config.
func runTUI(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	dir := filepath.Dir(e.configPath)

	debug, _ := cmd.Flags().GetBool("debug")
	logger, closer, err := logging.OpenFile(dir, logging.Level(debug))
	if err != nil {
		return err
	}
	defer closer.Close()
	e.logger = logger

	// State is optional; defaults apply when it cannot be read
	if err := state.InitWithDir(dir); err != nil {
		logger.Warn("state load failed", "err", err)
	}

	store, err := e.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	km := keymap.NewRegistry()
	keymap.RegisterDefaults(km)
	km.ApplyOverrides(e.cfg.Keymap.Overrides)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	reloads, err := config.Watch(ctx, e.configPath, logger)
	if err != nil {
		logger.Warn("config watch disabled", "path", e.configPath, "err", err)
	}

	p := notesplugin.New()
	if err := p.Init(&plugin.Context{
		ConfigDir:  dir,
		ConfigPath: e.configPath,
		Config:     e.cfg,
		Store:      store,
		Keymap:     km,
		Logger:     logger,
	}); err != nil {
		return fmt.Errorf("init notes: %w", err)
	}

	model := app.New(p, km, app.Options{
		Config:     e.cfg,
		ConfigPath: e.configPath,
		LogPath:    filepath.Join(dir, logging.LogFile),
		Version:    effectiveVersion(Version),
		Logger:     logger,
		Reloads:    reloads,
	})
	logger.Info("starting", "version", effectiveVersion(Version))

	_, runErr := tea.NewProgram(model, tea.WithAltScreen()).Run()
	// Pending edits are written before the store closes
	p.Stop()
	if runErr != nil {
		return fmt.Errorf("run: %w", runErr)
	}
	return nil
}
