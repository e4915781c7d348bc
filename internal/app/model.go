package app

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/sidenotes/internal/config"
	"github.com/marcus/sidenotes/internal/keymap"
	"github.com/marcus/sidenotes/internal/plugin"
)

// ModalKind identifies an app-level modal with explicit priority ordering.
// Lower values = higher priority (checked first for rendering and input routing).
type ModalKind int

const (
	ModalNone        ModalKind = iota // No modal open
	ModalHelp                         // Help overlay
	ModalDiagnostics                  // Diagnostics/version info
)

// activeModal returns the highest-priority open modal.
func (m *Model) activeModal() ModalKind {
	switch {
	case m.showHelp:
		return ModalHelp
	case m.showDiagnostics:
		return ModalDiagnostics
	default:
		return ModalNone
	}
}

// hasModal returns true if any app-level modal is open.
func (m *Model) hasModal() bool {
	return m.activeModal() != ModalNone
}

// Options configures a Model.
type Options struct {
	Config     *config.Config
	ConfigPath string
	LogPath    string
	Version    string
	Logger     *slog.Logger

	// Reloads delivers config file changes; nil disables live reload.
	Reloads <-chan config.Reload
}

// Model is the root Bubble Tea model hosting the notes plugin.
type Model struct {
	cfg    *config.Config
	opts   Options
	logger *slog.Logger

	plugin plugin.Plugin

	// Keymap
	keymap        *keymap.Registry
	activeContext string

	// UI state
	width, height   int
	showHelp        bool
	showDiagnostics bool
	showFooter      bool

	// Status/toast messages
	statusMsg     string
	statusExpiry  time.Time
	statusIsError bool

	// Ready state
	ready bool
}

// New creates a new application model around p.
func New(p plugin.Plugin, km *keymap.Registry, opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	p.SetFocused(true)
	return Model{
		cfg:           cfg,
		opts:          opts,
		logger:        logger,
		plugin:        p,
		keymap:        km,
		activeContext: p.FocusContext(),
		showFooter:    cfg.UI.ShowFooter,
	}
}

// Init starts the plugin and the housekeeping loops.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		m.plugin.Start(),
		waitForReload(m.opts.Reloads),
	)
}

// TickMsg drives toast expiry.
type TickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// ConfigFileMsg carries a reload from the config watcher.
type ConfigFileMsg struct {
	Reload config.Reload
}

// waitForReload blocks on the next config reload. It returns nil when
// reloading is disabled, and no message once the channel closes.
func waitForReload(ch <-chan config.Reload) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return nil
		}
		return ConfigFileMsg{Reload: r}
	}
}

// ShowToast displays a status message for duration.
func (m *Model) ShowToast(msg string, duration time.Duration, isError bool) {
	m.statusMsg = msg
	m.statusExpiry = time.Now().Add(duration)
	m.statusIsError = isError
}

// ClearToast clears the status message once it expired.
func (m *Model) ClearToast() {
	if m.statusMsg != "" && time.Now().After(m.statusExpiry) {
		m.statusMsg = ""
		m.statusIsError = false
	}
}

// applyConfig swaps in a reloaded configuration.
func (m *Model) applyConfig(cfg *config.Config) tea.Cmd {
	m.cfg = cfg
	m.showFooter = cfg.UI.ShowFooter
	m.keymap.ApplyOverrides(cfg.Keymap.Overrides)
	m.logger.Info("config reloaded", "overrides", len(cfg.Keymap.Overrides))
	_, cmd := m.plugin.Update(plugin.ConfigReloadedMsg{Config: cfg})
	return cmd
}
