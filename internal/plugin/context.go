package plugin

import (
	"log/slog"

	"github.com/marcus/sidenotes/internal/config"
	"github.com/marcus/sidenotes/internal/keymap"
	"github.com/marcus/sidenotes/internal/notes"
)

// Context provides shared resources to plugins.
type Context struct {
	ConfigDir  string
	ConfigPath string
	Config     *config.Config
	Store      *notes.Store
	Keymap     *keymap.Registry
	Logger     *slog.Logger
	Epoch      uint64 // Incremented when the store is swapped; async results carry it
}
