package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// State holds persistent user preferences and the last editing position.
type State struct {
	ActiveNoteID     string `json:"activeNoteId,omitempty"`
	SidebarCollapsed bool   `json:"sidebarCollapsed,omitempty"`
	Background       string `json:"background,omitempty"` // empty = use config

	// Sidebar width in columns (0 = use config default)
	SidebarWidth int `json:"sidebarWidth,omitempty"`
}

var (
	current *State
	mu      sync.RWMutex
	path    string
)

// Init loads state from the default location.
func Init() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	return InitWithDir(filepath.Join(home, ".config", "sidenotes"))
}

// InitWithDir loads state from a specified directory.
// This is primarily for testing to avoid reading real user state.
func InitWithDir(dir string) error {
	path = filepath.Join(dir, "state.json")
	return Load()
}

// Load reads state from disk.
func Load() error {
	mu.Lock()
	defer mu.Unlock()

	current = &State{}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil // no state file yet, use defaults
	}
	if err != nil {
		return err
	}

	return json.Unmarshal(data, current)
}

// Save writes state to disk.
func Save() error {
	mu.RLock()
	defer mu.RUnlock()

	if current == nil || path == "" {
		return nil
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// update applies fn to the current state under the lock and saves.
func update(fn func(s *State)) error {
	mu.Lock()
	if current == nil {
		current = &State{}
	}
	fn(current)
	mu.Unlock()
	return Save()
}

// GetActiveNoteID returns the note that was open when the app last exited.
func GetActiveNoteID() string {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return ""
	}
	return current.ActiveNoteID
}

// SetActiveNoteID saves the open note.
func SetActiveNoteID(id string) error {
	return update(func(s *State) { s.ActiveNoteID = id })
}

// GetSidebarCollapsed returns whether the note list is collapsed.
func GetSidebarCollapsed() bool {
	mu.RLock()
	defer mu.RUnlock()
	return current != nil && current.SidebarCollapsed
}

// SetSidebarCollapsed saves the note list collapse state.
func SetSidebarCollapsed(collapsed bool) error {
	return update(func(s *State) { s.SidebarCollapsed = collapsed })
}

// GetBackground returns the saved background variant, or "" when unset.
func GetBackground() string {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return ""
	}
	return current.Background
}

// SetBackground saves the background variant.
func SetBackground(name string) error {
	return update(func(s *State) { s.Background = name })
}

// GetSidebarWidth returns the saved sidebar width.
// Returns 0 if no preference is saved (use default).
func GetSidebarWidth() int {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return 0
	}
	return current.SidebarWidth
}

// SetSidebarWidth saves the sidebar width.
func SetSidebarWidth(width int) error {
	return update(func(s *State) { s.SidebarWidth = width })
}
