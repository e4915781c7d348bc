package keymap

// Command IDs shared between bindings and the handlers that run them.
const (
	CmdQuit            = "quit"
	CmdToggleFooter    = "toggle-footer"
	CmdHelp            = "toggle-help"
	CmdDiagnostics     = "toggle-diagnostics"
	CmdSearch          = "search"
	CmdNewNote         = "new-note"
	CmdDeleteNote      = "delete-note"
	CmdUndo            = "undo"
	CmdTogglePin       = "toggle-pin"
	CmdYankContent     = "yank-content"
	CmdYankTitle       = "yank-title"
	CmdToggleSidebar   = "toggle-sidebar"
	CmdCycleBackground = "cycle-background"
	CmdPreview         = "preview"
	CmdCursorUp        = "cursor-up"
	CmdCursorDown      = "cursor-down"
	CmdCursorTop       = "cursor-top"
	CmdCursorBottom    = "cursor-bottom"
	CmdOpen            = "open"
	CmdEditTitle       = "edit-title"
	CmdBack            = "back"
	CmdSave            = "save"
	CmdLineBreak       = "line-break"
	CmdSelectAll       = "select-all"
	CmdRefresh         = "refresh"

	// Formatting commands carry the richtext command name after the prefix.
	FormatPrefix = "format:"
)

// DefaultBindings returns the default key bindings.
func DefaultBindings() []Binding {
	return []Binding{
		// Global bindings
		{Key: "ctrl+c", Command: CmdQuit, Context: "global"},
		{Key: "ctrl+h", Command: CmdToggleFooter, Context: "global"},
		{Key: "?", Command: CmdHelp, Context: "global"},
		{Key: "!", Command: CmdDiagnostics, Context: "global"},

		// Sidebar
		{Key: "q", Command: CmdQuit, Context: "notes-list"},
		{Key: "/", Command: CmdSearch, Context: "notes-list"},
		{Key: "n", Command: CmdNewNote, Context: "notes-list"},
		{Key: "d", Command: CmdDeleteNote, Context: "notes-list"},
		{Key: "u", Command: CmdUndo, Context: "notes-list"},
		{Key: "p", Command: CmdTogglePin, Context: "notes-list"},
		{Key: "y", Command: CmdYankContent, Context: "notes-list"},
		{Key: "Y", Command: CmdYankTitle, Context: "notes-list"},
		{Key: "\\", Command: CmdToggleSidebar, Context: "notes-list"},
		{Key: "b", Command: CmdCycleBackground, Context: "notes-list"},
		{Key: "v", Command: CmdPreview, Context: "notes-list"},
		{Key: "t", Command: CmdEditTitle, Context: "notes-list"},
		{Key: "r", Command: CmdRefresh, Context: "notes-list"},
		{Key: "j", Command: CmdCursorDown, Context: "notes-list"},
		{Key: "down", Command: CmdCursorDown, Context: "notes-list"},
		{Key: "k", Command: CmdCursorUp, Context: "notes-list"},
		{Key: "up", Command: CmdCursorUp, Context: "notes-list"},
		{Key: "g", Command: CmdCursorTop, Context: "notes-list"},
		{Key: "G", Command: CmdCursorBottom, Context: "notes-list"},
		{Key: "enter", Command: CmdOpen, Context: "notes-list"},
		{Key: "tab", Command: CmdOpen, Context: "notes-list"},

		// Editor
		{Key: "esc", Command: CmdBack, Context: "notes-editor"},
		{Key: "ctrl+s", Command: CmdSave, Context: "notes-editor"},
		{Key: "alt+enter", Command: CmdLineBreak, Context: "notes-editor"},
		{Key: "ctrl+a", Command: CmdSelectAll, Context: "notes-editor"},
		{Key: "alt+t", Command: CmdEditTitle, Context: "notes-editor"},
		{Key: "ctrl+\\", Command: CmdToggleSidebar, Context: "notes-editor"},
		{Key: "alt+1", Command: FormatPrefix + "h1", Context: "notes-editor"},
		{Key: "alt+2", Command: FormatPrefix + "h2", Context: "notes-editor"},
		{Key: "alt+3", Command: FormatPrefix + "h3", Context: "notes-editor"},
		{Key: "alt+0", Command: FormatPrefix + "paragraph", Context: "notes-editor"},
		{Key: "alt+b", Command: FormatPrefix + "bold", Context: "notes-editor"},
		{Key: "alt+i", Command: FormatPrefix + "italic", Context: "notes-editor"},
		{Key: "alt+u", Command: FormatPrefix + "underline", Context: "notes-editor"},
		{Key: "alt+s", Command: FormatPrefix + "strikethrough", Context: "notes-editor"},
		{Key: "alt+8", Command: FormatPrefix + "bullets", Context: "notes-editor"},
		{Key: "alt+7", Command: FormatPrefix + "numbers", Context: "notes-editor"},

		// Title input
		{Key: "esc", Command: CmdBack, Context: "notes-title"},
		{Key: "enter", Command: CmdOpen, Context: "notes-title"},

		// Search input
		{Key: "esc", Command: CmdBack, Context: "notes-search"},
		{Key: "enter", Command: CmdOpen, Context: "notes-search"},
		{Key: "down", Command: CmdCursorDown, Context: "notes-search"},
		{Key: "ctrl+n", Command: CmdCursorDown, Context: "notes-search"},
		{Key: "up", Command: CmdCursorUp, Context: "notes-search"},
		{Key: "ctrl+p", Command: CmdCursorUp, Context: "notes-search"},

		// Preview
		{Key: "esc", Command: CmdBack, Context: "notes-preview"},
		{Key: "v", Command: CmdBack, Context: "notes-preview"},
		{Key: "q", Command: CmdBack, Context: "notes-preview"},
		{Key: "j", Command: CmdCursorDown, Context: "notes-preview"},
		{Key: "down", Command: CmdCursorDown, Context: "notes-preview"},
		{Key: "k", Command: CmdCursorUp, Context: "notes-preview"},
		{Key: "up", Command: CmdCursorUp, Context: "notes-preview"},

		// Delete confirmation
		{Key: "y", Command: "confirm", Context: "notes-delete-modal"},
		{Key: "esc", Command: "cancel", Context: "notes-delete-modal"},
		{Key: "n", Command: "cancel", Context: "notes-delete-modal"},
	}
}

// RegisterDefaults registers all default bindings with the registry.
func RegisterDefaults(r *Registry) {
	for _, b := range DefaultBindings() {
		r.RegisterBinding(b)
	}
}
