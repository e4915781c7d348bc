package notes

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/sidenotes/internal/autosave"
	"github.com/marcus/sidenotes/internal/config"
	"github.com/marcus/sidenotes/internal/keymap"
	"github.com/marcus/sidenotes/internal/msg"
	"github.com/marcus/sidenotes/internal/notes"
	"github.com/marcus/sidenotes/internal/plugin"
	"github.com/marcus/sidenotes/internal/richtext"
	"github.com/marcus/sidenotes/internal/state"
	"github.com/marcus/sidenotes/internal/styles"
	"github.com/marcus/sidenotes/internal/ui"
)

const (
	pluginID   = "notes"
	pluginName = "Notes"

	// Pane layout
	dividerWidth     = 1
	minSidebarWidth  = 16
	headerHeight     = 3 // title row, toolbar row, rule
	clockInterval    = 30 * time.Second
	placeholderBlank = "Select a note to start writing"
)

// FocusPane represents which pane is active.
type FocusPane int

const (
	PaneList FocusPane = iota
	PaneTitle
	PaneEditor
)

// Plugin implements the notes plugin.
type Plugin struct {
	ctx     *plugin.Context
	focused bool
	store   *notes.Store
	now     func() time.Time

	// View dimensions
	width  int
	height int

	// Pane state
	activePane   FocusPane
	collapsed    bool
	sidebarWidth int

	// Note list state
	notes     []notes.Note
	cursor    int
	scrollOff int
	loading   bool
	loadErr   error

	// Search state
	searchMode  bool
	searchInput textinput.Model

	// Bound note state
	active       *notes.Note
	titleInput   textinput.Model
	editor       *richtext.Editor
	host         *richtext.DocumentHost
	editorScroll int
	titleSaver   *autosave.Debouncer
	contentSaver *autosave.Debouncer
	saving       int
	lastSaved    time.Time

	// Open the note with this ID once the list reloads
	pendingOpenID string

	// Preview state
	previewMode   bool
	previewLines  []string
	previewScroll int

	// Delete confirmation
	deleteDialog *ui.ConfirmDialog
	deleteTarget *notes.Note

	// Undo state
	undoStack []UndoAction

	background string
}

// UndoAction represents an undoable delete.
type UndoAction struct {
	NoteID string
	Title  string // For toast message
}

// New creates a new Notes plugin.
func New() *Plugin {
	return &Plugin{now: time.Now}
}

// ID returns the plugin identifier.
func (p *Plugin) ID() string { return pluginID }

// Name returns the plugin display name.
func (p *Plugin) Name() string { return pluginName }

// Init initializes the plugin with context.
func (p *Plugin) Init(ctx *plugin.Context) error {
	p.ctx = ctx
	p.store = ctx.Store
	if p.now == nil {
		p.now = time.Now
	}
	if p.ctx.Keymap == nil {
		p.ctx.Keymap = keymap.NewRegistry()
		keymap.RegisterDefaults(p.ctx.Keymap)
	}
	cfg := p.config()

	p.notes = nil
	p.cursor = 0
	p.scrollOff = 0
	p.activePane = PaneList
	p.searchMode = false
	p.previewMode = false
	p.deleteDialog = nil
	p.undoStack = nil

	p.collapsed = state.GetSidebarCollapsed()
	p.sidebarWidth = cfg.UI.SidebarWidth
	if w := state.GetSidebarWidth(); w >= minSidebarWidth {
		p.sidebarWidth = w
	}

	p.background = state.GetBackground()
	if p.background == "" {
		p.background = cfg.UI.Background
	}
	styles.ApplyTheme(p.background)

	si := textinput.New()
	si.Prompt = "/ "
	si.Placeholder = "Search notes..."
	si.CharLimit = 200
	p.searchInput = si

	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = notes.DefaultTitle
	ti.CharLimit = 200
	p.titleInput = ti

	p.editor = richtext.New(
		richtext.WithLogger(ctx.Logger),
		richtext.WithTiming(richtext.Timing{Frame: cfg.Editor.FrameDelay, Settle: cfg.Editor.SettleDelay}),
	)
	p.titleSaver = autosave.NewDebouncer(cfg.Editor.AutoSaveDelay, "")
	p.contentSaver = autosave.NewDebouncer(cfg.Editor.AutoSaveDelay, "")
	p.active = nil
	p.host = nil

	if p.store == nil {
		ctx.Logger.Debug("notes: no store configured")
	}
	return nil
}

func (p *Plugin) config() *config.Config {
	if p.ctx == nil || p.ctx.Config == nil {
		return config.Default()
	}
	return p.ctx.Config
}

// Start begins plugin operation.
func (p *Plugin) Start() tea.Cmd {
	if p.store == nil {
		return nil
	}
	p.pendingOpenID = state.GetActiveNoteID()
	return tea.Batch(p.loadNotes(true), clockTick())
}

// Stop flushes unsaved edits synchronously.
func (p *Plugin) Stop() {
	if p.store == nil || p.active == nil {
		return
	}
	id := p.active.ID
	if v, ok := p.titleSaver.Flush(); ok {
		if _, err := p.store.UpdateTitle(id, v); err != nil {
			p.ctx.Logger.Error("notes: final title save failed", "id", id, "err", err)
		}
	}
	if v, ok := p.contentSaver.Flush(); ok {
		if _, err := p.store.UpdateContent(id, v); err != nil {
			p.ctx.Logger.Error("notes: final content save failed", "id", id, "err", err)
		}
	}
}

func clockTick() tea.Cmd {
	return tea.Tick(clockInterval, func(time.Time) tea.Msg { return ClockTickMsg{} })
}

// Update handles messages.
func (p *Plugin) Update(m tea.Msg) (plugin.Plugin, tea.Cmd) {
	switch m := m.(type) {
	case tea.WindowSizeMsg:
		p.width = m.Width
		p.height = m.Height

	case NotesLoadedMsg:
		if plugin.IsStale(p.ctx, m) {
			return p, nil
		}
		p.loading = false
		if m.Err != nil {
			p.loadErr = m.Err
			p.ctx.Logger.Error("notes: load failed", "err", m.Err)
			return p, nil
		}
		p.loadErr = nil
		p.notes = m.Notes
		return p, p.afterLoad()

	case NoteCreatedMsg:
		if plugin.IsStale(p.ctx, m) {
			return p, nil
		}
		if m.Err != nil {
			p.ctx.Logger.Error("notes: create failed", "err", m.Err)
			return p, msg.ShowError("Create failed", m.Err)
		}
		p.pendingOpenID = m.Note.ID
		p.clearSearch()
		return p, p.loadNotes(false)

	case NoteDeletedMsg:
		if plugin.IsStale(p.ctx, m) {
			return p, nil
		}
		if m.Err != nil {
			p.popUndo()
			p.ctx.Logger.Error("notes: delete failed", "id", m.ID, "err", m.Err)
			return p, msg.ShowError("Delete failed", m.Err)
		}
		if p.active != nil && p.active.ID == m.ID {
			p.unbind()
		}
		return p, tea.Batch(
			msg.ShowToast("Deleted: "+truncateTitle(displayTitle(m.Title), 30)+" (u to undo)", msg.DefaultToastDuration),
			p.loadNotes(false),
		)

	case NoteRestoredMsg:
		if plugin.IsStale(p.ctx, m) {
			return p, nil
		}
		if m.Err != nil {
			p.ctx.Logger.Error("notes: restore failed", "id", m.ID, "err", m.Err)
			return p, msg.ShowError("Restore failed", m.Err)
		}
		p.ctx.Logger.Debug("notes: restored", "id", m.ID)
		p.pendingOpenID = m.ID
		return p, tea.Batch(showRestoredToast(m.Title), p.loadNotes(false))

	case NotePinToggledMsg:
		if m.Err != nil {
			return p, msg.ShowError("Pin failed", m.Err)
		}
		return p, p.loadNotes(false)

	case AutoSaveTickMsg:
		return p, p.handleAutoSaveTick(m)

	case NoteSavedMsg:
		return p, p.handleSaved(m)

	case RestoreTickMsg:
		p.editor.RunRestore(m.Gen)
		p.ensureCaretVisible()

	case ClockTickMsg:
		return p, clockTick()

	case plugin.ConfigReloadedMsg:
		p.applyConfig(m.Config)

	case tea.KeyMsg:
		return p.handleKey(m)

	default:
		// Cursor blink for focused text inputs
		var cmd tea.Cmd
		switch {
		case p.searchMode:
			p.searchInput, cmd = p.searchInput.Update(m)
		case p.activePane == PaneTitle:
			p.titleInput, cmd = p.titleInput.Update(m)
		}
		return p, cmd
	}
	return p, nil
}

// afterLoad re-selects the bound note, opens a pending one, or binds the
// first note when nothing is bound yet.
func (p *Plugin) afterLoad() tea.Cmd {
	display := p.displayNotes()
	if p.pendingOpenID != "" {
		id := p.pendingOpenID
		p.pendingOpenID = ""
		for i, n := range display {
			if n.ID == id {
				p.cursor = i
				p.ensureCursorVisible()
				cmd := p.bindNote(&display[i])
				if n.Title == notes.DefaultTitle && n.Content == "" {
					return tea.Batch(cmd, p.focusTitle())
				}
				return cmd
			}
		}
	}
	if p.active != nil {
		for i, n := range display {
			if n.ID == p.active.ID {
				p.cursor = i
				p.active.Pinned = n.Pinned
				p.active.UpdatedAt = n.UpdatedAt
				p.ensureCursorVisible()
				return nil
			}
		}
	}
	p.cursor = min(p.cursor, max(len(display)-1, 0))
	if p.active == nil && len(display) > 0 {
		return p.bindNote(&display[p.cursor])
	}
	return nil
}

func (p *Plugin) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	p.ctx.Config = cfg
	if state.GetBackground() == "" && cfg.UI.Background != p.background {
		p.background = cfg.UI.Background
		styles.ApplyTheme(p.background)
	}
	if state.GetSidebarWidth() == 0 {
		p.sidebarWidth = cfg.UI.SidebarWidth
	}
	p.ctx.Logger.Debug("notes: config applied", "background", p.background)
}

// handleKey routes a key to the surface that owns it.
func (p *Plugin) handleKey(k tea.KeyMsg) (plugin.Plugin, tea.Cmd) {
	switch {
	case p.deleteDialog != nil:
		return p, p.handleDeleteKey(k)
	case p.previewMode:
		return p, p.handlePreviewKey(k)
	case p.searchMode:
		return p, p.handleSearchKey(k)
	case p.activePane == PaneTitle && p.active != nil:
		return p, p.handleTitleKey(k)
	case p.activePane == PaneEditor && p.active != nil:
		return p, p.handleEditorKey(k)
	}
	return p.handleListKey(k)
}

// lookup resolves a key in the current focus context.
func (p *Plugin) lookup(k tea.KeyMsg) string {
	cmd, _ := p.ctx.Keymap.Lookup(k.String(), p.FocusContext())
	return cmd
}

// View renders the plugin.
func (p *Plugin) View(width, height int) string {
	p.width = width
	p.height = height

	var content string
	if p.previewMode {
		content = p.renderPreview(width, height)
	} else {
		content = p.renderView(width, height)
	}
	if p.deleteDialog != nil {
		content = ui.OverlayModal(content, p.deleteDialog.Render(), width, height)
	}
	return lipgloss.NewStyle().Width(width).Height(height).MaxHeight(height).Render(content)
}

// IsFocused returns whether the plugin is focused.
func (p *Plugin) IsFocused() bool { return p.focused }

// SetFocused sets the focus state.
func (p *Plugin) SetFocused(f bool) { p.focused = f }

// Commands returns the commands shown in the footer for the current context.
func (p *Plugin) Commands() []plugin.Command {
	ctx := p.FocusContext()
	switch ctx {
	case "notes-delete-modal":
		return []plugin.Command{
			{ID: "confirm", Name: "Delete", Description: "Confirm delete", Category: plugin.CategoryActions, Context: ctx, Priority: 1},
			{ID: "cancel", Name: "Cancel", Description: "Cancel delete", Category: plugin.CategoryActions, Context: ctx, Priority: 2},
		}
	case "notes-preview":
		return []plugin.Command{
			{ID: keymap.CmdBack, Name: "Close", Description: "Close preview", Category: plugin.CategoryView, Context: ctx, Priority: 1},
			{ID: keymap.CmdCursorDown, Name: "Scroll", Description: "Scroll preview", Category: plugin.CategoryNavigation, Context: ctx, Priority: 2},
		}
	case "notes-search":
		return []plugin.Command{
			{ID: keymap.CmdOpen, Name: "Open", Description: "Open note or create one", Category: plugin.CategorySearch, Context: ctx, Priority: 1},
			{ID: keymap.CmdBack, Name: "Cancel", Description: "Exit search", Category: plugin.CategorySearch, Context: ctx, Priority: 2},
		}
	case "notes-title":
		return []plugin.Command{
			{ID: keymap.CmdOpen, Name: "Edit", Description: "Continue to the editor", Category: plugin.CategoryEdit, Context: ctx, Priority: 1},
			{ID: keymap.CmdBack, Name: "Done", Description: "Leave the title", Category: plugin.CategoryEdit, Context: ctx, Priority: 2},
		}
	case "notes-editor":
		save := "Save"
		if p.dirty() {
			save = "Save*"
		}
		return []plugin.Command{
			{ID: keymap.CmdBack, Name: "List", Description: "Back to the note list", Category: plugin.CategoryNavigation, Context: ctx, Priority: 1},
			{ID: keymap.CmdSave, Name: save, Description: "Save now", Category: plugin.CategoryActions, Context: ctx, Priority: 2},
			{ID: keymap.FormatPrefix + "bold", Name: "Bold", Description: "Toggle bold", Category: plugin.CategoryFormat, Context: ctx, Priority: 3},
			{ID: keymap.FormatPrefix + "h1", Name: "H1", Description: "Heading 1", Category: plugin.CategoryFormat, Context: ctx, Priority: 4},
			{ID: keymap.FormatPrefix + "bullets", Name: "Bullets", Description: "Bullet list", Category: plugin.CategoryFormat, Context: ctx, Priority: 5},
			{ID: keymap.FormatPrefix + "numbers", Name: "Numbers", Description: "Numbered list", Category: plugin.CategoryFormat, Context: ctx, Priority: 6},
			{ID: keymap.CmdEditTitle, Name: "Title", Description: "Edit the title", Category: plugin.CategoryEdit, Context: ctx, Priority: 7},
		}
	}

	cmds := []plugin.Command{
		{ID: keymap.CmdSearch, Name: "Search", Description: "Search notes", Category: plugin.CategorySearch, Context: ctx, Priority: 1},
		{ID: keymap.CmdNewNote, Name: "New", Description: "Create new note", Category: plugin.CategoryActions, Context: ctx, Priority: 2},
		{ID: keymap.CmdOpen, Name: "Edit", Description: "Edit selected note", Category: plugin.CategoryActions, Context: ctx, Priority: 3},
		{ID: keymap.CmdDeleteNote, Name: "Delete", Description: "Delete selected note", Category: plugin.CategoryActions, Context: ctx, Priority: 4},
		{ID: keymap.CmdTogglePin, Name: "Pin", Description: "Toggle pin on note", Category: plugin.CategoryActions, Context: ctx, Priority: 5},
		{ID: keymap.CmdPreview, Name: "Preview", Description: "Render the note", Category: plugin.CategoryView, Context: ctx, Priority: 6},
		{ID: keymap.CmdCycleBackground, Name: "Theme", Description: "Cycle background", Category: plugin.CategoryView, Context: ctx, Priority: 8},
		{ID: keymap.CmdYankContent, Name: "Yank", Description: "Copy note content", Category: plugin.CategoryActions, Context: ctx, Priority: 9},
		{ID: keymap.CmdToggleSidebar, Name: "Hide", Description: "Collapse the sidebar", Category: plugin.CategoryView, Context: ctx, Priority: 10},
	}
	if p.hasUndo() {
		cmds = append(cmds, plugin.Command{ID: keymap.CmdUndo, Name: "Undo", Description: "Undo last delete", Category: plugin.CategoryActions, Context: ctx, Priority: 0})
	}
	return cmds
}

// FocusContext returns the current focus context.
func (p *Plugin) FocusContext() string {
	switch {
	case p.deleteDialog != nil:
		return "notes-delete-modal"
	case p.previewMode:
		return "notes-preview"
	case p.searchMode:
		return "notes-search"
	case p.activePane == PaneTitle && p.active != nil:
		return "notes-title"
	case p.activePane == PaneEditor && p.active != nil:
		return "notes-editor"
	}
	return "notes-list"
}

// ConsumesTextInput reports whether printable keys must reach the plugin
// unfiltered.
func (p *Plugin) ConsumesTextInput() bool {
	if p.deleteDialog != nil || p.previewMode {
		return false
	}
	if p.searchMode {
		return true
	}
	return p.active != nil && (p.activePane == PaneTitle || p.activePane == PaneEditor)
}

// Diagnostics implements plugin.DiagnosticProvider.
func (p *Plugin) Diagnostics() []plugin.Diagnostic {
	if p.store == nil {
		return []plugin.Diagnostic{{ID: "store", Status: "error", Detail: "no database"}}
	}
	status, detail := "ok", fmt.Sprintf("%d notes", len(p.notes))
	if p.loadErr != nil {
		status, detail = "error", p.loadErr.Error()
	}
	return []plugin.Diagnostic{
		{ID: "store", Status: status, Detail: detail},
		{ID: "driver", Status: "ok", Detail: p.config().Storage.Driver},
	}
}
