package notes

import (
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/sidenotes/internal/autosave"
	"github.com/marcus/sidenotes/internal/msg"
	"github.com/marcus/sidenotes/internal/notes"
	"github.com/marcus/sidenotes/internal/richtext"
	"github.com/marcus/sidenotes/internal/state"
	"github.com/marcus/sidenotes/internal/styles"
	"github.com/marcus/sidenotes/internal/ui"
)

const maxUndoStack = 20

// loadNotes returns a command that loads notes from the store. On first
// load it seeds the welcome note into an empty database.
func (p *Plugin) loadNotes(seed bool) tea.Cmd {
	if p.store == nil {
		return nil
	}
	// Only show loading screen on initial load
	if p.notes == nil {
		p.loading = true
	}
	store := p.store
	epoch := p.ctx.Epoch
	logger := p.ctx.Logger

	return func() tea.Msg {
		if seed {
			if n, err := store.EnsureWelcome(); err != nil {
				logger.Error("notes: seeding welcome note failed", "err", err)
			} else if n != nil {
				logger.Info("notes: welcome note created", "id", n.ID)
			}
		}
		list, err := store.List()
		return NotesLoadedMsg{Notes: list, Err: err, Epoch: epoch}
	}
}

// bindNote makes n the note being edited. Unsaved edits of the previous
// note are flushed first, and both debouncers are rebased on n.
func (p *Plugin) bindNote(n *notes.Note) tea.Cmd {
	if p.active != nil && p.active.ID == n.ID {
		return nil
	}
	flush := p.flushSaves()

	doc, err := richtext.Parse(n.Content)
	if err != nil {
		p.ctx.Logger.Warn("notes: content did not parse, loading as text", "id", n.ID, "err", err)
		doc = richtext.NewDocument()
		h := richtext.NewDocumentHost(doc)
		h.InsertText(notes.PlainText(n.Content))
	}
	host := richtext.NewDocumentHost(doc)

	bound := *n
	p.active = &bound
	p.host = host
	p.editor.Bind(n.ID, host)
	p.editorScroll = 0
	p.titleInput.SetValue(n.Title)
	p.titleInput.Blur()
	p.titleSaver.Reset(n.Title)
	p.contentSaver.Reset(doc.Markup())
	p.lastSaved = n.UpdatedAt

	if err := state.SetActiveNoteID(n.ID); err != nil {
		p.ctx.Logger.Debug("notes: persisting active note failed", "err", err)
	}
	return flush
}

// unbind drops the bound note, leaving the placeholder.
func (p *Plugin) unbind() {
	p.editor.Unbind()
	p.active = nil
	p.host = nil
	p.titleSaver.Reset("")
	p.contentSaver.Reset("")
	if p.activePane != PaneList {
		p.activePane = PaneList
	}
	p.titleInput.Blur()
}

// openSelected binds the selected note and moves focus to the editor.
func (p *Plugin) openSelected() tea.Cmd {
	n := p.selectedNote()
	if n == nil {
		return nil
	}
	cmd := p.bindNote(n)
	p.focusEditor()
	return cmd
}

func (p *Plugin) focusEditor() {
	if p.active == nil {
		return
	}
	p.activePane = PaneEditor
	p.titleInput.Blur()
	p.host.Focus()
}

func (p *Plugin) focusTitle() tea.Cmd {
	if p.active == nil {
		return nil
	}
	p.activePane = PaneTitle
	if p.host != nil {
		p.host.Blur()
	}
	p.titleInput.CursorEnd()
	return p.titleInput.Focus()
}

func (p *Plugin) focusList() tea.Cmd {
	p.activePane = PaneList
	p.titleInput.Blur()
	if p.host != nil {
		p.host.Blur()
	}
	return p.flushSaves()
}

// saverFor returns the debouncer of a field.
func (p *Plugin) saverFor(f saveField) *autosave.Debouncer {
	if f == fieldTitle {
		return p.titleSaver
	}
	return p.contentSaver
}

// queueSave records a new value of f and schedules its debounced save.
func (p *Plugin) queueSave(f saveField, value string) tea.Cmd {
	if p.active == nil {
		return nil
	}
	t, ok := p.saverFor(f).Change(value)
	if !ok {
		return nil
	}
	noteID := p.active.ID
	return tea.Tick(t.Delay, func(time.Time) tea.Msg {
		return AutoSaveTickMsg{Field: f, NoteID: noteID, Ticket: t}
	})
}

func (p *Plugin) handleAutoSaveTick(m AutoSaveTickMsg) tea.Cmd {
	if p.active == nil || p.active.ID != m.NoteID {
		return nil
	}
	value, ok := p.saverFor(m.Field).Fire(m.Ticket)
	if !ok {
		return nil
	}
	return p.saveCmd(m.Field, m.NoteID, value)
}

// flushSaves writes any unsaved title or content now.
func (p *Plugin) flushSaves() tea.Cmd {
	if p.active == nil {
		return nil
	}
	var cmds []tea.Cmd
	if v, ok := p.titleSaver.Flush(); ok {
		cmds = append(cmds, p.saveCmd(fieldTitle, p.active.ID, v))
	}
	if v, ok := p.contentSaver.Flush(); ok {
		cmds = append(cmds, p.saveCmd(fieldContent, p.active.ID, v))
	}
	return tea.Batch(cmds...)
}

func (p *Plugin) saveCmd(f saveField, noteID, value string) tea.Cmd {
	if p.store == nil {
		return nil
	}
	p.saving++
	store := p.store
	epoch := p.ctx.Epoch

	return func() tea.Msg {
		var at time.Time
		var err error
		if f == fieldTitle {
			at, err = store.UpdateTitle(noteID, value)
		} else {
			at, err = store.UpdateContent(noteID, value)
		}
		return NoteSavedMsg{Field: f, NoteID: noteID, Value: value, UpdatedAt: at, Err: err, Epoch: epoch}
	}
}

func (p *Plugin) handleSaved(m NoteSavedMsg) tea.Cmd {
	p.saving = max(p.saving-1, 0)
	if m.Err != nil {
		p.ctx.Logger.Error("notes: save failed", "field", m.Field.String(), "id", m.NoteID, "err", m.Err)
		return msg.ShowError("Save failed", m.Err)
	}
	p.ctx.Logger.Debug("notes: saved", "field", m.Field.String(), "id", m.NoteID)
	if p.active != nil && p.active.ID == m.NoteID {
		p.saverFor(m.Field).Saved(m.Value)
		p.lastSaved = m.UpdatedAt
		if m.Field == fieldTitle {
			p.active.Title = m.Value
		} else {
			p.active.Content = m.Value
		}
	}
	return p.loadNotes(false)
}

// dirty reports whether the bound note has unsaved edits.
func (p *Plugin) dirty() bool {
	return p.active != nil && (p.titleSaver.Dirty() || p.contentSaver.Dirty())
}

// createNote returns a command that creates a new note.
func (p *Plugin) createNote(title string) tea.Cmd {
	if p.store == nil {
		return nil
	}
	store := p.store
	epoch := p.ctx.Epoch
	return func() tea.Msg {
		n, err := store.Create(title, "")
		return NoteCreatedMsg{Note: n, Err: err, Epoch: epoch}
	}
}

// confirmDelete opens the delete dialog for the selected note.
func (p *Plugin) confirmDelete() {
	n := p.selectedNote()
	if n == nil {
		return
	}
	target := *n
	p.deleteTarget = &target
	d := ui.NewConfirmDialog("Delete Note?", `"`+truncateTitle(displayTitle(n.Title), 40)+`" will be moved to the trash.`)
	d.ConfirmLabel = " Delete "
	d.Danger = true
	p.deleteDialog = d
}

func (p *Plugin) handleDeleteKey(k tea.KeyMsg) tea.Cmd {
	switch p.deleteDialog.HandleKey(k) {
	case ui.ActionConfirm:
		target := p.deleteTarget
		p.deleteDialog, p.deleteTarget = nil, nil
		return p.deleteNote(target)
	case ui.ActionCancel:
		p.deleteDialog, p.deleteTarget = nil, nil
	}
	return nil
}

// deleteNote returns a command that soft-deletes n.
func (p *Plugin) deleteNote(n *notes.Note) tea.Cmd {
	if n == nil || p.store == nil {
		return nil
	}
	p.pushUndo(UndoAction{NoteID: n.ID, Title: n.Title})

	var flush tea.Cmd
	if p.active != nil && p.active.ID == n.ID {
		// Saves of a note about to be deleted are pointless.
		p.titleSaver.Cancel()
		p.contentSaver.Cancel()
	} else {
		flush = p.flushSaves()
	}

	store := p.store
	id, title := n.ID, n.Title
	epoch := p.ctx.Epoch
	return tea.Batch(flush, func() tea.Msg {
		err := store.Delete(id)
		return NoteDeletedMsg{ID: id, Title: title, Err: err, Epoch: epoch}
	})
}

// togglePin returns a command that toggles the pinned state of the selected note.
func (p *Plugin) togglePin() tea.Cmd {
	n := p.selectedNote()
	if n == nil || p.store == nil {
		return nil
	}
	store := p.store
	id := n.ID
	epoch := p.ctx.Epoch
	return func() tea.Msg {
		err := store.TogglePin(id)
		return NotePinToggledMsg{ID: id, Err: err, Epoch: epoch}
	}
}

// pushUndo adds an action to the undo stack.
func (p *Plugin) pushUndo(action UndoAction) {
	p.undoStack = append(p.undoStack, action)
	if len(p.undoStack) > maxUndoStack {
		p.undoStack = p.undoStack[1:]
	}
}

// popUndo removes and returns the last action from the undo stack.
func (p *Plugin) popUndo() *UndoAction {
	if len(p.undoStack) == 0 {
		return nil
	}
	action := p.undoStack[len(p.undoStack)-1]
	p.undoStack = p.undoStack[:len(p.undoStack)-1]
	return &action
}

func (p *Plugin) hasUndo() bool { return len(p.undoStack) > 0 }

// undoLastDelete restores the most recently deleted note.
func (p *Plugin) undoLastDelete() tea.Cmd {
	action := p.popUndo()
	if action == nil || p.store == nil {
		return msg.ShowToast("Nothing to undo", msg.DefaultToastDuration)
	}
	store := p.store
	id, title := action.NoteID, action.Title
	epoch := p.ctx.Epoch
	return func() tea.Msg {
		err := store.Restore(id)
		return NoteRestoredMsg{ID: id, Title: title, Err: err, Epoch: epoch}
	}
}

// noteText returns the plain text of n, using the live document when n is
// the bound note.
func (p *Plugin) noteText(n *notes.Note) string {
	if p.active != nil && p.active.ID == n.ID && p.host != nil {
		return p.host.Document().PlainText()
	}
	return notes.PlainText(n.Content)
}

// yankNoteContent copies the note's plain text to the system clipboard.
func (p *Plugin) yankNoteContent() tea.Cmd {
	n := p.selectedNote()
	if n == nil {
		return nil
	}
	text := p.noteText(n)
	if strings.TrimSpace(text) == "" {
		return msg.ShowToast("No content to copy", msg.DefaultToastDuration)
	}
	if err := clipboard.WriteAll(text); err != nil {
		return msg.ShowError("Copy failed", err)
	}
	return msg.ShowToast("Copied note content", msg.DefaultToastDuration)
}

// yankNoteTitle copies the note title to the system clipboard.
func (p *Plugin) yankNoteTitle() tea.Cmd {
	n := p.selectedNote()
	if n == nil {
		return nil
	}
	title := strings.TrimSpace(n.Title)
	if title == "" {
		return msg.ShowToast("No title to copy", msg.DefaultToastDuration)
	}
	if err := clipboard.WriteAll(title); err != nil {
		return msg.ShowError("Copy failed", err)
	}
	return msg.ShowToast("Copied: "+truncateTitle(title, 30), msg.DefaultToastDuration)
}

// cycleBackground switches to the next background variant and persists it.
func (p *Plugin) cycleBackground() tea.Cmd {
	p.background = styles.NextTheme(p.background)
	styles.ApplyTheme(p.background)
	if err := state.SetBackground(p.background); err != nil {
		p.ctx.Logger.Debug("notes: persisting background failed", "err", err)
	}
	return msg.ShowToast("Background: "+styles.GetTheme(p.background).DisplayName, msg.DefaultToastDuration)
}

// toggleSidebar collapses or expands the sidebar. The sidebar stays open
// while no note is bound since nothing else could take focus.
func (p *Plugin) toggleSidebar() tea.Cmd {
	if !p.collapsed && p.active == nil {
		return msg.ShowToast("Open a note before hiding the sidebar", msg.DefaultToastDuration)
	}
	p.collapsed = !p.collapsed
	if p.collapsed && p.activePane == PaneList {
		p.focusEditor()
	}
	if err := state.SetSidebarCollapsed(p.collapsed); err != nil {
		p.ctx.Logger.Debug("notes: persisting sidebar state failed", "err", err)
	}
	return nil
}

// showRestoredToast shows a toast notification for undo/restore.
func showRestoredToast(title string) tea.Cmd {
	text := "Restored"
	if t := truncateTitle(title, 30); t != "" {
		text = "Restored: " + t
	}
	return msg.ShowToast(text, msg.DefaultToastDuration)
}

// displayTitle substitutes the default title for an empty one.
func displayTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return notes.DefaultTitle
	}
	return title
}

// truncateTitle truncates a title to maxLen runes with ellipsis.
func truncateTitle(title string, maxLen int) string {
	r := []rune(title)
	if len(r) <= maxLen {
		return title
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
