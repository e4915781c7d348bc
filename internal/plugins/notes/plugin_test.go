package notes

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/sidenotes/internal/config"
	"github.com/marcus/sidenotes/internal/logging"
	"github.com/marcus/sidenotes/internal/notes"
	"github.com/marcus/sidenotes/internal/plugin"
	"github.com/marcus/sidenotes/internal/richtext"
	"github.com/marcus/sidenotes/internal/state"
)

func newTestPlugin(t *testing.T, saveDelay time.Duration) (*Plugin, *notes.Store) {
	t.Helper()
	dir := t.TempDir()
	if err := state.InitWithDir(dir); err != nil {
		t.Fatalf("state init: %v", err)
	}
	store, err := notes.NewStore(notes.DriverPureGo, filepath.Join(dir, "notes.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := config.Default()
	cfg.Editor.AutoSaveDelay = saveDelay
	cfg.Editor.FrameDelay = time.Millisecond
	cfg.Editor.SettleDelay = time.Millisecond

	p := New()
	if err := p.Init(&plugin.Context{Config: cfg, Store: store, Logger: logging.NewNop()}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	p.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return p, store
}

// drain runs cmd and feeds the plugin's own messages back into Update
// until no work is left.
func drain(t *testing.T, p *Plugin, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 100 {
			t.Fatal("drain: too many steps")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch m := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, m...)
		case NotesLoadedMsg, NoteCreatedMsg, NoteDeletedMsg, NoteRestoredMsg,
			NotePinToggledMsg, AutoSaveTickMsg, NoteSavedMsg, RestoreTickMsg:
			_, next := p.Update(m)
			queue = append(queue, next)
		}
	}
}

func load(t *testing.T, p *Plugin) {
	t.Helper()
	drain(t, p, p.loadNotes(false))
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyEvent(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		want richtext.KeyEvent
	}{
		{tea.KeyMsg{Type: tea.KeyCtrlB}, richtext.KeyEvent{Key: "b", Ctrl: true}},
		{tea.KeyMsg{Type: tea.KeyEnter, Alt: true}, richtext.KeyEvent{Key: "enter", Meta: true}},
		{tea.KeyMsg{Type: tea.KeyShiftTab}, richtext.KeyEvent{Key: "tab", Shift: true}},
		{tea.KeyMsg{Type: tea.KeyTab}, richtext.KeyEvent{Key: "tab"}},
		{key("X"), richtext.KeyEvent{Key: "x"}},
	}
	for _, tt := range tests {
		if got := keyEvent(tt.msg); got != tt.want {
			t.Errorf("keyEvent(%q) = %+v, want %+v", tt.msg.String(), got, tt.want)
		}
	}
}

func TestPlaceholderWhenNothingBound(t *testing.T) {
	p, _ := newTestPlugin(t, time.Millisecond)
	load(t, p)

	if p.active != nil {
		t.Fatalf("active = %v, want nil with an empty store", p.active)
	}
	if view := ansi.Strip(p.View(100, 30)); !strings.Contains(view, placeholderBlank) {
		t.Errorf("view missing placeholder:\n%s", view)
	}
	if ctx := p.FocusContext(); ctx != "notes-list" {
		t.Errorf("FocusContext = %q, want notes-list", ctx)
	}
}

func TestLoadBindsFirstNote(t *testing.T) {
	p, store := newTestPlugin(t, time.Millisecond)
	if _, err := store.Create("First", "<p>one</p>"); err != nil {
		t.Fatal(err)
	}
	load(t, p)

	if p.active == nil {
		t.Fatal("no note bound after load")
	}
	if p.active.ID != p.notes[0].ID {
		t.Errorf("bound %q, want first listed %q", p.active.ID, p.notes[0].ID)
	}
	if got := state.GetActiveNoteID(); got != p.active.ID {
		t.Errorf("persisted active note = %q, want %q", got, p.active.ID)
	}
}

func TestTypingAutosaves(t *testing.T) {
	p, store := newTestPlugin(t, time.Millisecond)
	n, err := store.Create("First", "<p>one</p>")
	if err != nil {
		t.Fatal(err)
	}
	load(t, p)

	_, cmd := p.Update(key("enter"))
	drain(t, p, cmd)
	if ctx := p.FocusContext(); ctx != "notes-editor" {
		t.Fatalf("FocusContext = %q, want notes-editor", ctx)
	}

	_, cmd = p.Update(key("x"))
	if !p.dirty() {
		t.Fatal("typing did not mark the note dirty")
	}
	drain(t, p, cmd)

	got, err := store.Get(n.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Content != "<p>onex</p>" {
		t.Errorf("stored content = %q, want %q", got.Content, "<p>onex</p>")
	}
	if p.dirty() {
		t.Error("note still dirty after save")
	}
	if p.saving != 0 {
		t.Errorf("saving = %d, want 0", p.saving)
	}
}

func TestLeavingEditorFlushes(t *testing.T) {
	p, store := newTestPlugin(t, time.Hour)
	n, err := store.Create("First", "")
	if err != nil {
		t.Fatal(err)
	}
	load(t, p)

	p.Update(key("enter"))
	p.Update(key("h"))
	p.Update(key("i"))

	_, cmd := p.Update(key("esc"))
	drain(t, p, cmd)

	if ctx := p.FocusContext(); ctx != "notes-list" {
		t.Errorf("FocusContext = %q, want notes-list", ctx)
	}
	got, err := store.Get(n.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Content != "<p>hi</p>" {
		t.Errorf("stored content = %q, want <p>hi</p>", got.Content)
	}
}

func TestAutoSaveTickForOtherNoteIgnored(t *testing.T) {
	p, store := newTestPlugin(t, time.Millisecond)
	if _, err := store.Create("First", ""); err != nil {
		t.Fatal(err)
	}
	load(t, p)

	_, cmd := p.Update(AutoSaveTickMsg{Field: fieldContent, NoteID: "someone-else"})
	if cmd != nil {
		t.Error("tick for an unbound note produced a save")
	}
}

func TestSwitchingNotesDropsQueuedWork(t *testing.T) {
	p, store := newTestPlugin(t, time.Millisecond)
	if _, err := store.Create("Second", "<p>two</p>"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Create("First", "<p>one</p>"); err != nil {
		t.Fatal(err)
	}
	load(t, p)
	first := p.active
	var other notes.Note
	for _, n := range p.notes {
		if n.ID != first.ID {
			other = n
		}
	}
	want := map[string]string{"<p>one</p>": "<p><b>onex</b></p>", "<p>two</p>": "<p><b>twox</b></p>"}[first.Content]

	// queue a content save and a selection restore for the first note
	p.Update(key("enter"))
	_, typed := p.Update(key("x"))
	p.Update(tea.KeyMsg{Type: tea.KeyCtrlA})
	_, bold := p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b"), Alt: true})
	if p.editor.Pending() == 0 {
		t.Fatal("bold over a selection queued no restore")
	}

	drain(t, p, p.bindNote(&other))
	if p.editor.Pending() != 0 {
		t.Errorf("restore still pending after switching notes")
	}
	before, _ := p.host.Selection()

	// the first note's tick and restore arrive late
	drain(t, p, typed)
	drain(t, p, bold)

	if p.active.ID != other.ID {
		t.Fatalf("bound %q, want %q", p.active.ID, other.ID)
	}
	if after, _ := p.host.Selection(); after != before {
		t.Errorf("stale restore moved the selection: %+v -> %+v", before, after)
	}
	if got := p.host.Document().Markup(); got != other.Content {
		t.Errorf("bound content = %q, want %q", got, other.Content)
	}

	gotFirst, err := store.Get(first.ID)
	if err != nil {
		t.Fatal(err)
	}
	if gotFirst.Content != want {
		t.Errorf("first note content = %q, want %q", gotFirst.Content, want)
	}
	gotOther, err := store.Get(other.ID)
	if err != nil {
		t.Fatal(err)
	}
	if gotOther.Content != other.Content {
		t.Errorf("other note content = %q, want it untouched %q", gotOther.Content, other.Content)
	}
}

func TestDeleteAndUndo(t *testing.T) {
	p, store := newTestPlugin(t, time.Millisecond)
	n, err := store.Create("Doomed", "<p>bye</p>")
	if err != nil {
		t.Fatal(err)
	}
	load(t, p)

	p.Update(key("d"))
	if ctx := p.FocusContext(); ctx != "notes-delete-modal" {
		t.Fatalf("FocusContext = %q, want notes-delete-modal", ctx)
	}
	_, cmd := p.Update(key("y"))
	drain(t, p, cmd)

	if p.deleteDialog != nil {
		t.Error("dialog still open after confirm")
	}
	if len(p.notes) != 0 {
		t.Errorf("notes after delete = %d, want 0", len(p.notes))
	}
	if p.active != nil {
		t.Error("deleted note still bound")
	}
	if !p.hasUndo() {
		t.Fatal("no undo entry after delete")
	}

	_, cmd = p.Update(key("u"))
	drain(t, p, cmd)

	if len(p.notes) != 1 || p.notes[0].ID != n.ID {
		t.Fatalf("notes after undo = %+v, want the restored note", p.notes)
	}
	if p.active == nil || p.active.ID != n.ID {
		t.Error("restored note not bound")
	}
	if p.hasUndo() {
		t.Error("undo entry left after undo")
	}
}

func TestDeleteCancel(t *testing.T) {
	p, store := newTestPlugin(t, time.Millisecond)
	if _, err := store.Create("Keep", ""); err != nil {
		t.Fatal(err)
	}
	load(t, p)

	p.Update(key("d"))
	_, cmd := p.Update(key("n"))
	drain(t, p, cmd)

	if p.deleteDialog != nil {
		t.Error("dialog still open after cancel")
	}
	if count, _ := store.Count(); count != 1 {
		t.Errorf("Count = %d, want 1", count)
	}
}

func TestSearchWithoutMatchCreatesNote(t *testing.T) {
	p, store := newTestPlugin(t, time.Millisecond)
	if _, err := store.Create("First", ""); err != nil {
		t.Fatal(err)
	}
	load(t, p)

	p.Update(key("/"))
	if !p.searchMode {
		t.Fatal("search mode not entered")
	}
	p.Update(key("groceries"))
	if got := len(p.displayNotes()); got != 0 {
		t.Fatalf("matches = %d, want 0", got)
	}

	_, cmd := p.Update(key("enter"))
	drain(t, p, cmd)

	if p.searchMode {
		t.Error("still in search mode")
	}
	if p.active == nil || p.active.Title != "groceries" {
		t.Fatalf("active = %+v, want the new groceries note", p.active)
	}
	if count, _ := store.Count(); count != 2 {
		t.Errorf("Count = %d, want 2", count)
	}
}

func TestNewUntitledNoteFocusesTitle(t *testing.T) {
	p, _ := newTestPlugin(t, time.Millisecond)
	load(t, p)

	_, cmd := p.Update(key("n"))
	drain(t, p, cmd)

	if p.active == nil || p.active.Title != notes.DefaultTitle {
		t.Fatalf("active = %+v, want a new untitled note", p.active)
	}
	if ctx := p.FocusContext(); ctx != "notes-title" {
		t.Errorf("FocusContext = %q, want notes-title", ctx)
	}
}

func TestToggleSidebarNeedsBoundNote(t *testing.T) {
	p, store := newTestPlugin(t, time.Millisecond)
	load(t, p)

	p.Update(key("\\"))
	if p.collapsed {
		t.Fatal("sidebar collapsed with nothing bound")
	}

	if _, err := store.Create("First", ""); err != nil {
		t.Fatal(err)
	}
	load(t, p)
	p.Update(key("\\"))
	if !p.collapsed {
		t.Error("sidebar not collapsed with a bound note")
	}
	if !state.GetSidebarCollapsed() {
		t.Error("collapsed state not persisted")
	}
}

func TestRenderDocumentWraps(t *testing.T) {
	doc, err := richtext.Parse("<p>abcdefghij</p><p>xy</p>")
	if err != nil {
		t.Fatal(err)
	}
	h := richtext.NewDocumentHost(doc)
	second := doc.Blocks()[1].ID
	if err := h.SetSelection(richtext.Caret(richtext.Position{Block: second, Offset: 1})); err != nil {
		t.Fatal(err)
	}

	lines, row := renderDocument(h, true, 4)
	var plain []string
	for _, l := range lines {
		plain = append(plain, ansi.Strip(l))
	}
	want := []string{"abcd", "efgh", "ij", "xy"}
	if strings.Join(plain, "|") != strings.Join(want, "|") {
		t.Errorf("lines = %q, want %q", plain, want)
	}
	if row != 3 {
		t.Errorf("caret row = %d, want 3", row)
	}

	h.SetSelection(richtext.Caret(richtext.Position{Block: doc.Blocks()[0].ID, Offset: 10}))
	if _, row := renderDocument(h, true, 4); row != 2 {
		t.Errorf("caret row at end of first block = %d, want 2", row)
	}
}

func TestRenderDocumentHardBreaks(t *testing.T) {
	doc, err := richtext.Parse("<p>a<br>b</p>")
	if err != nil {
		t.Fatal(err)
	}
	lines, _ := renderDocument(richtext.NewDocumentHost(doc), false, 20)
	if len(lines) != 2 {
		t.Fatalf("lines = %q, want 2 rows", lines)
	}
}

func TestCaretDepth(t *testing.T) {
	doc, err := richtext.Parse("<p>top<br>    1. nested</p>")
	if err != nil {
		t.Fatal(err)
	}
	h := richtext.NewDocumentHost(doc)
	if got := caretDepth(h); got != 2 {
		t.Errorf("caretDepth() = %d, want 2", got)
	}
	h.InsertText("\n")
	if got := caretDepth(h); got != 0 {
		t.Errorf("caretDepth() after break = %d, want 0", got)
	}
}

func TestFormatKeyUpdatesContent(t *testing.T) {
	p, store := newTestPlugin(t, time.Millisecond)
	n, err := store.Create("First", "<p>title</p>")
	if err != nil {
		t.Fatal(err)
	}
	load(t, p)
	p.Update(key("enter"))

	_, cmd := p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1"), Alt: true})
	if p.host.ActiveBlockStyle() != richtext.Heading1 {
		t.Fatalf("block style = %v, want heading 1", p.host.ActiveBlockStyle())
	}
	drain(t, p, cmd)

	got, err := store.Get(n.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Content != "<h1>title</h1>" {
		t.Errorf("stored content = %q, want <h1>title</h1>", got.Content)
	}
}
