package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/sidenotes/internal/config"
	"github.com/marcus/sidenotes/internal/keymap"
	"github.com/marcus/sidenotes/internal/msg"
	"github.com/marcus/sidenotes/internal/plugin"
)

// fakePlugin records the messages it receives.
type fakePlugin struct {
	context  string
	typing   bool
	received []tea.Msg
	cfg      *config.Config
}

func (f *fakePlugin) ID() string { return "fake" }
func (f *fakePlugin) Name() string { return "Fake" }
func (f *fakePlugin) Init(*plugin.Context) error { return nil }
func (f *fakePlugin) Start() tea.Cmd { return nil }
func (f *fakePlugin) Stop() {}
func (f *fakePlugin) View(width, height int) string { return "body" }
func (f *fakePlugin) IsFocused() bool { return true }
func (f *fakePlugin) SetFocused(bool) {}
func (f *fakePlugin) FocusContext() string { return f.context }
func (f *fakePlugin) ConsumesTextInput() bool { return f.typing }

func (f *fakePlugin) Update(m tea.Msg) (plugin.Plugin, tea.Cmd) {
	f.received = append(f.received, m)
	if r, ok := m.(plugin.ConfigReloadedMsg); ok {
		f.cfg = r.Config
	}
	return f, nil
}

func (f *fakePlugin) Commands() []plugin.Command {
	return []plugin.Command{
		{ID: keymap.CmdNewNote, Name: "New", Context: "notes-list", Priority: 2},
		{ID: keymap.CmdSearch, Name: "Search", Context: "notes-list", Priority: 1},
		{ID: keymap.CmdSave, Name: "Save", Context: "notes-editor", Priority: 1},
	}
}

func newTestModel(p *fakePlugin) Model {
	km := keymap.NewRegistry()
	keymap.RegisterDefaults(km)
	m := New(p, km, Options{Config: config.Default(), Version: "v0.0.0-test"})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

func press(m Model, k tea.KeyMsg) (Model, tea.Cmd) {
	next, cmd := m.Update(k)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestWindowSizeReservesFooter(t *testing.T) {
	p := &fakePlugin{context: "notes-list"}
	newTestModel(p)

	var size tea.WindowSizeMsg
	for _, r := range p.received {
		if s, ok := r.(tea.WindowSizeMsg); ok {
			size = s
		}
	}
	if size.Width != 100 || size.Height != 29 {
		t.Errorf("plugin size = %dx%d, want 100x29", size.Width, size.Height)
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := newTestModel(&fakePlugin{context: "notes-editor", typing: true})
	_, cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c did not quit")
	}
}

func TestHelpRespectsTextInput(t *testing.T) {
	p := &fakePlugin{context: "notes-list"}
	m := newTestModel(p)

	m, _ = press(m, runes("?"))
	if !m.showHelp {
		t.Fatal("? did not open help in the list")
	}
	if !strings.Contains(ansi.Strip(m.View()), "Keyboard Shortcuts") {
		t.Error("help overlay not rendered")
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.showHelp {
		t.Fatal("esc did not close help")
	}

	p.typing = true
	p.received = nil
	m, _ = press(m, runes("?"))
	if m.showHelp {
		t.Error("? opened help while typing")
	}
	if len(p.received) != 1 {
		t.Errorf("plugin got %d messages, want the typed key", len(p.received))
	}
}

func TestModalSwallowsKeys(t *testing.T) {
	p := &fakePlugin{context: "notes-list"}
	m := newTestModel(p)
	m, _ = press(m, runes("!"))
	if !m.showDiagnostics {
		t.Fatal("! did not open diagnostics")
	}
	view := ansi.Strip(m.View())
	if !strings.Contains(view, "v0.0.0-test") {
		t.Error("diagnostics missing version")
	}
	if !strings.Contains(view, "contrast") {
		t.Error("diagnostics missing background contrast")
	}

	p.received = nil
	m, _ = press(m, runes("n"))
	if len(p.received) != 0 {
		t.Error("key leaked to the plugin behind a modal")
	}
	m, _ = press(m, runes("!"))
	if m.showDiagnostics {
		t.Error("! did not close diagnostics")
	}
}

func TestBackgroundDiagnostic(t *testing.T) {
	got := ansi.Strip(backgroundDiagnostic("ocean"))
	if !strings.HasPrefix(got, "ocean (contrast ") {
		t.Errorf("backgroundDiagnostic(ocean) = %q", got)
	}
	if strings.Contains(got, "low contrast") {
		t.Errorf("built-in variant flagged: %q", got)
	}
	if got := ansi.Strip(backgroundDiagnostic("bogus")); !strings.HasPrefix(got, "default ") {
		t.Errorf("unknown variant = %q, want the default", got)
	}
}

func TestToastShownAndExpires(t *testing.T) {
	m := newTestModel(&fakePlugin{context: "notes-list"})
	next, _ := m.Update(msg.ToastMsg{Message: "Copied", Duration: time.Minute})
	m = next.(Model)

	if !strings.Contains(ansi.Strip(m.renderFooter()), "Copied") {
		t.Error("footer missing toast")
	}

	m.statusExpiry = time.Now().Add(-time.Second)
	next, _ = m.Update(TickMsg(time.Now()))
	m = next.(Model)
	if m.statusMsg != "" {
		t.Errorf("toast not cleared: %q", m.statusMsg)
	}
}

func TestToggleFooter(t *testing.T) {
	m := newTestModel(&fakePlugin{context: "notes-list"})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlH})
	if m.showFooter {
		t.Fatal("ctrl+h did not hide the footer")
	}
	if m.contentHeight() != 30 {
		t.Errorf("contentHeight = %d, want 30", m.contentHeight())
	}
}

func TestFooterHintsOrderedByPriority(t *testing.T) {
	m := newTestModel(&fakePlugin{context: "notes-list"})
	hints := m.footerHints()
	if len(hints) < 2 {
		t.Fatalf("hints = %+v", hints)
	}
	if hints[0].label != "Search" || hints[1].label != "New" {
		t.Errorf("first hints = %q, %q; want Search, New", hints[0].label, hints[1].label)
	}
	for _, h := range hints {
		if h.label == "Save" {
			t.Error("editor hint shown in list context")
		}
	}
}

func TestConfigReload(t *testing.T) {
	ch := make(chan config.Reload, 1)
	p := &fakePlugin{context: "notes-list"}
	km := keymap.NewRegistry()
	keymap.RegisterDefaults(km)
	m := New(p, km, Options{Config: config.Default(), Reloads: ch})

	cfg := config.Default()
	cfg.UI.ShowFooter = false
	cfg.Keymap.Overrides = map[string]string{"ctrl+q": keymap.CmdQuit}
	ch <- config.Reload{Config: cfg}

	reload := waitForReload(ch)()
	next, cmd := m.Update(reload)
	m = next.(Model)

	if cmd == nil {
		t.Error("reload did not re-arm the watcher")
	}
	if m.showFooter {
		t.Error("showFooter not applied")
	}
	if p.cfg != cfg {
		t.Error("plugin did not receive the new config")
	}
	if got, _ := km.Lookup("ctrl+q", "global"); got != keymap.CmdQuit {
		t.Errorf("override not applied, got %q", got)
	}
}

func TestConfigReloadError(t *testing.T) {
	m := newTestModel(&fakePlugin{context: "notes-list"})
	next, _ := m.Update(ConfigFileMsg{Reload: config.Reload{Err: errors.New("bad yaml")}})
	m = next.(Model)
	if !m.statusIsError || !strings.Contains(m.statusMsg, "bad yaml") {
		t.Errorf("status = %q (error %v), want the reload error", m.statusMsg, m.statusIsError)
	}
}
