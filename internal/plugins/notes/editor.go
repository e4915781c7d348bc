package notes

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/sidenotes/internal/keymap"
	"github.com/marcus/sidenotes/internal/msg"
	"github.com/marcus/sidenotes/internal/richtext"
)

// keyEvent converts a bubbletea key into the interpreter's key event.
func keyEvent(k tea.KeyMsg) richtext.KeyEvent {
	var ev richtext.KeyEvent
	s := k.String()
	for {
		switch {
		case len(s) > 5 && strings.HasPrefix(s, "ctrl+"):
			ev.Ctrl = true
			s = s[5:]
		case len(s) > 4 && strings.HasPrefix(s, "alt+"):
			ev.Meta = true
			s = s[4:]
		case len(s) > 6 && strings.HasPrefix(s, "shift+"):
			ev.Shift = true
			s = s[6:]
		default:
			ev.Key = strings.ToLower(s)
			return ev
		}
	}
}

// restoreCmd turns a scheduled restore into a tick.
func restoreCmd(d richtext.Deferred) tea.Cmd {
	if !d.Scheduled() {
		return nil
	}
	gen := d.Gen
	return tea.Tick(d.Delay, func(time.Time) tea.Msg { return RestoreTickMsg{Gen: gen} })
}

// movements maps navigation keys to caret moves; the bool extends the selection.
var movements = map[string]struct {
	dir    richtext.Direction
	extend bool
}{
	"left":        {richtext.MoveLeft, false},
	"right":       {richtext.MoveRight, false},
	"up":          {richtext.MoveUp, false},
	"down":        {richtext.MoveDown, false},
	"home":        {richtext.MoveLineStart, false},
	"end":         {richtext.MoveLineEnd, false},
	"ctrl+home":   {richtext.MoveDocStart, false},
	"ctrl+end":    {richtext.MoveDocEnd, false},
	"shift+left":  {richtext.MoveLeft, true},
	"shift+right": {richtext.MoveRight, true},
	"shift+up":    {richtext.MoveUp, true},
	"shift+down":  {richtext.MoveDown, true},
	"shift+home":  {richtext.MoveLineStart, true},
	"shift+end":   {richtext.MoveLineEnd, true},
}

// handleEditorKey processes keys while the rich-text editor is focused.
// Bound commands run first, then the keystroke interpreter, then the
// default editing primitives.
func (p *Plugin) handleEditorKey(k tea.KeyMsg) tea.Cmd {
	h := p.host
	rev := h.Revision()
	cmd := p.editorCommand(k)
	if cmd == nil && p.activePane == PaneEditor && p.host == h {
		p.editorDefault(k)
	}

	var content tea.Cmd
	if p.host == h && h.Revision() != rev {
		content = p.queueSave(fieldContent, h.Document().Markup())
	}
	p.ensureCaretVisible()
	return tea.Batch(cmd, content)
}

// editorCommand runs the bound command or interpreter action for k. It
// returns nil when the key is left to the default primitives.
func (p *Plugin) editorCommand(k tea.KeyMsg) tea.Cmd {
	command := p.lookup(k)
	if name, ok := strings.CutPrefix(command, keymap.FormatPrefix); ok {
		fc, err := richtext.ParseCommand(name)
		if err != nil {
			p.ctx.Logger.Warn("notes: unknown format command", "cmd", name, "err", err)
			return noop
		}
		return orNoop(restoreCmd(p.editor.Apply(fc)))
	}

	switch command {
	case keymap.CmdQuit:
		return tea.Sequence(p.flushSaves(), tea.Quit)
	case keymap.CmdBack:
		return orNoop(p.focusList())
	case keymap.CmdSave:
		if !p.dirty() {
			return msg.ShowToast("Already saved", msg.DefaultToastDuration)
		}
		return p.flushSaves()
	case keymap.CmdLineBreak:
		p.host.InsertText("\n")
		return noop
	case keymap.CmdSelectAll:
		p.host.SelectAll()
		return noop
	case keymap.CmdEditTitle:
		return orNoop(p.focusTitle())
	case keymap.CmdToggleSidebar:
		return orNoop(p.toggleSidebar())
	}

	if handled, d := p.editor.HandleKey(keyEvent(k)); handled {
		return orNoop(restoreCmd(d))
	}
	return nil
}

// noop marks a key as consumed without follow-up work.
func noop() tea.Msg { return nil }

func orNoop(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return noop
	}
	return cmd
}

// editorDefault applies the plain editing primitives.
func (p *Plugin) editorDefault(k tea.KeyMsg) {
	h := p.host
	if mv, ok := movements[k.String()]; ok {
		h.Move(mv.dir, mv.extend)
		return
	}
	switch k.Type {
	case tea.KeyRunes:
		if k.Alt {
			return
		}
		text := strings.ReplaceAll(string(k.Runes), "\r\n", "\n")
		h.InsertText(strings.ReplaceAll(text, "\r", "\n"))
	case tea.KeySpace:
		h.InsertText(" ")
	case tea.KeyEnter:
		h.SplitBlock()
	case tea.KeyBackspace:
		h.Backspace()
	case tea.KeyDelete:
		h.Delete()
	}
}

// handleTitleKey processes keys while the title input is focused.
func (p *Plugin) handleTitleKey(k tea.KeyMsg) tea.Cmd {
	switch p.lookup(k) {
	case keymap.CmdQuit:
		return tea.Sequence(p.flushSaves(), tea.Quit)
	case keymap.CmdOpen:
		p.focusEditor()
		return nil
	case keymap.CmdBack:
		return p.focusList()
	}

	var cmd tea.Cmd
	p.titleInput, cmd = p.titleInput.Update(k)
	return tea.Batch(cmd, p.queueSave(fieldTitle, p.titleInput.Value()))
}
