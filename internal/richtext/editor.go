package richtext

import (
	"html"
	"log/slog"
	"strings"
	"time"
)

// Timing holds the restore delays for each Deferral class.
type Timing struct {
	Frame  time.Duration // NextFrame
	Settle time.Duration // Settle
}

// DefaultTiming returns one 60Hz frame for style toggles and a short settle
// delay for list rewrites.
func DefaultTiming() Timing {
	return Timing{Frame: 16 * time.Millisecond, Settle: 25 * time.Millisecond}
}

func (t Timing) delay(d Deferral) time.Duration {
	if d == Settle {
		return t.Settle
	}
	return t.Frame
}

// Deferred is a scheduled selection restore. The caller waits Delay and then
// calls Editor.RunRestore(Gen). A zero Gen means nothing was scheduled.
type Deferred struct {
	Gen   uint64
	Delay time.Duration
}

// Scheduled reports whether a restore was scheduled.
func (d Deferred) Scheduled() bool { return d.Gen != 0 }

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger used for selection diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithTiming overrides the restore delays.
func WithTiming(t Timing) Option {
	return func(e *Editor) { e.timing = t }
}

// WithOnChange registers a callback run after every content mutation with
// the bound note ID. It is how edits reach auto-save.
func WithOnChange(fn func(noteID string)) Option {
	return func(e *Editor) { e.onChange = fn }
}

// Editor dispatches format commands and structural keys against the host it
// is bound to. It keeps at most one pending selection restore; scheduling a
// new one supersedes the old, and rebinding drops it.
type Editor struct {
	logger   *slog.Logger
	timing   Timing
	onChange func(noteID string)

	noteID string
	host   Host

	gen        uint64 // last generation issued, never reused
	pendingGen uint64
	pending    *Snapshot
}

// New creates an unbound Editor.
func New(opts ...Option) *Editor {
	e := &Editor{
		logger: slog.New(slog.DiscardHandler),
		timing: DefaultTiming(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Bind attaches the editor to a note's editable region. Any restore queued
// for the previous binding is dropped.
func (e *Editor) Bind(noteID string, h Host) {
	e.noteID = noteID
	e.host = h
	e.clearPending()
	e.logger.Debug("richtext: editor bound", "note", noteID)
}

// Unbind detaches the editor. Commands and keys are ignored until the next
// Bind.
func (e *Editor) Unbind() {
	e.noteID = ""
	e.host = nil
	e.clearPending()
}

// Bound reports whether a note is bound.
func (e *Editor) Bound() bool { return e.host != nil }

// NoteID returns the bound note ID, or "".
func (e *Editor) NoteID() string { return e.noteID }

// Host returns the bound host, or nil.
func (e *Editor) Host() Host { return e.host }

// Pending returns the generation of the queued restore, or 0.
func (e *Editor) Pending() uint64 { return e.pendingGen }

func (e *Editor) clearPending() {
	e.pending = nil
	e.pendingGen = 0
}

func (e *Editor) changed() {
	if e.onChange != nil {
		e.onChange(e.noteID)
	}
}

func (e *Editor) schedule(snap *Snapshot, d Deferral) Deferred {
	if snap == nil {
		return Deferred{}
	}
	e.gen++
	e.pending = snap
	e.pendingGen = e.gen
	return Deferred{Gen: e.gen, Delay: e.timing.delay(d)}
}

// RunRestore performs the restore scheduled as gen and refocuses the host.
// It does nothing when gen was superseded or the binding changed since.
func (e *Editor) RunRestore(gen uint64) bool {
	if e.host == nil || gen == 0 || gen != e.pendingGen {
		e.logger.Debug("richtext: restore dropped", "gen", gen, "pending", e.pendingGen)
		return false
	}
	snap := e.pending
	e.clearPending()
	ok := Restore(e.host, snap, e.logger)
	e.host.Focus()
	return ok
}

// Apply runs a format command: snapshot, focus, mutate, notify, then
// schedule the restore. Without a bound note it does nothing; without a
// selection it only focuses the region.
func (e *Editor) Apply(cmd Command) Deferred {
	h := e.host
	if h == nil {
		e.logger.Debug("richtext: command ignored, no note bound", "cmd", cmd.String())
		return Deferred{}
	}
	snap := Capture(h, e.logger)
	h.Focus()
	if snap == nil {
		return Deferred{}
	}

	switch cmd.Kind {
	case CmdInline:
		h.ToggleInlineStyle(cmd.Mark)
	case CmdBlock:
		h.SetBlockStyle(cmd.Style)
	case CmdBulletList, CmdNumberedList:
		mode := ModeBullet
		marker := string(BulletGlyph) + " "
		if cmd.Kind == CmdNumberedList {
			mode = ModeNumbered
			marker = "1. "
		}
		selected := h.SelectedText()
		if snap.Selection().Collapsed() || selected == "" {
			// a bare caret gets one marker and keeps the caret after it
			h.InsertMarkup(html.EscapeString(marker))
			e.changed()
			return Deferred{}
		}
		lines := Renumber(strings.Split(selected, "\n"), mode)
		h.InsertMarkup(ListMarkup(lines))
	default:
		e.logger.Debug("richtext: unknown command", "kind", cmd.Kind)
		return Deferred{}
	}
	e.changed()
	return e.schedule(snap, cmd.Deferral())
}
