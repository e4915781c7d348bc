package richtext

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrStaleSelection is returned when a selection names a block that no
	// longer exists or an offset past its end.
	ErrStaleSelection = errors.New("selection is stale")

	// ErrNoSelection is returned when an operation needs a selection and
	// there is none.
	ErrNoSelection = errors.New("no selection")
)

// Position is a caret location: a block and a rune offset inside it.
type Position struct {
	Block  BlockID
	Offset int
}

// Selection is a range between an anchor and a focus. The focus is where
// typing happens. Anchor == Focus is a caret.
type Selection struct {
	Anchor Position
	Focus  Position
}

// Caret returns a collapsed selection at p.
func Caret(p Position) Selection {
	return Selection{Anchor: p, Focus: p}
}

// Collapsed reports whether the selection is a bare caret.
func (s Selection) Collapsed() bool {
	return s.Anchor == s.Focus
}

// Snapshot is an opaque capture of a selection taken before a mutation.
// Snapshots are comparable with ==.
type Snapshot struct {
	sel Selection
}

// Selection returns the captured selection.
func (s Snapshot) Selection() Selection { return s.sel }

// IsValidAgainst reports whether the captured positions still exist in doc.
func (s Snapshot) IsValidAgainst(doc *Document) bool {
	return doc.Valid(s.sel.Anchor) && doc.Valid(s.sel.Focus)
}

// Capture snapshots the host's current selection. It returns nil when the
// host has no selection.
func Capture(h Host, logger *slog.Logger) *Snapshot {
	sel, ok := h.Selection()
	if !ok {
		logger.Debug("richtext: no selection to capture")
		return nil
	}
	logger.Debug("richtext: selection captured",
		"anchor", sel.Anchor, "focus", sel.Focus, "collapsed", sel.Collapsed())
	return &Snapshot{sel: sel}
}

// Restore re-applies a snapshot. A nil snapshot, a stale snapshot or a host
// failure leaves the selection as it is; the failure is logged and Restore
// reports false. It never panics.
func Restore(h Host, snap *Snapshot, logger *slog.Logger) (restored bool) {
	if snap == nil {
		logger.Debug("richtext: no selection to restore")
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("richtext: selection restore failed", "error", fmt.Sprint(r))
			restored = false
		}
	}()
	if err := h.SetSelection(snap.sel); err != nil {
		logger.Debug("richtext: selection restore failed", "error", err)
		return false
	}
	logger.Debug("richtext: selection restored")
	return true
}
