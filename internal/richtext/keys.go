package richtext

import (
	"html"
	"strconv"
	"strings"
	"unicode/utf8"
)

// KeyEvent is a key press as the interpreter sees it. Key is a lower-case
// key name: a single character ("b") or one of "enter", "tab".
type KeyEvent struct {
	Key   string
	Ctrl  bool
	Meta  bool
	Shift bool
}

// Plain reports whether no modifier is held.
func (k KeyEvent) Plain() bool { return !k.Ctrl && !k.Meta && !k.Shift }

// HandleKey interprets structural keys. It reports whether the key was
// consumed; when it was, the caller must not run its default handling.
func (e *Editor) HandleKey(k KeyEvent) (bool, Deferred) {
	h := e.host
	if h == nil {
		return false, Deferred{}
	}
	if k.Ctrl || k.Meta {
		switch k.Key {
		case "b":
			return true, e.Apply(CmdBold)
		case "i":
			return true, e.Apply(CmdItalic)
		case "u":
			return true, e.Apply(CmdUnderline)
		}
		return false, Deferred{}
	}
	switch k.Key {
	case "enter":
		if k.Shift {
			return false, Deferred{}
		}
		return e.enter(h), Deferred{}
	case "tab":
		e.tab(h, k.Shift)
		return true, Deferred{}
	}
	return false, Deferred{}
}

// caretLine returns the block text and the rune bounds of the line holding
// the caret. ok is false when there is no caret or the block is gone.
func caretLine(h Host) (sel Selection, text []rune, start, end int, ok bool) {
	sel, ok = h.Selection()
	if !ok {
		return sel, nil, 0, 0, false
	}
	s, ok := h.ContainerText(sel.Focus.Block)
	if !ok {
		return sel, nil, 0, 0, false
	}
	text = []rune(s)
	if sel.Focus.Offset > len(text) {
		return sel, nil, 0, 0, false
	}
	start, end = lineBounds(text, sel.Focus.Offset)
	return sel, text, start, end, true
}

// enter continues or exits a list. Only the text before the caret decides.
func (e *Editor) enter(h Host) bool {
	sel, text, start, _, ok := caretLine(h)
	if !ok || !sel.Collapsed() {
		return false
	}
	c := Classify(string(text[start:sel.Focus.Offset]))
	switch {
	case c.Kind == KindPlain:
		return false
	case c.Empty():
		h.InsertMarkup("<br>")
	case c.Kind == KindNumbered:
		next := c.Indent + strconv.Itoa(c.Ordinal+1) + ". "
		h.InsertMarkup("<br>" + html.EscapeString(next))
	default:
		// canonicalize "*" bullets before continuing
		line := Selection{
			Anchor: Position{Block: sel.Focus.Block, Offset: start},
			Focus:  sel.Focus,
		}
		if err := h.SetSelection(line); err != nil {
			e.logger.Debug("richtext: select line failed", "error", err)
			return false
		}
		h.InsertText(c.Render(string(BulletGlyph)))
		h.InsertMarkup("<br>" + html.EscapeString(c.Indent+string(BulletGlyph)+" "))
	}
	e.changed()
	return true
}

// tab indents or outdents the caret line by one unit. The whole line is
// rewritten so text after the caret survives.
func (e *Editor) tab(h Host, outdent bool) {
	sel, text, start, end, ok := caretLine(h)
	if !ok {
		return
	}
	c := Classify(string(text[start:end]))
	indent := c.Indent + strings.Repeat(" ", IndentWidth)
	if outdent {
		indent = trimIndentUnit(c.Indent)
	}

	var line string
	switch c.Kind {
	case KindNumbered:
		ordinal := 1
		if outdent {
			ordinal = siblingOrdinal(string(text[:start]), indentDepth(indent, IndentWidth))
		}
		line = indent + strconv.Itoa(ordinal) + ". " + c.Payload
	case KindBullet:
		line = indent + string(c.Glyph) + " " + c.Payload
	default:
		e.tabPlain(h, sel, text, start, outdent)
		return
	}

	block := sel.Focus.Block
	fromEnd := end - sel.Focus.Offset
	rng := Selection{Anchor: Position{block, start}, Focus: Position{block, end}}
	if err := h.SetSelection(rng); err != nil {
		e.logger.Debug("richtext: select line failed", "error", err)
		return
	}
	h.InsertText(line)
	newEnd := start + utf8.RuneCountInString(line)
	caret := max(newEnd-fromEnd, start)
	if err := h.SetSelection(Caret(Position{block, caret})); err != nil {
		e.logger.Debug("richtext: caret placement failed", "error", err)
	}
	e.changed()
}

// tabPlain inserts one indentation unit at the caret, or removes up to one
// unit of spaces before the caret (falling back to the line's leading
// spaces).
func (e *Editor) tabPlain(h Host, sel Selection, text []rune, start int, outdent bool) {
	if !outdent {
		h.InsertText(strings.Repeat(" ", IndentWidth))
		e.changed()
		return
	}
	if !sel.Collapsed() {
		return
	}
	block, off := sel.Focus.Block, sel.Focus.Offset
	from, to := off, off
	for from > start && off-from < IndentWidth && text[from-1] == ' ' {
		from--
	}
	if from == to {
		from, to = start, start
		for to < len(text) && to-start < IndentWidth && text[to] == ' ' {
			to++
		}
	}
	if from == to {
		return
	}
	if err := h.SetSelection(Selection{Anchor: Position{block, from}, Focus: Position{block, to}}); err != nil {
		e.logger.Debug("richtext: select indent failed", "error", err)
		return
	}
	h.InsertText("")
	if off > to {
		// caret sat after removed leading spaces
		if err := h.SetSelection(Caret(Position{block, off - (to - from)})); err != nil {
			e.logger.Debug("richtext: caret placement failed", "error", err)
		}
	}
	e.changed()
}

// trimIndentUnit drops up to one indentation unit from the front of indent.
func trimIndentUnit(indent string) string {
	runes := []rune(indent)
	return string(runes[min(IndentWidth, len(runes)):])
}

// siblingOrdinal scans the lines of before from the bottom for the last
// numbered line at depth and returns its ordinal plus one, or 1.
func siblingOrdinal(before string, depth int) int {
	lines := strings.Split(before, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		c := Classify(lines[i])
		if c.Kind == KindNumbered && c.IndentDepth == depth {
			return c.Ordinal + 1
		}
	}
	return 1
}
