package richtext

import (
	"fmt"
)

// Host is the capability set the engine needs from an editable surface.
type Host interface {
	// Selection returns the current selection; ok is false when there is none.
	Selection() (sel Selection, ok bool)
	// SetSelection replaces the selection. It returns ErrStaleSelection when
	// the selection does not fit the current document.
	SetSelection(sel Selection) error
	// SelectedText returns the plain text of the selection.
	SelectedText() string
	// ContainerText returns the live text of the block holding a position.
	ContainerText(id BlockID) (string, bool)
	// ToggleInlineStyle toggles a mark over the selection, or sets the
	// insertion-point style when the selection is collapsed.
	ToggleInlineStyle(m Mark)
	// SetBlockStyle sets the block style of every block the selection touches.
	SetBlockStyle(s BlockStyle)
	// InsertMarkup replaces the selection with parsed markup and leaves the
	// caret after it.
	InsertMarkup(markup string)
	// InsertText replaces the selection with literal text.
	InsertText(text string)
	Focus()
	Focused() bool
}

// DocumentHost is the in-process Host over a Document. Besides the Host
// capabilities it provides the default editing primitives (typing,
// deletion, caret movement) used when the interpreter declines a key.
type DocumentHost struct {
	doc     *Document
	sel     Selection
	hasSel  bool
	focused bool

	// insertion-point style set by ToggleInlineStyle on a caret
	typing    Mark
	typingSet bool

	rev uint64
}

var _ Host = (*DocumentHost)(nil)

// NewDocumentHost wraps doc with the caret at the end of the document.
func NewDocumentHost(doc *Document) *DocumentHost {
	h := &DocumentHost{doc: doc}
	h.sel = Caret(doc.End())
	h.hasSel = true
	return h
}

// Document returns the underlying document.
func (h *DocumentHost) Document() *Document { return h.doc }

// Revision increases on every content mutation.
func (h *DocumentHost) Revision() uint64 { return h.rev }

func (h *DocumentHost) changed() { h.rev++ }

// Selection implements Host.
func (h *DocumentHost) Selection() (Selection, bool) {
	return h.sel, h.hasSel
}

// SetSelection implements Host.
func (h *DocumentHost) SetSelection(sel Selection) error {
	if !h.doc.Valid(sel.Anchor) || !h.doc.Valid(sel.Focus) {
		return fmt.Errorf("set selection %v: %w", sel, ErrStaleSelection)
	}
	h.setSelection(sel)
	return nil
}

func (h *DocumentHost) setSelection(sel Selection) {
	h.sel = sel
	h.hasSel = true
	h.typingSet = false
}

// ClearSelection removes the selection entirely.
func (h *DocumentHost) ClearSelection() {
	h.hasSel = false
	h.typingSet = false
}

// SelectedText implements Host.
func (h *DocumentHost) SelectedText() string {
	if !h.hasSel {
		return ""
	}
	start, end := h.doc.Ordered(h.sel)
	return h.doc.TextIn(start, end)
}

// ContainerText implements Host.
func (h *DocumentHost) ContainerText(id BlockID) (string, bool) {
	b, _ := h.doc.Find(id)
	if b == nil {
		return "", false
	}
	return b.Text(), true
}

// Focus implements Host.
func (h *DocumentHost) Focus() { h.focused = true }

// Blur drops input focus.
func (h *DocumentHost) Blur() { h.focused = false }

// Focused implements Host.
func (h *DocumentHost) Focused() bool { return h.focused }

// ActiveMarks returns the marks new text would get at the caret.
func (h *DocumentHost) ActiveMarks() Mark {
	if h.typingSet {
		return h.typing
	}
	if !h.hasSel {
		return 0
	}
	start, end := h.doc.Ordered(h.sel)
	b, _ := h.doc.Find(start.Block)
	if start != end {
		return b.MarkAt(start.Offset)
	}
	return b.MarkAt(start.Offset - 1)
}

// ActiveBlockStyle returns the style of the block holding the caret.
func (h *DocumentHost) ActiveBlockStyle() BlockStyle {
	if !h.hasSel {
		return Paragraph
	}
	b, _ := h.doc.Find(h.sel.Focus.Block)
	if b == nil {
		return Paragraph
	}
	return b.Style
}

// ToggleInlineStyle implements Host.
func (h *DocumentHost) ToggleInlineStyle(m Mark) {
	if !h.hasSel {
		return
	}
	if h.sel.Collapsed() {
		h.typing = h.ActiveMarks() ^ m
		h.typingSet = true
		return
	}
	start, end := h.doc.Ordered(h.sel)
	all := true
	h.doc.forEachCell(start, end, func(b *Block, i int) {
		if b.text[i] != '\n' && !b.marks[i].Has(m) {
			all = false
		}
	})
	h.doc.forEachCell(start, end, func(b *Block, i int) {
		if all {
			b.marks[i] &^= m
		} else {
			b.marks[i] |= m
		}
	})
	h.changed()
}

// SetBlockStyle implements Host.
func (h *DocumentHost) SetBlockStyle(s BlockStyle) {
	if !h.hasSel {
		return
	}
	start, end := h.doc.Ordered(h.sel)
	_, si := h.doc.Find(start.Block)
	_, ei := h.doc.Find(end.Block)
	for i := si; i <= ei; i++ {
		h.doc.blocks[i].Style = s
	}
	h.changed()
}

// deleteSelection removes selected text and returns the caret position.
func (h *DocumentHost) deleteSelection() Position {
	start, end := h.doc.Ordered(h.sel)
	if start == end {
		return start
	}
	return h.doc.deleteRange(start, end)
}

// InsertMarkup implements Host. Markup that fails to parse is inserted as
// literal text.
func (h *DocumentHost) InsertMarkup(markup string) {
	if !h.hasSel {
		return
	}
	runes, marks, err := parseInline(markup)
	if err != nil {
		h.InsertText(markup)
		return
	}
	base := h.ActiveMarks()
	for i := range marks {
		marks[i] |= base
	}
	pos := h.deleteSelection()
	pos = h.doc.insertCells(pos, runes, marks)
	h.setSelection(Caret(pos))
	h.changed()
}

// InsertText implements Host.
func (h *DocumentHost) InsertText(text string) {
	if !h.hasSel {
		return
	}
	marks := h.ActiveMarks()
	pos := h.deleteSelection()
	pos = h.doc.insert(pos, text, marks)
	typing, typingSet := h.typing, h.typingSet
	h.setSelection(Caret(pos))
	h.typing, h.typingSet = typing, typingSet
	h.changed()
}

// SplitBlock ends the current block at the caret and starts a new one.
func (h *DocumentHost) SplitBlock() {
	if !h.hasSel {
		return
	}
	pos := h.deleteSelection()
	h.setSelection(Caret(h.doc.splitBlock(pos)))
	h.changed()
}

// Backspace deletes the selection or the rune before the caret, joining
// with the previous block at a block start.
func (h *DocumentHost) Backspace() {
	if !h.hasSel {
		return
	}
	if !h.sel.Collapsed() {
		h.setSelection(Caret(h.deleteSelection()))
		h.changed()
		return
	}
	pos := h.sel.Focus
	if pos.Offset > 0 {
		h.setSelection(Caret(h.doc.deleteRange(Position{pos.Block, pos.Offset - 1}, pos)))
		h.changed()
		return
	}
	if _, i := h.doc.Find(pos.Block); i > 0 {
		h.setSelection(Caret(h.doc.joinWithPrevious(i)))
		h.changed()
	}
}

// Delete deletes the selection or the rune after the caret, joining with
// the next block at a block end.
func (h *DocumentHost) Delete() {
	if !h.hasSel {
		return
	}
	if !h.sel.Collapsed() {
		h.setSelection(Caret(h.deleteSelection()))
		h.changed()
		return
	}
	pos := h.sel.Focus
	b, i := h.doc.Find(pos.Block)
	if pos.Offset < b.Len() {
		h.doc.deleteRange(pos, Position{pos.Block, pos.Offset + 1})
		h.changed()
		return
	}
	if i+1 < len(h.doc.blocks) {
		h.setSelection(Caret(h.doc.joinWithPrevious(i + 1)))
		h.changed()
	}
}

// Direction is a caret movement.
type Direction int

const (
	MoveLeft Direction = iota
	MoveRight
	MoveUp
	MoveDown
	MoveLineStart
	MoveLineEnd
	MoveDocStart
	MoveDocEnd
)

// Move moves the focus. With extend the anchor stays put; otherwise the
// selection collapses to the new focus.
func (h *DocumentHost) Move(dir Direction, extend bool) {
	if !h.hasSel {
		h.setSelection(Caret(h.doc.End()))
		return
	}
	if !extend && !h.sel.Collapsed() && (dir == MoveLeft || dir == MoveRight) {
		start, end := h.doc.Ordered(h.sel)
		if dir == MoveLeft {
			h.setSelection(Caret(start))
		} else {
			h.setSelection(Caret(end))
		}
		return
	}
	focus := h.moved(h.sel.Focus, dir)
	if extend {
		h.setSelection(Selection{Anchor: h.sel.Anchor, Focus: focus})
		return
	}
	h.setSelection(Caret(focus))
}

// SelectAll selects the whole document.
func (h *DocumentHost) SelectAll() {
	h.setSelection(Selection{Anchor: h.doc.Start(), Focus: h.doc.End()})
}

func (h *DocumentHost) moved(p Position, dir Direction) Position {
	b, i := h.doc.Find(p.Block)
	switch dir {
	case MoveLeft:
		if p.Offset > 0 {
			return Position{p.Block, p.Offset - 1}
		}
		if i > 0 {
			prev := h.doc.blocks[i-1]
			return Position{prev.ID, prev.Len()}
		}
	case MoveRight:
		if p.Offset < b.Len() {
			return Position{p.Block, p.Offset + 1}
		}
		if i+1 < len(h.doc.blocks) {
			return Position{h.doc.blocks[i+1].ID, 0}
		}
	case MoveLineStart:
		start, _ := lineBounds(b.text, p.Offset)
		return Position{p.Block, start}
	case MoveLineEnd:
		_, end := lineBounds(b.text, p.Offset)
		return Position{p.Block, end}
	case MoveDocStart:
		return h.doc.Start()
	case MoveDocEnd:
		return h.doc.End()
	case MoveUp, MoveDown:
		return h.vertical(p, dir == MoveUp)
	}
	return p
}

// visualLine is one rendered row of a block.
type visualLine struct {
	block *Block
	start int
	end   int
}

// visualLines flattens the document into rendered rows.
func (d *Document) visualLines() []visualLine {
	var lines []visualLine
	for _, b := range d.blocks {
		start := 0
		for i, r := range b.text {
			if r == '\n' {
				lines = append(lines, visualLine{b, start, i})
				start = i + 1
			}
		}
		lines = append(lines, visualLine{b, start, b.Len()})
	}
	return lines
}

// LineOf returns the rendered row index and column of a position.
func (d *Document) LineOf(p Position) (row, col int) {
	for i, vl := range d.visualLines() {
		if vl.block.ID == p.Block && p.Offset >= vl.start && p.Offset <= vl.end {
			return i, p.Offset - vl.start
		}
	}
	return 0, 0
}

func (h *DocumentHost) vertical(p Position, up bool) Position {
	lines := h.doc.visualLines()
	row, col := h.doc.LineOf(p)
	if up {
		row--
	} else {
		row++
	}
	if row < 0 || row >= len(lines) {
		return p
	}
	vl := lines[row]
	return Position{vl.block.ID, min(vl.start+col, vl.end)}
}

// lineBounds returns the rune range of the line holding offset.
func lineBounds(text []rune, offset int) (start, end int) {
	start = offset
	for start > 0 && text[start-1] != '\n' {
		start--
	}
	end = offset
	for end < len(text) && text[end] != '\n' {
		end++
	}
	return start, end
}
