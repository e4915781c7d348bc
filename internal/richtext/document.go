package richtext

import (
	"slices"
	"strings"
)

// BlockID identifies a block for the lifetime of a Document. IDs are never
// reused, so a position naming a removed block stays detectably stale.
type BlockID uint64

// Mark is a bitset of inline styles.
type Mark uint8

const (
	Bold Mark = 1 << iota
	Italic
	Underline
	Strikethrough
)

// Has reports whether all bits of o are set.
func (m Mark) Has(o Mark) bool { return m&o == o }

// String returns a compact description such as "bold+italic".
func (m Mark) String() string {
	if m == 0 {
		return "none"
	}
	var parts []string
	for _, x := range []struct {
		mark Mark
		name string
	}{{Bold, "bold"}, {Italic, "italic"}, {Underline, "underline"}, {Strikethrough, "strikethrough"}} {
		if m.Has(x.mark) {
			parts = append(parts, x.name)
		}
	}
	return strings.Join(parts, "+")
}

// BlockStyle is the block-level format of a block.
type BlockStyle int

const (
	Paragraph BlockStyle = iota
	Heading1
	Heading2
	Heading3
)

// HeadingStyle maps a heading level (1..3) to its style; level 0 is Paragraph.
func HeadingStyle(level int) (BlockStyle, bool) {
	switch level {
	case 0:
		return Paragraph, true
	case 1:
		return Heading1, true
	case 2:
		return Heading2, true
	case 3:
		return Heading3, true
	}
	return Paragraph, false
}

// Tag returns the markup element name for the style.
func (s BlockStyle) Tag() string {
	switch s {
	case Heading1:
		return "h1"
	case Heading2:
		return "h2"
	case Heading3:
		return "h3"
	default:
		return "p"
	}
}

// String returns the style name.
func (s BlockStyle) String() string {
	if s == Paragraph {
		return "paragraph"
	}
	return s.Tag()
}

// Run is a maximal span of text sharing the same marks.
type Run struct {
	Text  string
	Marks Mark
}

// Block is one block-level element. Its text may contain '\n', which is a
// line break inside the block.
type Block struct {
	ID    BlockID
	Style BlockStyle
	text  []rune
	marks []Mark
}

// Text returns the block's plain text.
func (b *Block) Text() string { return string(b.text) }

// Len returns the block length in runes.
func (b *Block) Len() int { return len(b.text) }

// MarkAt returns the marks of the rune at i, or 0 when out of range.
func (b *Block) MarkAt(i int) Mark {
	if i < 0 || i >= len(b.marks) {
		return 0
	}
	return b.marks[i]
}

// Runs returns the block text split into runs of equal marks.
func (b *Block) Runs() []Run {
	var runs []Run
	start := 0
	for i := 1; i <= len(b.text); i++ {
		if i == len(b.text) || b.marks[i] != b.marks[start] {
			runs = append(runs, Run{Text: string(b.text[start:i]), Marks: b.marks[start]})
			start = i
		}
	}
	return runs
}

// Lines returns the block text split at line breaks.
func (b *Block) Lines() []string {
	return strings.Split(string(b.text), "\n")
}

func (b *Block) append(text string, marks Mark) {
	for _, r := range text {
		b.text = append(b.text, r)
		b.marks = append(b.marks, marks)
	}
}

// Document is an ordered list of blocks. A Document always holds at least
// one block. It is not safe for concurrent use; an editor owns exactly one.
type Document struct {
	blocks []*Block
	nextID BlockID
}

// NewDocument returns a document holding one empty paragraph.
func NewDocument() *Document {
	d := &Document{}
	d.appendBlock(Paragraph)
	return d
}

func (d *Document) newBlock(style BlockStyle) *Block {
	d.nextID++
	return &Block{ID: d.nextID, Style: style}
}

func (d *Document) appendBlock(style BlockStyle) *Block {
	b := d.newBlock(style)
	d.blocks = append(d.blocks, b)
	return b
}

// Blocks returns the blocks in order. The slice is a copy; the blocks are not.
func (d *Document) Blocks() []*Block {
	return slices.Clone(d.blocks)
}

// Find returns the block with the given ID and its index, or nil and -1.
func (d *Document) Find(id BlockID) (*Block, int) {
	for i, b := range d.blocks {
		if b.ID == id {
			return b, i
		}
	}
	return nil, -1
}

// PlainText returns the document text with blocks separated by '\n'.
func (d *Document) PlainText() string {
	parts := make([]string, len(d.blocks))
	for i, b := range d.blocks {
		parts[i] = b.Text()
	}
	return strings.Join(parts, "\n")
}

// Empty reports whether the document contains no text at all.
func (d *Document) Empty() bool {
	for _, b := range d.blocks {
		if b.Len() > 0 {
			return false
		}
	}
	return true
}

// Start returns the first position in the document.
func (d *Document) Start() Position {
	return Position{Block: d.blocks[0].ID}
}

// End returns the last position in the document.
func (d *Document) End() Position {
	last := d.blocks[len(d.blocks)-1]
	return Position{Block: last.ID, Offset: last.Len()}
}

// Valid reports whether p names an existing block and an offset inside it.
func (d *Document) Valid(p Position) bool {
	b, _ := d.Find(p.Block)
	return b != nil && p.Offset >= 0 && p.Offset <= b.Len()
}

// Compare orders two valid positions: -1, 0 or +1.
func (d *Document) Compare(a, b Position) int {
	_, ai := d.Find(a.Block)
	_, bi := d.Find(b.Block)
	switch {
	case ai < bi:
		return -1
	case ai > bi:
		return 1
	case a.Offset < b.Offset:
		return -1
	case a.Offset > b.Offset:
		return 1
	}
	return 0
}

// Ordered returns the selection bounds in document order.
func (d *Document) Ordered(sel Selection) (start, end Position) {
	if d.Compare(sel.Anchor, sel.Focus) <= 0 {
		return sel.Anchor, sel.Focus
	}
	return sel.Focus, sel.Anchor
}

// TextIn returns the plain text between two ordered positions; block
// boundaries contribute '\n'.
func (d *Document) TextIn(start, end Position) string {
	sb, si := d.Find(start.Block)
	eb, ei := d.Find(end.Block)
	if si == ei {
		return string(sb.text[start.Offset:end.Offset])
	}
	var out strings.Builder
	out.WriteString(string(sb.text[start.Offset:]))
	for i := si + 1; i < ei; i++ {
		out.WriteByte('\n')
		out.WriteString(d.blocks[i].Text())
	}
	out.WriteByte('\n')
	out.WriteString(string(eb.text[:end.Offset]))
	return out.String()
}

// forEachCell visits every rune index between two ordered positions.
func (d *Document) forEachCell(start, end Position, fn func(b *Block, i int)) {
	_, si := d.Find(start.Block)
	_, ei := d.Find(end.Block)
	for bi := si; bi <= ei; bi++ {
		b := d.blocks[bi]
		from, to := 0, b.Len()
		if bi == si {
			from = start.Offset
		}
		if bi == ei {
			to = end.Offset
		}
		for i := from; i < to; i++ {
			fn(b, i)
		}
	}
}

// deleteRange removes the text between two ordered positions. A range that
// spans blocks replaces all of them with one new block.
func (d *Document) deleteRange(start, end Position) Position {
	sb, si := d.Find(start.Block)
	eb, ei := d.Find(end.Block)
	if si == ei {
		sb.text = slices.Delete(sb.text, start.Offset, end.Offset)
		sb.marks = slices.Delete(sb.marks, start.Offset, end.Offset)
		return start
	}
	merged := d.newBlock(sb.Style)
	merged.text = append(slices.Clone(sb.text[:start.Offset]), eb.text[end.Offset:]...)
	merged.marks = append(slices.Clone(sb.marks[:start.Offset]), eb.marks[end.Offset:]...)
	d.blocks = slices.Replace(d.blocks, si, ei+1, merged)
	return Position{Block: merged.ID, Offset: start.Offset}
}

// insert places text at pos, every rune carrying marks, and returns the
// position just after it.
func (d *Document) insert(pos Position, text string, marks Mark) Position {
	b, _ := d.Find(pos.Block)
	runes := []rune(text)
	ms := make([]Mark, len(runes))
	for i := range ms {
		ms[i] = marks
	}
	b.text = slices.Insert(b.text, pos.Offset, runes...)
	b.marks = slices.Insert(b.marks, pos.Offset, ms...)
	return Position{Block: b.ID, Offset: pos.Offset + len(runes)}
}

// insertCells is insert with per-rune marks.
func (d *Document) insertCells(pos Position, runes []rune, marks []Mark) Position {
	b, _ := d.Find(pos.Block)
	b.text = slices.Insert(b.text, pos.Offset, runes...)
	b.marks = slices.Insert(b.marks, pos.Offset, marks...)
	return Position{Block: b.ID, Offset: pos.Offset + len(runes)}
}

// splitBlock breaks the block at pos into two and returns the start of the
// second. Splitting at the very end of a heading yields a paragraph.
func (d *Document) splitBlock(pos Position) Position {
	b, i := d.Find(pos.Block)
	style := b.Style
	if pos.Offset == b.Len() {
		style = Paragraph
	}
	tail := d.newBlock(style)
	tail.text = slices.Clone(b.text[pos.Offset:])
	tail.marks = slices.Clone(b.marks[pos.Offset:])
	b.text = slices.Clip(b.text[:pos.Offset])
	b.marks = slices.Clip(b.marks[:pos.Offset])
	d.blocks = slices.Insert(d.blocks, i+1, tail)
	return Position{Block: tail.ID}
}

// joinWithPrevious appends the block at index i to the block before it and
// removes it. It returns the junction position.
func (d *Document) joinWithPrevious(i int) Position {
	prev, cur := d.blocks[i-1], d.blocks[i]
	at := prev.Len()
	prev.text = append(prev.text, cur.text...)
	prev.marks = append(prev.marks, cur.marks...)
	d.blocks = slices.Delete(d.blocks, i, i+1)
	return Position{Block: prev.ID, Offset: at}
}
