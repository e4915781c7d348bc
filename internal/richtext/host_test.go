package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHost(t *testing.T, markup string) *DocumentHost {
	t.Helper()
	doc, err := Parse(markup)
	require.NoError(t, err)
	return NewDocumentHost(doc)
}

func TestDocumentHostTyping(t *testing.T) {
	h := NewDocumentHost(NewDocument())
	h.InsertText("hello")
	h.SplitBlock()
	h.InsertText("world")
	assert.Equal(t, "hello\nworld", h.Document().PlainText())
	assert.Len(t, h.Document().Blocks(), 2)

	h.Backspace()
	h.Move(MoveLineStart, false)
	h.Backspace()
	assert.Equal(t, "helloworl", h.Document().PlainText())
	assert.Len(t, h.Document().Blocks(), 1, "backspace at block start joins blocks")
}

func TestDocumentHostInsertionPointStyle(t *testing.T) {
	h := NewDocumentHost(NewDocument())
	h.InsertText("a")
	h.ToggleInlineStyle(Bold)
	assert.Equal(t, Bold, h.ActiveMarks())
	h.InsertText("b")
	h.InsertText("c")

	runs := h.Document().Blocks()[0].Runs()
	assert.Equal(t, []Run{{Text: "a"}, {Text: "bc", Marks: Bold}}, runs)

	h.Move(MoveLeft, false)
	h.Move(MoveRight, false)
	assert.Equal(t, Bold, h.ActiveMarks(), "marks follow the rune before the caret")
}

func TestDocumentHostToggleOverSelection(t *testing.T) {
	h := mustHost(t, "<p>a<b>b</b>c</p>")
	h.SelectAll()
	h.ToggleInlineStyle(Bold)
	assert.Equal(t, "<p><b>abc</b></p>", h.Document().Markup())
	h.ToggleInlineStyle(Bold)
	assert.Equal(t, "<p>abc</p>", h.Document().Markup())
}

func TestDocumentHostSetBlockStyle(t *testing.T) {
	h := mustHost(t, "<p>a</p><p>b</p><p>c</p>")
	blocks := h.Document().Blocks()
	require.NoError(t, h.SetSelection(Selection{
		Anchor: Position{Block: blocks[0].ID},
		Focus:  Position{Block: blocks[1].ID, Offset: 1},
	}))
	h.SetBlockStyle(Heading1)
	assert.Equal(t, "<h1>a</h1><h1>b</h1><p>c</p>", h.Document().Markup())
	assert.Equal(t, blocks[0].ID, h.Document().Blocks()[0].ID, "styling keeps block identity")
}

func TestDocumentHostCrossBlockReplaceMakesNewBlock(t *testing.T) {
	h := mustHost(t, "<p>ab</p><p>cd</p>")
	before := h.Document().Blocks()
	require.NoError(t, h.SetSelection(Selection{
		Anchor: Position{Block: before[0].ID, Offset: 1},
		Focus:  Position{Block: before[1].ID, Offset: 1},
	}))
	assert.Equal(t, "b\nc", h.SelectedText())

	h.InsertText("X")
	after := h.Document().Blocks()
	require.Len(t, after, 1)
	assert.Equal(t, "aXd", after[0].Text())
	assert.NotEqual(t, before[0].ID, after[0].ID)
	assert.NotEqual(t, before[1].ID, after[0].ID)
}

func TestDocumentHostSetSelectionStale(t *testing.T) {
	h := mustHost(t, "<p>abc</p>")
	id := h.Document().Blocks()[0].ID

	err := h.SetSelection(Caret(Position{Block: id, Offset: 4}))
	assert.ErrorIs(t, err, ErrStaleSelection)
	err = h.SetSelection(Caret(Position{Block: id + 100}))
	assert.ErrorIs(t, err, ErrStaleSelection)
	assert.NoError(t, h.SetSelection(Caret(Position{Block: id, Offset: 3})))
}

func TestDocumentHostVerticalMovement(t *testing.T) {
	h := mustHost(t, "<p>long line<br>ab</p><p>xyz</p>")
	blocks := h.Document().Blocks()
	require.NoError(t, h.SetSelection(Caret(Position{Block: blocks[0].ID, Offset: 7})))

	h.Move(MoveDown, false)
	sel, _ := h.Selection()
	assert.Equal(t, Position{Block: blocks[0].ID, Offset: 12}, sel.Focus, "column clamps to line end")

	h.Move(MoveDown, true)
	sel, _ = h.Selection()
	assert.Equal(t, Position{Block: blocks[1].ID, Offset: 2}, sel.Focus)
	assert.Equal(t, Position{Block: blocks[0].ID, Offset: 12}, sel.Anchor)
	assert.Equal(t, "\nxy", h.SelectedText())
}

func TestDocumentHostInsertMarkup(t *testing.T) {
	h := mustHost(t, "<p><b>ab</b></p>")
	h.InsertMarkup("<br>1. <i>x</i>")
	assert.Equal(t, "ab\n1. x", h.Document().PlainText())
	runs := h.Document().Blocks()[0].Runs()
	assert.Equal(t, Run{Text: "x", Marks: Bold | Italic}, runs[len(runs)-1])

	sel, _ := h.Selection()
	assert.Equal(t, 7, sel.Focus.Offset)
}

func TestDocumentHostDelete(t *testing.T) {
	h := mustHost(t, "<p>ab</p><p>c</p>")
	h.Move(MoveDocStart, false)
	h.Move(MoveLineEnd, false)
	h.Delete()
	assert.Equal(t, "abc", h.Document().PlainText())
	h.Delete()
	assert.Equal(t, "ab", h.Document().PlainText())
	h.Delete()
	assert.Equal(t, "ab", h.Document().PlainText(), "delete at document end is a no-op")
	h.Move(MoveLeft, false)
	h.Delete()
	assert.Equal(t, "a", h.Document().PlainText())
	assert.Greater(t, h.Revision(), uint64(0))
}
