package notes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/marcus/sidenotes/internal/notes"
	"github.com/marcus/sidenotes/internal/richtext"
	"github.com/marcus/sidenotes/internal/styles"
)

// renderView renders sidebar and main pane side by side.
func (p *Plugin) renderView(width, height int) string {
	if p.collapsed {
		return p.renderMain(width, height)
	}
	sw := min(max(p.sidebarWidth, minSidebarWidth), max(width/2, minSidebarWidth))
	mainWidth := max(width-sw-dividerWidth, 1)

	sidebar := p.renderSidebar(sw, height)
	divider := lipgloss.NewStyle().
		Foreground(styles.BorderNormal).
		Render(strings.TrimSuffix(strings.Repeat("│\n", height), "\n"))
	main := p.renderMain(mainWidth, height)
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, divider, main)
}

// renderMain renders the title row, toolbar and editor body, or the
// placeholder when no note is bound.
func (p *Plugin) renderMain(width, height int) string {
	style := lipgloss.NewStyle().Width(width).Height(height).MaxHeight(height).PaddingLeft(1)
	inner := max(width-1, 1)
	if p.active == nil {
		hint := styles.Placeholder.Render(placeholderBlank)
		return style.Render(lipgloss.Place(inner, height, lipgloss.Center, lipgloss.Center, hint))
	}

	var b strings.Builder
	b.WriteString(p.renderTitleRow(inner))
	b.WriteString("\n")
	b.WriteString(p.renderToolbar(inner))
	b.WriteString("\n")
	b.WriteString(styles.Muted.Render(strings.Repeat("─", inner)))
	b.WriteString("\n")

	bodyHeight := max(height-headerHeight, 1)
	lines, _ := renderDocument(p.host, p.activePane == PaneEditor, inner)
	if p.activePane != PaneEditor && p.host.Document().Empty() {
		lines = []string{styles.Placeholder.Render("Start writing...")}
	}
	end := min(p.editorScroll+bodyHeight, len(lines))
	start := min(p.editorScroll, end)
	b.WriteString(strings.Join(lines[start:end], "\n"))

	return style.Render(b.String())
}

// renderTitleRow shows the title (editable when focused) and save status.
func (p *Plugin) renderTitleRow(width int) string {
	status := styles.Muted.Render(p.statusText())
	titleWidth := max(width-ansi.StringWidth(p.statusText())-2, 1)

	var title string
	if p.activePane == PaneTitle {
		p.titleInput.Width = max(titleWidth-1, 1)
		title = p.titleInput.View()
	} else {
		title = styles.Title.Render(displayTitle(p.active.Title))
		if v := p.titleInput.Value(); v != p.active.Title {
			title = styles.Title.Render(displayTitle(v))
		}
	}
	title = ansi.Truncate(title, titleWidth, "...")
	pad := max(width-ansi.StringWidth(title)-ansi.StringWidth(p.statusText()), 1)
	return title + strings.Repeat(" ", pad) + status
}

// statusText returns "Saving..." while edits are pending, else the last
// save time.
func (p *Plugin) statusText() string {
	if p.saving > 0 || p.titleSaver.Pending() || p.contentSaver.Pending() {
		return "Saving..."
	}
	if p.lastSaved.IsZero() {
		return ""
	}
	return notes.FormatLastSaved(p.lastSaved, p.now())
}

// toolbarItems lists the toolbar chips in display order.
var toolbarItems = []struct {
	label string
	style richtext.BlockStyle
	mark  richtext.Mark
	block bool
}{
	{label: "H1", style: richtext.Heading1, block: true},
	{label: "H2", style: richtext.Heading2, block: true},
	{label: "H3", style: richtext.Heading3, block: true},
	{label: "P", style: richtext.Paragraph, block: true},
	{label: "B", mark: richtext.Bold},
	{label: "I", mark: richtext.Italic},
	{label: "U", mark: richtext.Underline},
	{label: "S", mark: richtext.Strikethrough},
	{label: "•"},
	{label: "1."},
}

// renderToolbar shows the formatting chips; active styles are highlighted.
func (p *Plugin) renderToolbar(width int) string {
	marks := p.host.ActiveMarks()
	block := p.host.ActiveBlockStyle()

	chips := make([]string, 0, len(toolbarItems))
	for _, item := range toolbarItems {
		active := false
		switch {
		case item.block:
			active = block == item.style
		case item.mark != 0:
			active = marks.Has(item.mark)
		}
		if active {
			chips = append(chips, styles.BarChipActive.Render(item.label))
		} else {
			chips = append(chips, styles.BarChip.Render(item.label))
		}
	}
	if d := caretDepth(p.host); d > 0 {
		chips = append(chips, styles.Muted.Render(fmt.Sprintf("indent %d", d)))
	}
	return ansi.Truncate(strings.Join(chips, " "), width, "")
}

// caretDepth is the indent of the line holding the caret, in 2-space steps.
func caretDepth(h *richtext.DocumentHost) int {
	sel, ok := h.Selection()
	if !ok {
		return 0
	}
	text, ok := h.ContainerText(sel.Focus.Block)
	if !ok {
		return 0
	}
	runes := []rune(text)
	line := string(runes[:min(sel.Focus.Offset, len(runes))])
	if i := strings.LastIndexByte(line, '\n'); i >= 0 {
		line = line[i+1:]
	}
	return richtext.DepthProbe(line)
}

// ensureCaretVisible scrolls the editor body so the caret row is shown.
func (p *Plugin) ensureCaretVisible() {
	if p.host == nil {
		return
	}
	width := p.mainInnerWidth()
	bodyHeight := max(p.height-headerHeight, 1)
	_, row := renderDocument(p.host, true, width)
	if row < p.editorScroll {
		p.editorScroll = row
	} else if row >= p.editorScroll+bodyHeight {
		p.editorScroll = row - bodyHeight + 1
	}
	p.editorScroll = max(p.editorScroll, 0)
}

func (p *Plugin) mainInnerWidth() int {
	if p.collapsed {
		return max(p.width-1, 1)
	}
	sw := min(max(p.sidebarWidth, minSidebarWidth), max(p.width/2, minSidebarWidth))
	return max(p.width-sw-dividerWidth-1, 1)
}

// cell is one rune of the document with its display attributes.
type cell struct {
	r        rune
	marks    richtext.Mark
	selected bool
	caret    bool
}

// renderDocument renders the host's document soft-wrapped to width. It
// returns the lines and the row holding the caret.
func renderDocument(h *richtext.DocumentHost, showCaret bool, width int) ([]string, int) {
	doc := h.Document()
	sel, hasSel := h.Selection()

	var start, end, caret richtext.Position
	if hasSel {
		start, end = doc.Ordered(sel)
		caret = sel.Focus
	}
	_, startIdx := doc.Find(start.Block)
	_, endIdx := doc.Find(end.Block)
	inSel := func(bi, off int) bool {
		if !hasSel || sel.Collapsed() {
			return false
		}
		after := bi > startIdx || (bi == startIdx && off >= start.Offset)
		before := bi < endIdx || (bi == endIdx && off < end.Offset)
		return after && before
	}

	var lines []string
	caretRow := 0
	for bi, b := range doc.Blocks() {
		base := blockStyle(b.Style)
		text := []rune(b.Text())
		lineStart := 0
		for i := 0; i <= len(text); i++ {
			if i < len(text) && text[i] != '\n' {
				continue
			}
			cells := make([]cell, 0, i-lineStart+1)
			for j := lineStart; j < i; j++ {
				cells = append(cells, cell{
					r:        text[j],
					marks:    b.MarkAt(j),
					selected: inSel(bi, j),
					caret:    showCaret && hasSel && caret.Block == b.ID && caret.Offset == j,
				})
			}
			if showCaret && hasSel && caret.Block == b.ID && caret.Offset == i {
				cells = append(cells, cell{r: ' ', caret: true})
			}
			rows, at := wrapCells(cells, width)
			if at >= 0 {
				caretRow = len(lines) + at
			}
			for _, row := range rows {
				lines = append(lines, renderCells(row, base))
			}
			lineStart = i + 1
		}
	}
	return lines, caretRow
}

// wrapCells splits cells into rows of at most width columns. It returns
// the index of the row holding the caret, or -1.
func wrapCells(cells []cell, width int) ([][]cell, int) {
	rows := [][]cell{nil}
	at := -1
	w := 0
	for _, c := range cells {
		cw := max(runewidth.RuneWidth(c.r), 1)
		if w+cw > width && w > 0 {
			rows = append(rows, nil)
			w = 0
		}
		rows[len(rows)-1] = append(rows[len(rows)-1], c)
		w += cw
		if c.caret {
			at = len(rows) - 1
		}
	}
	return rows, at
}

// renderCells styles a row, grouping runs of equal attributes.
func renderCells(row []cell, base lipgloss.Style) string {
	var b strings.Builder
	for i := 0; i < len(row); {
		j := i + 1
		for j < len(row) && row[j].marks == row[i].marks &&
			row[j].selected == row[i].selected && row[j].caret == row[i].caret {
			j++
		}
		var run strings.Builder
		for _, c := range row[i:j] {
			run.WriteRune(c.r)
		}
		b.WriteString(cellStyle(base, row[i]).Render(run.String()))
		i = j
	}
	return b.String()
}

func blockStyle(s richtext.BlockStyle) lipgloss.Style {
	switch s {
	case richtext.Heading1:
		return styles.Heading1
	case richtext.Heading2:
		return styles.Heading2
	case richtext.Heading3:
		return styles.Heading3
	}
	return styles.EditorText
}

func cellStyle(base lipgloss.Style, c cell) lipgloss.Style {
	s := base
	if c.marks.Has(richtext.Bold) {
		s = s.Bold(true)
	}
	if c.marks.Has(richtext.Italic) {
		s = s.Italic(true)
	}
	if c.marks.Has(richtext.Underline) {
		s = s.Underline(true)
	}
	if c.marks.Has(richtext.Strikethrough) {
		s = s.Strikethrough(true)
	}
	if c.selected {
		s = s.Background(styles.BgTertiary)
	}
	if c.caret {
		s = s.Reverse(true)
	}
	return s
}
