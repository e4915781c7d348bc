package notes

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/sidenotes/internal/keymap"
	"github.com/marcus/sidenotes/internal/msg"
	"github.com/marcus/sidenotes/internal/notes"
	"github.com/marcus/sidenotes/internal/richtext"
	"github.com/marcus/sidenotes/internal/styles"
)

// previewMarkdown returns the Markdown rendering of n. The bound note is
// exported from the live document so unsaved edits show up.
func (p *Plugin) previewMarkdown(n *notes.Note) string {
	var body string
	if p.active != nil && p.active.ID == n.ID && p.host != nil {
		body = p.host.Document().Markdown()
	} else if doc, err := richtext.Parse(n.Content); err == nil {
		body = doc.Markdown()
	} else {
		body = notes.PlainText(n.Content)
	}
	title := displayTitle(n.Title)
	if p.active != nil && p.active.ID == n.ID {
		title = displayTitle(p.titleInput.Value())
	}
	return "# " + title + "\n\n" + body
}

// openPreview renders the selected note with glamour and shows it full
// screen.
func (p *Plugin) openPreview() tea.Cmd {
	n := p.selectedNote()
	if n == nil {
		return nil
	}
	width := max(p.width-4, 20)
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(styles.GetMarkdownTheme()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return msg.ShowError("Preview failed", err)
	}
	out, err := r.Render(p.previewMarkdown(n))
	if err != nil {
		return msg.ShowError("Preview failed", err)
	}
	p.previewLines = strings.Split(strings.TrimRight(out, "\n"), "\n")
	p.previewScroll = 0
	p.previewMode = true
	return nil
}

func (p *Plugin) closePreview() {
	p.previewMode = false
	p.previewLines = nil
	p.previewScroll = 0
}

// handlePreviewKey scrolls or closes the preview.
func (p *Plugin) handlePreviewKey(k tea.KeyMsg) tea.Cmd {
	switch p.lookup(k) {
	case keymap.CmdQuit:
		return tea.Sequence(p.flushSaves(), tea.Quit)
	case keymap.CmdBack:
		p.closePreview()
	case keymap.CmdCursorDown:
		p.previewScroll = min(p.previewScroll+1, p.maxPreviewScroll())
	case keymap.CmdCursorUp:
		p.previewScroll = max(p.previewScroll-1, 0)
	}
	return nil
}

func (p *Plugin) maxPreviewScroll() int {
	return max(len(p.previewLines)-max(p.height-1, 1), 0)
}

// renderPreview draws the rendered note with a one-line hint footer.
func (p *Plugin) renderPreview(width, height int) string {
	body := max(height-1, 1)
	end := min(p.previewScroll+body, len(p.previewLines))
	start := min(p.previewScroll, end)

	lines := make([]string, 0, body+1)
	for _, l := range p.previewLines[start:end] {
		lines = append(lines, ansi.Truncate(l, width, ""))
	}
	for len(lines) < body {
		lines = append(lines, "")
	}
	lines = append(lines, styles.KeyHint.Render(ansi.Truncate("esc close  j/k scroll", width, "")))
	return lipgloss.NewStyle().Width(width).Height(height).MaxHeight(height).Render(strings.Join(lines, "\n"))
}
