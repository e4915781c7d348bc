// Package ui provides shared UI components and helpers for the TUI.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/sidenotes/internal/styles"
)

// dimStyle renders background content behind a modal. ANSI codes are
// stripped first because faint does not combine reliably with colors.
func dimStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(styles.TextMuted).Faint(true)
}

// maxLineWidth returns the maximum visual width of the given lines.
func maxLineWidth(lines []string) int {
	maxWidth := 0
	for _, line := range lines {
		maxWidth = max(maxWidth, ansi.StringWidth(line))
	}
	return maxWidth
}

// compositeRow overlays fg onto bg at column x: dimmed left, fg, dimmed right.
func compositeRow(bg, fg string, x, fgWidth, totalWidth int) string {
	var b strings.Builder
	dim := dimStyle()

	plain := ansi.Strip(bg)
	bgWidth := ansi.StringWidth(plain)

	if x > 0 {
		left := ansi.Truncate(plain, x, "")
		b.WriteString(dim.Render(left))
		if w := ansi.StringWidth(left); w < x {
			b.WriteString(strings.Repeat(" ", x-w))
		}
	}

	b.WriteString(fg)

	right := x + fgWidth
	if right < totalWidth && bgWidth > right {
		b.WriteString(dim.Render(ansi.Cut(plain, right, bgWidth)))
	}
	return b.String()
}

// OverlayModal centers modal over a dimmed background of width x height.
func OverlayModal(background, modal string, width, height int) string {
	bgLines := strings.Split(background, "\n")
	modalLines := strings.Split(modal, "\n")

	modalWidth := maxLineWidth(modalLines)
	startX := max((width-modalWidth)/2, 0)
	startY := max((height-len(modalLines))/2, 0)

	dim := dimStyle()
	out := make([]string, 0, height)
	for y := 0; y < height; y++ {
		bg := ""
		if y < len(bgLines) {
			bg = bgLines[y]
		}
		row := y - startY
		if row >= 0 && row < len(modalLines) {
			out = append(out, compositeRow(bg, modalLines[row], startX, modalWidth, width))
			continue
		}
		out = append(out, dim.Render(ansi.Strip(bg)))
	}
	return strings.Join(out, "\n")
}
