package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/sidenotes/internal/styles"
)

// Modal widths.
const (
	ModalWidthSmall  = 40
	ModalWidthMedium = 50
	ModalWidthLarge  = 70
)

// Dialog actions returned by HandleKey.
const (
	ActionNone    = ""
	ActionConfirm = "confirm"
	ActionCancel  = "cancel"
)

// ConfirmDialog is a reusable confirmation modal with two buttons.
type ConfirmDialog struct {
	Title        string
	Message      string
	ConfirmLabel string // e.g., " Delete "
	CancelLabel  string
	Danger       bool // render the confirm button in red
	Width        int

	focus int // 0 = confirm, 1 = cancel
}

// NewConfirmDialog creates a dialog with sensible defaults.
func NewConfirmDialog(title, message string) *ConfirmDialog {
	return &ConfirmDialog{
		Title:        title,
		Message:      message,
		ConfirmLabel: " Confirm ",
		CancelLabel:  " Cancel ",
		Width:        ModalWidthMedium,
	}
}

// Focused returns the action of the focused button.
func (d *ConfirmDialog) Focused() string {
	if d.focus == 0 {
		return ActionConfirm
	}
	return ActionCancel
}

// HandleKey moves focus between buttons and reports the chosen action.
// y confirms and n or esc cancel regardless of focus.
func (d *ConfirmDialog) HandleKey(msg tea.KeyMsg) string {
	switch msg.String() {
	case "tab", "shift+tab", "left", "right", "h", "l":
		d.focus = 1 - d.focus
	case "enter":
		return d.Focused()
	case "y":
		return ActionConfirm
	case "n", "esc", "q":
		return ActionCancel
	}
	return ActionNone
}

// Render draws the dialog box.
func (d *ConfirmDialog) Render() string {
	confirm, cancel := styles.Button, styles.Button
	if d.Danger {
		confirm = styles.ButtonDanger
	}
	if d.focus == 0 {
		confirm = styles.ButtonFocused
		if d.Danger {
			confirm = styles.ButtonDangerFocused
		}
	} else {
		cancel = styles.ButtonFocused
	}

	inner := max(d.Width-6, 10)
	var b strings.Builder
	b.WriteString(styles.ModalTitle.Render(d.Title))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(inner).Foreground(styles.TextSecondary).Render(d.Message))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		confirm.Render(d.ConfirmLabel), "  ", cancel.Render(d.CancelLabel)))

	box := styles.ModalBox.Width(d.Width)
	if d.Danger {
		box = box.BorderForeground(styles.Error)
	}
	return box.Render(b.String())
}
