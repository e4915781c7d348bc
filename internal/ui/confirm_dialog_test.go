package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestNewConfirmDialog(t *testing.T) {
	d := NewConfirmDialog("Test Title", "Test message")

	if d.Title != "Test Title" {
		t.Errorf("expected title 'Test Title', got %q", d.Title)
	}
	if d.ConfirmLabel != " Confirm " {
		t.Errorf("expected default confirm label ' Confirm ', got %q", d.ConfirmLabel)
	}
	if d.Width != ModalWidthMedium {
		t.Errorf("expected width %d, got %d", ModalWidthMedium, d.Width)
	}
	if d.Focused() != ActionConfirm {
		t.Errorf("confirm should be focused initially, got %q", d.Focused())
	}
}

func TestConfirmDialogRender(t *testing.T) {
	d := NewConfirmDialog("Delete Note?", "This moves the note to the trash.")
	d.ConfirmLabel = " Delete "
	d.Danger = true

	output := d.Render()
	for _, want := range []string{"Delete Note?", "trash", "Delete", "Cancel"} {
		if !strings.Contains(output, want) {
			t.Errorf("render should contain %q", want)
		}
	}
}

func TestConfirmDialogHandleKey(t *testing.T) {
	d := NewConfirmDialog("Test", "Message")

	if got := d.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}); got != ActionConfirm {
		t.Errorf("enter on confirm = %q", got)
	}

	if got := d.HandleKey(tea.KeyMsg{Type: tea.KeyTab}); got != ActionNone {
		t.Errorf("tab should only move focus, got %q", got)
	}
	if got := d.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}); got != ActionCancel {
		t.Errorf("enter on cancel = %q", got)
	}

	if got := d.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}}); got != ActionConfirm {
		t.Errorf("y = %q", got)
	}
	if got := d.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}); got != ActionCancel {
		t.Errorf("esc = %q", got)
	}
}
