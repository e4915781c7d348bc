package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

const red = "\x1b[31m"

func TestMaxLineWidthCountsCells(t *testing.T) {
	lines := []string{"note", red + "title" + "\x1b[0m", "笔记本"}
	if got := maxLineWidth(lines); got != 6 {
		t.Errorf("maxLineWidth() = %d, want 6 (three wide runes)", got)
	}
	if got := maxLineWidth(nil); got != 0 {
		t.Errorf("maxLineWidth(nil) = %d, want 0", got)
	}
}

func TestCompositeRowStripsBackgroundColors(t *testing.T) {
	bg := red + "abcdefghij" + "\x1b[0m"
	got := compositeRow(bg, "XY", 3, 2, 10)

	if strings.Contains(got, red) {
		t.Errorf("background color survived: %q", got)
	}
	if plain := ansi.Strip(got); plain != "abcXYfghij" {
		t.Errorf("compositeRow() = %q, want %q", plain, "abcXYfghij")
	}
}

func TestCompositeRowPadsShortBackground(t *testing.T) {
	got := ansi.Strip(compositeRow("ab", "[M]", 5, 3, 12))
	if got != "ab   [M]" {
		t.Errorf("compositeRow() = %q, want %q", got, "ab   [M]")
	}

	// nothing to the left: the modal line starts the row
	if got := ansi.Strip(compositeRow("", "[M]", 0, 3, 12)); got != "[M]" {
		t.Errorf("compositeRow() at x=0 = %q, want %q", got, "[M]")
	}
}

func TestOverlayModalCentersOverDimmedNotes(t *testing.T) {
	const width, height = 100, 30
	bgRow := strings.Repeat("n", width)
	bg := make([]string, height)
	for i := range bg {
		bg[i] = red + bgRow + "\x1b[0m"
	}
	modalRow := "[" + strings.Repeat("=", 18) + "]"
	modal := strings.Join([]string{modalRow, modalRow, modalRow}, "\n")

	out := strings.Split(OverlayModal(strings.Join(bg, "\n"), modal, width, height), "\n")
	if len(out) != height {
		t.Fatalf("got %d rows, want %d", len(out), height)
	}

	// 20 wide and 3 tall over 100x30 puts the top left corner at (40, 13)
	for y, row := range out {
		if strings.Contains(row, red) {
			t.Fatalf("row %d kept the background color", y)
		}
		plain := ansi.Strip(row)
		if y < 13 || y > 15 {
			if plain != bgRow {
				t.Errorf("row %d = %q, want the background", y, plain)
			}
			continue
		}
		if idx := strings.Index(plain, modalRow); idx != 40 {
			t.Errorf("row %d: modal at column %d, want 40", y, idx)
		}
		if w := ansi.StringWidth(plain); w != width {
			t.Errorf("row %d width = %d, want %d", y, w, width)
		}
	}
}

func TestOverlayModalFillsMissingBackgroundRows(t *testing.T) {
	out := strings.Split(OverlayModal("only row", "M", 10, 5), "\n")
	if len(out) != 5 {
		t.Fatalf("got %d rows, want 5", len(out))
	}
	if got := ansi.Strip(out[2]); got != "    M" {
		t.Errorf("modal row = %q, want %q", got, "    M")
	}
	if got := ansi.Strip(out[4]); got != "" {
		t.Errorf("last row = %q, want empty", got)
	}
}

func TestOverlayModalWiderThanScreen(t *testing.T) {
	modal := strings.Repeat("w", 50)
	out := strings.Split(OverlayModal("", modal, 40, 3), "\n")
	if got := ansi.Strip(out[1]); got != modal {
		t.Errorf("oversized modal = %q, want it flush left and uncut", got)
	}
}
