package notes

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/sidenotes/internal/keymap"
	"github.com/marcus/sidenotes/internal/notes"
	"github.com/marcus/sidenotes/internal/plugin"
	"github.com/marcus/sidenotes/internal/styles"
)

// rowsPerNote is the sidebar height of one entry: title line + preview line.
const rowsPerNote = 2

// displayNotes returns the notes to display (filtered or all).
func (p *Plugin) displayNotes() []notes.Note {
	if q := strings.TrimSpace(p.searchInput.Value()); q != "" {
		return notes.Filter(p.notes, q)
	}
	return p.notes
}

// selectedNote returns the note under the cursor, or nil.
func (p *Plugin) selectedNote() *notes.Note {
	list := p.displayNotes()
	if p.cursor < 0 || p.cursor >= len(list) {
		return nil
	}
	return &list[p.cursor]
}

func (p *Plugin) clearSearch() {
	p.searchMode = false
	p.searchInput.SetValue("")
	p.searchInput.Blur()
}

// moveCursor moves the list cursor by delta and loads the note under it.
func (p *Plugin) moveCursor(delta int) tea.Cmd {
	list := p.displayNotes()
	if len(list) == 0 {
		return nil
	}
	p.cursor = max(0, min(p.cursor+delta, len(list)-1))
	p.ensureCursorVisible()
	return p.bindNote(&list[p.cursor])
}

// listCapacity is how many notes fit in the sidebar.
func (p *Plugin) listCapacity() int {
	// header and search rows
	return max((p.height-2)/rowsPerNote, 1)
}

func (p *Plugin) ensureCursorVisible() {
	capacity := p.listCapacity()
	if p.cursor < p.scrollOff {
		p.scrollOff = p.cursor
	} else if p.cursor >= p.scrollOff+capacity {
		p.scrollOff = p.cursor - capacity + 1
	}
	p.scrollOff = max(p.scrollOff, 0)
}

// handleListKey processes keys while the sidebar is focused.
func (p *Plugin) handleListKey(k tea.KeyMsg) (plugin.Plugin, tea.Cmd) {
	command := p.lookup(k)
	switch command {
	case keymap.CmdQuit:
		return p, tea.Sequence(p.flushSaves(), tea.Quit)
	case keymap.CmdSearch:
		p.searchMode = true
		return p, p.searchInput.Focus()
	case keymap.CmdNewNote:
		return p, p.createNote("")
	case keymap.CmdRefresh:
		return p, p.loadNotes(false)
	case keymap.CmdCycleBackground:
		return p, p.cycleBackground()
	case keymap.CmdToggleSidebar:
		return p, p.toggleSidebar()
	case keymap.CmdUndo:
		return p, p.undoLastDelete()
	}

	if len(p.displayNotes()) == 0 {
		return p, nil
	}

	switch command {
	case keymap.CmdCursorDown:
		return p, p.moveCursor(1)
	case keymap.CmdCursorUp:
		return p, p.moveCursor(-1)
	case keymap.CmdCursorTop:
		return p, p.moveCursor(-len(p.notes))
	case keymap.CmdCursorBottom:
		return p, p.moveCursor(len(p.notes))
	case keymap.CmdOpen:
		return p, p.openSelected()
	case keymap.CmdEditTitle:
		cmd := p.openSelected()
		return p, tea.Batch(cmd, p.focusTitle())
	case keymap.CmdDeleteNote:
		p.confirmDelete()
	case keymap.CmdTogglePin:
		return p, p.togglePin()
	case keymap.CmdYankContent:
		return p, p.yankNoteContent()
	case keymap.CmdYankTitle:
		return p, p.yankNoteTitle()
	case keymap.CmdPreview:
		return p, p.openPreview()
	}
	return p, nil
}

// handleSearchKey processes keys while the search input is focused.
func (p *Plugin) handleSearchKey(k tea.KeyMsg) tea.Cmd {
	switch p.lookup(k) {
	case keymap.CmdBack:
		p.clearSearch()
		p.cursor = 0
		p.scrollOff = 0
		return p.reselectActive()
	case keymap.CmdOpen:
		list := p.displayNotes()
		query := strings.TrimSpace(p.searchInput.Value())
		if len(list) == 0 {
			if query == "" {
				p.clearSearch()
				return nil
			}
			// No match: the query becomes a new note's title
			return p.createNote(query)
		}
		n := list[min(p.cursor, len(list)-1)]
		p.clearSearch()
		cmd := p.bindNote(&n)
		p.focusEditor()
		return tea.Batch(cmd, p.reselectActive())
	case keymap.CmdCursorDown:
		if p.cursor < len(p.displayNotes())-1 {
			p.cursor++
			p.ensureCursorVisible()
		}
		return nil
	case keymap.CmdCursorUp:
		if p.cursor > 0 {
			p.cursor--
			p.ensureCursorVisible()
		}
		return nil
	}

	before := p.searchInput.Value()
	var cmd tea.Cmd
	p.searchInput, cmd = p.searchInput.Update(k)
	if p.searchInput.Value() != before {
		p.cursor = 0
		p.scrollOff = 0
	}
	return cmd
}

// reselectActive points the cursor at the bound note in the current list.
func (p *Plugin) reselectActive() tea.Cmd {
	if p.active == nil {
		return nil
	}
	for i, n := range p.displayNotes() {
		if n.ID == p.active.ID {
			p.cursor = i
			p.ensureCursorVisible()
			break
		}
	}
	return nil
}

// renderSidebar renders the note list column.
func (p *Plugin) renderSidebar(width, height int) string {
	focused := p.activePane == PaneList || p.searchMode
	var b strings.Builder

	header := fmt.Sprintf("Notes (%d)", len(p.notes))
	headerStyle := styles.PanelHeader
	if focused {
		headerStyle = headerStyle.Foreground(styles.Primary)
	}
	b.WriteString(headerStyle.Render(ansi.Truncate(header, width, "")))
	b.WriteString("\n")

	if p.searchMode || p.searchInput.Value() != "" {
		p.searchInput.Width = max(width-3, 1)
		b.WriteString(ansi.Truncate(p.searchInput.View(), width, ""))
	} else {
		b.WriteString(styles.Muted.Render(ansi.Truncate("/ search", width, "")))
	}
	b.WriteString("\n")

	list := p.displayNotes()
	switch {
	case p.store == nil:
		b.WriteString(styles.Muted.Render("No database"))
	case p.loading:
		b.WriteString(styles.Muted.Render("Loading..."))
	case p.loadErr != nil:
		b.WriteString(lipgloss.NewStyle().Foreground(styles.Error).Render(ansi.Truncate("Error: "+p.loadErr.Error(), width, "...")))
	case len(list) == 0 && p.searchInput.Value() != "":
		b.WriteString(styles.Muted.Render(ansi.Truncate("No matches, enter creates", width, "")))
	case len(list) == 0:
		b.WriteString(styles.Muted.Render(ansi.Truncate("No notes yet, n creates one", width, "")))
	default:
		capacity := max((height-2)/rowsPerNote, 1)
		end := min(p.scrollOff+capacity, len(list))
		now := p.now()
		for i := p.scrollOff; i < end; i++ {
			b.WriteString(p.renderListItem(&list[i], i == p.cursor, focused, width, now))
			if i < end-1 {
				b.WriteString("\n")
			}
		}
	}

	return lipgloss.NewStyle().Width(width).Height(height).MaxHeight(height).Render(b.String())
}

func (p *Plugin) renderListItem(n *notes.Note, selected, focused bool, width int, now time.Time) string {
	date := notes.FormatListDate(n.UpdatedAt, now)
	marker := "  "
	if n.Pinned {
		marker = styles.PinMarker.Render("* ")
	}
	titleWidth := max(width-2-ansi.StringWidth(date)-1, 1)
	title := ansi.Truncate(displayTitle(n.Title), titleWidth, "...")
	pad := max(width-2-ansi.StringWidth(title)-ansi.StringWidth(date), 1)

	line1 := marker + title + strings.Repeat(" ", pad) + styles.Muted.Render(date)
	line2 := "  " + styles.Muted.Render(ansi.Truncate(notes.Preview(n.Content), max(width-2, 1), ""))

	style := styles.ListItemNormal
	if selected {
		style = styles.ListItemSelected
		if focused {
			style = styles.ListItemFocused
		}
	}
	return style.Width(width).Render(line1) + "\n" + style.Width(width).Render(line2)
}
