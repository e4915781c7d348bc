package notes

import (
	"time"

	"github.com/marcus/sidenotes/internal/autosave"
	"github.com/marcus/sidenotes/internal/notes"
)

// NotesLoadedMsg carries the note list.
type NotesLoadedMsg struct {
	Notes []notes.Note
	Err   error
	Epoch uint64
}

// GetEpoch implements plugin.EpochMessage.
func (m NotesLoadedMsg) GetEpoch() uint64 { return m.Epoch }

// NoteCreatedMsg is sent when a note has been created.
type NoteCreatedMsg struct {
	Note  *notes.Note
	Err   error
	Epoch uint64
}

// GetEpoch implements plugin.EpochMessage.
func (m NoteCreatedMsg) GetEpoch() uint64 { return m.Epoch }

// NoteDeletedMsg is sent when a note has been soft-deleted.
type NoteDeletedMsg struct {
	ID    string
	Title string
	Err   error
	Epoch uint64
}

// GetEpoch implements plugin.EpochMessage.
func (m NoteDeletedMsg) GetEpoch() uint64 { return m.Epoch }

// NoteRestoredMsg is sent when an undo restored a deleted note.
type NoteRestoredMsg struct {
	ID    string
	Title string
	Err   error
	Epoch uint64
}

// GetEpoch implements plugin.EpochMessage.
func (m NoteRestoredMsg) GetEpoch() uint64 { return m.Epoch }

// NotePinToggledMsg is sent when a note's pin state changed.
type NotePinToggledMsg struct {
	ID    string
	Err   error
	Epoch uint64
}

// GetEpoch implements plugin.EpochMessage.
func (m NotePinToggledMsg) GetEpoch() uint64 { return m.Epoch }

// saveField names the debounced value a save belongs to.
type saveField int

const (
	fieldTitle saveField = iota
	fieldContent
)

func (f saveField) String() string {
	if f == fieldTitle {
		return "title"
	}
	return "content"
}

// AutoSaveTickMsg fires when a debounce delay elapsed.
type AutoSaveTickMsg struct {
	Field  saveField
	NoteID string
	Ticket autosave.Ticket
}

// NoteSavedMsg reports a finished title or content save.
type NoteSavedMsg struct {
	Field     saveField
	NoteID    string
	Value     string
	UpdatedAt time.Time
	Err       error
	Epoch     uint64
}

// GetEpoch implements plugin.EpochMessage.
func (m NoteSavedMsg) GetEpoch() uint64 { return m.Epoch }

// RestoreTickMsg runs a deferred selection restore.
type RestoreTickMsg struct {
	Gen uint64
}

// ClockTickMsg refreshes relative timestamps in the status line.
type ClockTickMsg struct{}
