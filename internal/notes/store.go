package notes

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a note does not exist or is deleted.
var ErrNotFound = errors.New("note not found")

// Driver names accepted by NewStore.
const (
	DriverCGO    = "sqlite3" // mattn/go-sqlite3
	DriverPureGo = "sqlite"  // modernc.org/sqlite
)

// DefaultTitle is the title given to new notes.
const DefaultTitle = "Untitled Note"

// timeLayout is RFC3339 with fixed-width nanoseconds so stored timestamps
// sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Note represents a single note. Content is serialized rich-text markup.
type Note struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Pinned    bool       `json:"pinned"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Store handles SQLite operations for notes.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore opens (creating if needed) the notes database at dbPath using the
// given driver. An empty driver selects DriverCGO.
func NewStore(driver, dbPath string) (*Store, error) {
	dsn, err := dataSource(driver, dbPath)
	if err != nil {
		return nil, err
	}
	if driver == "" {
		driver = DriverCGO
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &Store{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

func dataSource(driver, dbPath string) (string, error) {
	switch driver {
	case "", DriverCGO:
		return dbPath + "?_busy_timeout=5000&_journal_mode=WAL", nil
	case DriverPureGo:
		return dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", nil
	}
	return "", fmt.Errorf("unknown sqlite driver %q", driver)
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// initSchema creates the notes table and indexes if they don't exist.
func (s *Store) initSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS notes (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    pinned INTEGER DEFAULT 0,
    deleted_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_notes_updated ON notes(updated_at DESC);
CREATE INDEX IF NOT EXISTS idx_notes_deleted ON notes(deleted_at);
`
	_, err := s.db.Exec(schema)
	return err
}

// generateID creates a new note ID with "nt-" prefix and 8 hex chars.
func generateID() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "nt-" + hex.EncodeToString(b), nil
}

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

// Create inserts a new note. An empty title becomes DefaultTitle.
func (s *Store) Create(title, content string) (*Note, error) {
	id, err := generateID()
	if err != nil {
		return nil, fmt.Errorf("generate ID: %w", err)
	}
	if title == "" {
		title = DefaultTitle
	}

	now := s.now()
	note := &Note{
		ID:        id,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = s.db.Exec(`
		INSERT INTO notes (id, title, content, created_at, updated_at, pinned)
		VALUES (?, ?, ?, ?, ?, 0)
	`, note.ID, note.Title, note.Content, formatTime(now), formatTime(now))
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}

	return note, nil
}

const noteColumns = `id, title, content, created_at, updated_at, pinned, deleted_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(row scanner) (Note, error) {
	var note Note
	var createdAt, updatedAt string
	var deletedAt sql.NullString
	var pinned int

	if err := row.Scan(&note.ID, &note.Title, &note.Content,
		&createdAt, &updatedAt, &pinned, &deletedAt); err != nil {
		return note, err
	}

	note.CreatedAt = parseTime(createdAt)
	note.UpdatedAt = parseTime(updatedAt)
	note.Pinned = pinned == 1
	if deletedAt.Valid {
		t := parseTime(deletedAt.String)
		note.DeletedAt = &t
	}
	return note, nil
}

// Get retrieves a live note by ID.
func (s *Store) Get(id string) (*Note, error) {
	note, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if note.DeletedAt != nil {
		return nil, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	return note, nil
}

// get retrieves a note by ID including soft-deleted ones.
func (s *Store) get(id string) (*Note, error) {
	note, err := scanNote(s.db.QueryRow(`SELECT `+noteColumns+` FROM notes WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query note: %w", err)
	}
	return &note, nil
}

// List retrieves all live notes, pinned first, then most recently updated.
func (s *Store) List() ([]Note, error) {
	return s.queryNotes(`
		SELECT ` + noteColumns + `
		FROM notes
		WHERE deleted_at IS NULL
		ORDER BY pinned DESC, updated_at DESC`)
}

// ListDeleted retrieves only soft-deleted notes, most recently deleted first.
func (s *Store) ListDeleted() ([]Note, error) {
	return s.queryNotes(`
		SELECT ` + noteColumns + `
		FROM notes
		WHERE deleted_at IS NOT NULL
		ORDER BY deleted_at DESC`)
}

// queryNotes executes a query and returns notes.
func (s *Store) queryNotes(query string, args ...any) ([]Note, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, note)
	}

	return notes, rows.Err()
}

// Count returns the number of live notes.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM notes WHERE deleted_at IS NULL`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}
	return n, nil
}

// update runs a single-row UPDATE against a live note and bumps updated_at.
// It returns the new updated_at.
func (s *Store) update(id, set string, args ...any) (time.Time, error) {
	now := s.now()
	args = append(args, formatTime(now), id)
	res, err := s.db.Exec(`UPDATE notes SET `+set+`, updated_at = ? WHERE id = ? AND deleted_at IS NULL`, args...)
	if err != nil {
		return time.Time{}, fmt.Errorf("update note: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return time.Time{}, fmt.Errorf("update %s: %w", id, ErrNotFound)
	}
	return now, nil
}

// UpdateTitle sets a note's title.
func (s *Store) UpdateTitle(id, title string) (time.Time, error) {
	return s.update(id, `title = ?`, title)
}

// UpdateContent sets a note's serialized content.
func (s *Store) UpdateContent(id, content string) (time.Time, error) {
	return s.update(id, `content = ?`, content)
}

// TogglePin toggles the pinned state of a note.
func (s *Store) TogglePin(id string) error {
	_, err := s.update(id, `pinned = 1 - pinned`)
	return err
}

// Delete performs a soft delete.
func (s *Store) Delete(id string) error {
	now := s.now()
	res, err := s.db.Exec(`
		UPDATE notes SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, formatTime(now), formatTime(now), id)
	if err != nil {
		return fmt.Errorf("soft delete note: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	return nil
}

// Restore undoes a soft delete by clearing deleted_at.
func (s *Store) Restore(id string) error {
	prev, err := s.get(id)
	if err != nil {
		return err
	}
	if prev.DeletedAt == nil {
		return fmt.Errorf("note not deleted: %s", id)
	}

	_, err = s.db.Exec(`
		UPDATE notes SET deleted_at = NULL, updated_at = ?
		WHERE id = ?
	`, formatTime(s.now()), id)
	if err != nil {
		return fmt.Errorf("restore note: %w", err)
	}
	return nil
}

// Purge permanently removes soft-deleted notes deleted before cutoff and
// returns how many were removed.
func (s *Store) Purge(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM notes WHERE deleted_at IS NOT NULL AND deleted_at < ?`, formatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("purge notes: %w", err)
	}
	return res.RowsAffected()
}

// EnsureWelcome seeds the welcome note into an empty store. It returns the
// new note, or nil when the store already had notes.
func (s *Store) EnsureWelcome() (*Note, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM notes`).Scan(&n); err != nil {
		return nil, fmt.Errorf("count notes: %w", err)
	}
	if n > 0 {
		return nil, nil
	}
	return s.Create(WelcomeTitle, WelcomeContent)
}
