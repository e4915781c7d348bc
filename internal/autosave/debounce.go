// Package autosave debounces saves of a changing value: a save fires once
// the value has stopped changing for a delay, and only if it differs from
// the last saved value.
package autosave

import (
	"time"

	"github.com/cespare/xxhash/v2"
)

// DefaultDelay is the quiet period before a save fires.
const DefaultDelay = 2 * time.Second

// Ticket identifies one scheduled save. Only the newest ticket fires.
type Ticket struct {
	ID    uint64
	Delay time.Duration
}

// Debouncer tracks the pending and saved versions of a single value. It is
// driven by the caller's event loop: Change returns a ticket to wait on and
// Fire reports whether that ticket is still the one to save. It is not safe
// for concurrent use.
type Debouncer struct {
	delay time.Duration

	seq     uint64
	pending uint64 // ticket ID allowed to fire, 0 when idle

	value    string
	baseline uint64 // digest of the last saved value
}

// NewDebouncer creates a debouncer with the given delay (DefaultDelay when
// zero) and an initial saved value.
func NewDebouncer(delay time.Duration, initial string) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay, value: initial, baseline: xxhash.Sum64String(initial)}
}

// Delay returns the quiet period.
func (d *Debouncer) Delay() time.Duration { return d.delay }

// Change records a new value. Any pending save is superseded. When the value
// equals the last saved one nothing is scheduled and ok is false.
func (d *Debouncer) Change(value string) (t Ticket, ok bool) {
	d.value = value
	d.seq++
	if xxhash.Sum64String(value) == d.baseline {
		d.pending = 0
		return Ticket{}, false
	}
	d.pending = d.seq
	return Ticket{ID: d.seq, Delay: d.delay}, true
}

// Fire returns the value to save for ticket t. ok is false when t was
// superseded, cancelled, or the value no longer differs from the baseline.
func (d *Debouncer) Fire(t Ticket) (value string, ok bool) {
	if t.ID == 0 || t.ID != d.pending {
		return "", false
	}
	d.pending = 0
	if xxhash.Sum64String(d.value) == d.baseline {
		return "", false
	}
	return d.value, true
}

// Flush returns the latest value if it is unsaved, regardless of tickets,
// and clears any pending ticket.
func (d *Debouncer) Flush() (value string, ok bool) {
	d.pending = 0
	if xxhash.Sum64String(d.value) == d.baseline {
		return "", false
	}
	return d.value, true
}

// Saved records value as persisted.
func (d *Debouncer) Saved(value string) {
	d.baseline = xxhash.Sum64String(value)
}

// Dirty reports whether the latest value differs from the saved one.
func (d *Debouncer) Dirty() bool {
	return xxhash.Sum64String(d.value) != d.baseline
}

// Pending reports whether a save is scheduled.
func (d *Debouncer) Pending() bool { return d.pending != 0 }

// Reset rebinds the debouncer to a new value that is already saved, such
// as the content of a newly selected note. Pending saves are cancelled.
func (d *Debouncer) Reset(value string) {
	d.seq++
	d.pending = 0
	d.value = value
	d.baseline = xxhash.Sum64String(value)
}

// Cancel drops any pending save without touching the values.
func (d *Debouncer) Cancel() {
	d.pending = 0
}
