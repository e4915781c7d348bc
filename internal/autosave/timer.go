package autosave

import (
	"sync"
	"time"
)

// Timer is a goroutine-driven debouncer for callers without an event loop.
// onSave runs on its own goroutine once the value has been stable for the
// delay.
type Timer struct {
	mu     sync.Mutex
	d      *Debouncer
	timer  *time.Timer
	onSave func(value string)
}

// New creates a Timer whose last saved value is initial.
func New(delay time.Duration, initial string, onSave func(value string)) *Timer {
	return &Timer{d: NewDebouncer(delay, initial), onSave: onSave}
}

// Update records a new value and restarts the quiet period.
func (t *Timer) Update(value string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	ticket, ok := t.d.Change(value)
	if !ok {
		return
	}
	t.timer = time.AfterFunc(ticket.Delay, func() { t.fire(ticket) })
}

func (t *Timer) fire(ticket Ticket) {
	t.mu.Lock()
	value, ok := t.d.Fire(ticket)
	if ok {
		t.d.Saved(value)
	}
	t.mu.Unlock()

	if ok {
		t.onSave(value)
	}
}

// Stop cancels any pending save.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.d.Cancel()
}
