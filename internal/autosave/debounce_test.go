package autosave

import (
	"sync"
	"testing"
	"time"
)

func TestDebouncer_OnlyLatestTicketFires(t *testing.T) {
	d := NewDebouncer(0, "")
	if d.Delay() != DefaultDelay {
		t.Fatalf("Delay() = %v, want %v", d.Delay(), DefaultDelay)
	}

	first, ok := d.Change("a")
	if !ok {
		t.Fatal("Change(a) should schedule a save")
	}
	second, _ := d.Change("ab")

	if _, ok := d.Fire(first); ok {
		t.Error("superseded ticket fired")
	}
	v, ok := d.Fire(second)
	if !ok || v != "ab" {
		t.Fatalf("Fire(second) = %q, %v; want ab, true", v, ok)
	}
	if _, ok := d.Fire(second); ok {
		t.Error("ticket fired twice")
	}
}

func TestDebouncer_UnchangedValueSchedulesNothing(t *testing.T) {
	d := NewDebouncer(time.Second, "saved")
	if _, ok := d.Change("saved"); ok {
		t.Error("Change to the saved value should not schedule")
	}

	ticket, _ := d.Change("edit")
	d.Change("saved")
	if _, ok := d.Fire(ticket); ok {
		t.Error("reverting to the saved value should drop the pending save")
	}
	if d.Dirty() {
		t.Error("Dirty() = true after reverting")
	}
}

func TestDebouncer_SavedMovesBaseline(t *testing.T) {
	d := NewDebouncer(time.Second, "")
	ticket, _ := d.Change("x")
	v, _ := d.Fire(ticket)
	d.Saved(v)
	if d.Dirty() {
		t.Error("Dirty() after Saved")
	}
	if _, ok := d.Change("x"); ok {
		t.Error("saved value rescheduled")
	}
}

func TestDebouncer_ResetCancelsPending(t *testing.T) {
	d := NewDebouncer(time.Second, "note one")
	ticket, _ := d.Change("note one edited")
	if !d.Pending() {
		t.Fatal("Pending() = false after Change")
	}

	d.Reset("note two")
	if d.Pending() {
		t.Error("Pending() = true after Reset")
	}
	if _, ok := d.Fire(ticket); ok {
		t.Error("ticket from before Reset fired")
	}
	if d.Dirty() {
		t.Error("fresh binding should be clean")
	}
}

func TestDebouncer_Flush(t *testing.T) {
	d := NewDebouncer(time.Second, "")
	if _, ok := d.Flush(); ok {
		t.Error("Flush() on clean debouncer returned a value")
	}
	ticket, _ := d.Change("draft")
	v, ok := d.Flush()
	if !ok || v != "draft" {
		t.Fatalf("Flush() = %q, %v; want draft, true", v, ok)
	}
	if _, ok := d.Fire(ticket); ok {
		t.Error("ticket fired after Flush")
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	d := NewDebouncer(time.Second, "")
	ticket, _ := d.Change("x")
	d.Cancel()
	if _, ok := d.Fire(ticket); ok {
		t.Error("cancelled ticket fired")
	}
	if !d.Dirty() {
		t.Error("Cancel should keep the unsaved value")
	}
}

func TestTimer_SavesOnceAfterQuietPeriod(t *testing.T) {
	var mu sync.Mutex
	var saves []string
	done := make(chan struct{}, 4)

	timer := New(20*time.Millisecond, "", func(v string) {
		mu.Lock()
		saves = append(saves, v)
		mu.Unlock()
		done <- struct{}{}
	})
	timer.Update("a")
	timer.Update("ab")
	timer.Update("abc")

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("save never fired")
	}
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(saves) != 1 || saves[0] != "abc" {
		t.Errorf("saves = %q, want [abc]", saves)
	}
}

func TestTimer_Stop(t *testing.T) {
	fired := make(chan string, 1)
	timer := New(10*time.Millisecond, "", func(v string) { fired <- v })
	timer.Update("x")
	timer.Stop()

	select {
	case v := <-fired:
		t.Errorf("stopped timer saved %q", v)
	case <-time.After(60 * time.Millisecond):
	}
}
