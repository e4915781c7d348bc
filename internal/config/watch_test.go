package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{}`), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reloads, err := Watch(ctx, path, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	if err := os.WriteFile(path, []byte(`{"ui": {"background": "light"}}`), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case r := <-reloads:
		if r.Err != nil {
			t.Fatalf("reload error: %v", r.Err)
		}
		if r.Config.UI.Background != "light" {
			t.Errorf("background = %q, want light", r.Config.UI.Background)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no reload received")
	}

	cancel()
	select {
	case _, ok := <-reloads:
		for ok {
			_, ok = <-reloads
		}
	case <-time.After(time.Second):
		t.Error("channel not closed after cancel")
	}
}
