package keymap

import (
	"testing"
)

func TestLookupFallsBackToGlobal(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	tests := []struct {
		key, context, want string
	}{
		{"n", "notes-list", CmdNewNote},
		{"alt+1", "notes-editor", FormatPrefix + "h1"},
		{"ctrl+c", "notes-editor", CmdQuit},
		{"esc", "notes-search", CmdBack},
	}
	for _, tt := range tests {
		got, ok := r.Lookup(tt.key, tt.context)
		if !ok || got != tt.want {
			t.Errorf("Lookup(%q, %q) = %q, %v; want %q", tt.key, tt.context, got, ok, tt.want)
		}
	}

	if _, ok := r.Lookup("n", "notes-editor"); ok {
		t.Error("sidebar key should not resolve in the editor")
	}
}

func TestUserOverride(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	r.ApplyOverrides(map[string]string{"alt+x": FormatPrefix + "strikethrough"})
	got, ok := r.Lookup("alt+x", "notes-editor")
	if !ok || got != FormatPrefix+"strikethrough" {
		t.Fatalf("override not applied: %q %v", got, ok)
	}

	keys := r.KeysFor(FormatPrefix+"strikethrough", "notes-editor")
	if len(keys) != 2 || keys[0] != "alt+s" || keys[1] != "alt+x" {
		t.Errorf("KeysFor = %v", keys)
	}

	r.SetUserOverride("alt+x", "")
	if _, ok := r.Lookup("alt+x", "notes-editor"); ok {
		t.Error("empty override should remove the binding")
	}
}

func TestBindingsForContextSorted(t *testing.T) {
	r := NewRegistry()
	r.RegisterBinding(Binding{Key: "b", Command: "two", Context: "c"})
	r.RegisterBinding(Binding{Key: "a", Command: "one", Context: "c"})
	r.RegisterBinding(Binding{Key: "a", Command: "three", Context: "c"})

	got := r.BindingsForContext("c")
	if len(got) != 2 {
		t.Fatalf("got %d bindings, want 2", len(got))
	}
	if got[0].Key != "a" || got[0].Command != "three" {
		t.Errorf("later binding should replace earlier: %+v", got[0])
	}
}
