package styles

import "testing"

func TestIsValidHexColor(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"valid uppercase", "#FF5500", true},
		{"valid lowercase", "#aabbcc", true},
		{"valid with alpha", "#00000080", true},
		{"invalid 3-char", "#FFF", false},
		{"no hash", "FF5500", false},
		{"invalid char", "#GGGGGG", false},
		{"empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsValidHexColor(tt.input)
			if got != tt.valid {
				t.Errorf("IsValidHexColor(%q) = %v, want %v", tt.input, got, tt.valid)
			}
		})
	}
}

func TestThemePalettesAreValid(t *testing.T) {
	for _, name := range ListThemes() {
		theme := GetTheme(name)
		c := theme.Colors
		for field, hex := range map[string]string{
			"Primary": c.Primary, "TextPrimary": c.TextPrimary, "TextMuted": c.TextMuted,
			"BgPrimary": c.BgPrimary, "BgSecondary": c.BgSecondary, "BgTertiary": c.BgTertiary,
		} {
			if !IsValidHexColor(hex) {
				t.Errorf("%s.%s = %q is not a hex color", name, field, hex)
			}
		}
		if got := TextContrast(theme); got < MinTextContrast {
			t.Errorf("%s text contrast %.2f below %.1f", name, got, MinTextContrast)
		}
	}
}

func TestTextContrast(t *testing.T) {
	bw := Theme{Colors: ColorPalette{
		TextPrimary: "#FFFFFF", BgPrimary: "#000000", BgSecondary: "#000000", BgTertiary: "#000000",
	}}
	if got := TextContrast(bw); got < 20.9 || got > 21.1 {
		t.Errorf("white on black = %.2f, want 21", got)
	}
	if !bw.Readable() {
		t.Error("white on black should be readable")
	}

	// the worst background decides
	mixed := bw
	mixed.Colors.BgTertiary = "#EEEEEE"
	if mixed.Readable() {
		t.Errorf("white on #EEEEEE passed with %.2f", TextContrast(mixed))
	}
}

func TestNextThemeCycles(t *testing.T) {
	names := ListThemes()
	if len(names) != 5 {
		t.Fatalf("got %d themes, want 5", len(names))
	}
	name := names[0]
	for i := 0; i < len(names); i++ {
		name = NextTheme(name)
	}
	if name != names[0] {
		t.Errorf("cycling %d times returned %q, want %q", len(names), name, names[0])
	}
	if NextTheme("bogus") != "default" {
		t.Error("unknown theme should restart at default")
	}
}

func TestApplyTheme(t *testing.T) {
	defer ApplyTheme("default")

	ApplyTheme("light")
	if GetCurrentThemeName() != "light" {
		t.Fatalf("current = %q", GetCurrentThemeName())
	}
	if GetMarkdownTheme() != "light" {
		t.Errorf("markdown theme = %q", GetMarkdownTheme())
	}
	if string(BgPrimary) != GetTheme("light").Colors.BgPrimary {
		t.Errorf("BgPrimary not updated: %q", BgPrimary)
	}

	ApplyTheme("nope")
	if GetCurrentThemeName() != "default" {
		t.Errorf("unknown theme should fall back to default, got %q", GetCurrentThemeName())
	}
}

func TestHexToRGB(t *testing.T) {
	got := HexToRGB("#0A141E")
	if got != (RGB{R: 10, G: 20, B: 30}) {
		t.Errorf("HexToRGB = %+v", got)
	}
	if HexToRGB("bad") != (RGB{}) {
		t.Error("invalid hex should yield zero RGB")
	}
}
