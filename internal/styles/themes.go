package styles

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// themeMu protects currentTheme.
var themeMu sync.RWMutex

// hexColorRegex validates hex color codes (#RRGGBB or #RRGGBBAA with alpha)
var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}([0-9A-Fa-f]{2})?$`)

// ColorPalette holds all colors of a background variant.
type ColorPalette struct {
	// Brand colors
	Primary   string
	Secondary string
	Accent    string

	// Status colors
	Success string
	Warning string
	Error   string

	// Text colors
	TextPrimary   string
	TextSecondary string
	TextMuted     string

	// Background colors
	BgPrimary   string
	BgSecondary string
	BgTertiary  string

	// Border colors
	BorderNormal string
	BorderActive string

	// Glamour style name for the preview
	MarkdownTheme string
}

// Theme is a named background variant.
type Theme struct {
	Name        string
	DisplayName string
	Description string
	Colors      ColorPalette
}

// Background variants, in cycle order.
var themes = []Theme{
	{
		Name:        "default",
		DisplayName: "Deep Blue",
		Description: "Classic dark blue",
		Colors: ColorPalette{
			Primary: "#3B82F6", Secondary: "#60A5FA", Accent: "#F59E0B",
			Success: "#10B981", Warning: "#F59E0B", Error: "#EF4444",
			TextPrimary: "#F1F5F9", TextSecondary: "#CBD5E1", TextMuted: "#94A3B8",
			BgPrimary: "#0F172A", BgSecondary: "#1E293B", BgTertiary: "#334155",
			BorderNormal: "#334155", BorderActive: "#3B82F6",
			MarkdownTheme: "dark",
		},
	},
	{
		Name:        "light",
		DisplayName: "Light Blue",
		Description: "Bright and airy light blue",
		Colors: ColorPalette{
			Primary: "#2563EB", Secondary: "#0284C7", Accent: "#B45309",
			Success: "#047857", Warning: "#B45309", Error: "#B91C1C",
			TextPrimary: "#0F172A", TextSecondary: "#334155", TextMuted: "#475569",
			BgPrimary: "#EFF6FF", BgSecondary: "#DBEAFE", BgTertiary: "#BFDBFE",
			BorderNormal: "#93C5FD", BorderActive: "#2563EB",
			MarkdownTheme: "light",
		},
	},
	{
		Name:        "ocean",
		DisplayName: "Ocean Depths",
		Description: "Deeper blues with aqua highlights",
		Colors: ColorPalette{
			Primary: "#06B6D4", Secondary: "#22D3EE", Accent: "#2DD4BF",
			Success: "#34D399", Warning: "#FBBF24", Error: "#F87171",
			TextPrimary: "#ECFEFF", TextSecondary: "#A5F3FC", TextMuted: "#67A3B5",
			BgPrimary: "#031A2B", BgSecondary: "#06283D", BgTertiary: "#0B3C5D",
			BorderNormal: "#0B3C5D", BorderActive: "#06B6D4",
			MarkdownTheme: "dark",
		},
	},
	{
		Name:        "aurora",
		DisplayName: "Aurora Borealis",
		Description: "Purple and green northern lights",
		Colors: ColorPalette{
			Primary: "#A855F7", Secondary: "#22C55E", Accent: "#4ADE80",
			Success: "#22C55E", Warning: "#FACC15", Error: "#F43F5E",
			TextPrimary: "#F5F3FF", TextSecondary: "#D8B4FE", TextMuted: "#9CA3AF",
			BgPrimary: "#140B24", BgSecondary: "#1F1235", BgTertiary: "#2E1A4D",
			BorderNormal: "#2E1A4D", BorderActive: "#22C55E",
			MarkdownTheme: "dracula",
		},
	},
	{
		Name:        "sunset",
		DisplayName: "Warm Sunset",
		Description: "Orange and pink evening glow",
		Colors: ColorPalette{
			Primary: "#F97316", Secondary: "#EC4899", Accent: "#FDBA74",
			Success: "#84CC16", Warning: "#FBBF24", Error: "#EF4444",
			TextPrimary: "#FFF7ED", TextSecondary: "#FED7AA", TextMuted: "#C2947A",
			BgPrimary: "#2A1215", BgSecondary: "#3B1A1F", BgTertiary: "#57242B",
			BorderNormal: "#57242B", BorderActive: "#F97316",
			MarkdownTheme: "dark",
		},
	},
}

var currentTheme = "default"

// IsValidHexColor reports whether hex is #RRGGBB or #RRGGBBAA.
func IsValidHexColor(hex string) bool {
	return hexColorRegex.MatchString(hex)
}

// IsValidTheme reports whether name is a known background variant.
func IsValidTheme(name string) bool {
	for _, t := range themes {
		if t.Name == name {
			return true
		}
	}
	return false
}

// GetTheme returns the named variant, or the default one.
func GetTheme(name string) Theme {
	for _, t := range themes {
		if t.Name == name {
			return t
		}
	}
	return themes[0]
}

// ListThemes returns variant names in cycle order.
func ListThemes() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme returns the variant after name, wrapping around.
func NextTheme(name string) string {
	for i, t := range themes {
		if t.Name == name {
			return themes[(i+1)%len(themes)].Name
		}
	}
	return themes[0].Name
}

// GetCurrentThemeName returns the applied variant's name.
func GetCurrentThemeName() string {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

// GetMarkdownTheme returns the glamour style for the applied variant.
func GetMarkdownTheme() string {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return CurrentMarkdownTheme
}

// ApplyTheme switches to the named variant and rebuilds all styles.
// Unknown names fall back to the default variant.
func ApplyTheme(name string) {
	theme := GetTheme(name)
	themeMu.Lock()
	currentTheme = theme.Name
	themeMu.Unlock()
	ApplyThemeColors(theme)
}

// ApplyThemeColors updates the color variables and rebuilds styles.
func ApplyThemeColors(theme Theme) {
	c := theme.Colors

	Primary = lipgloss.Color(c.Primary)
	Secondary = lipgloss.Color(c.Secondary)
	Accent = lipgloss.Color(c.Accent)

	Success = lipgloss.Color(c.Success)
	Warning = lipgloss.Color(c.Warning)
	Error = lipgloss.Color(c.Error)

	TextPrimary = lipgloss.Color(c.TextPrimary)
	TextSecondary = lipgloss.Color(c.TextSecondary)
	TextMuted = lipgloss.Color(c.TextMuted)

	BgPrimary = lipgloss.Color(c.BgPrimary)
	BgSecondary = lipgloss.Color(c.BgSecondary)
	BgTertiary = lipgloss.Color(c.BgTertiary)

	BorderNormal = lipgloss.Color(c.BorderNormal)
	BorderActive = lipgloss.Color(c.BorderActive)

	themeMu.Lock()
	CurrentMarkdownTheme = c.MarkdownTheme
	themeMu.Unlock()

	rebuildStyles()
}

// HexToRGB parses #RRGGBB (alpha ignored). Invalid input yields black.
func HexToRGB(hex string) RGB {
	if !IsValidHexColor(hex) {
		return RGB{}
	}
	v, err := strconv.ParseUint(hex[1:7], 16, 32)
	if err != nil {
		return RGB{}
	}
	return RGB{
		R: float64(v >> 16 & 0xff),
		G: float64(v >> 8 & 0xff),
		B: float64(v & 0xff),
	}
}
