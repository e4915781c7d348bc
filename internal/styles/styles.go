package styles

import "github.com/charmbracelet/lipgloss"

// Color palette, set by ApplyTheme.
var (
	// Primary colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	// Status colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	// Text colors
	TextPrimary   lipgloss.Color
	TextSecondary lipgloss.Color
	TextMuted     lipgloss.Color

	// Background colors
	BgPrimary   lipgloss.Color
	BgSecondary lipgloss.Color
	BgTertiary  lipgloss.Color

	// Border colors
	BorderNormal lipgloss.Color
	BorderActive lipgloss.Color

	// Glamour style name (updated by ApplyTheme)
	CurrentMarkdownTheme = "dark"
)

// Panel styles
var (
	PanelActive   lipgloss.Style
	PanelInactive lipgloss.Style
	PanelHeader   lipgloss.Style
)

// Text styles
var (
	Title   lipgloss.Style
	Body    lipgloss.Style
	Muted   lipgloss.Style
	KeyHint lipgloss.Style
	Logo    lipgloss.Style
)

// List item styles
var (
	ListItemNormal   lipgloss.Style
	ListItemSelected lipgloss.Style
	ListItemFocused  lipgloss.Style
	ListCursor       lipgloss.Style
	PinMarker        lipgloss.Style
)

// Bar element styles (toolbar, header, footer)
var (
	BarTitle      lipgloss.Style
	BarText       lipgloss.Style
	BarChip       lipgloss.Style
	BarChipActive lipgloss.Style
	Footer        lipgloss.Style
	Header        lipgloss.Style
)

// Toast styles
var (
	ToastSuccess lipgloss.Style
	ToastError   lipgloss.Style
)

// Modal and button styles
var (
	ModalBox            lipgloss.Style
	ModalTitle          lipgloss.Style
	Button              lipgloss.Style
	ButtonFocused       lipgloss.Style
	ButtonDanger        lipgloss.Style
	ButtonDangerFocused lipgloss.Style
)

// Editor styles
var (
	EditorText    lipgloss.Style
	Heading1      lipgloss.Style
	Heading2      lipgloss.Style
	Heading3      lipgloss.Style
	Caret         lipgloss.Style
	TextSelection lipgloss.Style
	Placeholder   lipgloss.Style
	SearchMatch   lipgloss.Style
)

func init() {
	ApplyTheme("default")
}

// rebuildStyles recreates all lipgloss styles with current colors.
func rebuildStyles() {
	PanelActive = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderActive).
		Padding(0, 1)

	PanelInactive = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderNormal).
		Padding(0, 1)

	PanelHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	Body = lipgloss.NewStyle().
		Foreground(TextPrimary)

	Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	KeyHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgTertiary).
		Padding(0, 1)

	Logo = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	ListItemNormal = lipgloss.NewStyle().
		Foreground(TextPrimary)

	ListItemSelected = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(BgTertiary)

	ListItemFocused = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(Primary)

	ListCursor = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	PinMarker = lipgloss.NewStyle().
		Foreground(Accent)

	BarTitle = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)

	BarText = lipgloss.NewStyle().
		Foreground(TextMuted)

	BarChip = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(BgTertiary).
		Padding(0, 1)

	BarChipActive = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(Primary).
		Padding(0, 1).
		Bold(true)

	Footer = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgSecondary)

	Header = lipgloss.NewStyle().
		Background(BgSecondary)

	ToastSuccess = lipgloss.NewStyle().
		Background(Success).
		Foreground(lipgloss.Color("#000000")).
		Bold(true).
		Padding(0, 1)

	ToastError = lipgloss.NewStyle().
		Background(Error).
		Foreground(lipgloss.Color("#FFFFFF")).
		Bold(true).
		Padding(0, 1)

	ModalBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Background(BgSecondary).
		Padding(1, 2)

	ModalTitle = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true).
		MarginBottom(1)

	Button = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(BgTertiary).
		Padding(0, 2)

	ButtonFocused = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(Primary).
		Padding(0, 2).
		Bold(true)

	ButtonDanger = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FCA5A5")).
		Background(lipgloss.Color("#7F1D1D")).
		Padding(0, 2)

	ButtonDangerFocused = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#DC2626")).
		Padding(0, 2).
		Bold(true)

	EditorText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	Heading1 = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	Heading2 = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	Heading3 = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)

	Caret = lipgloss.NewStyle().
		Reverse(true)

	TextSelection = lipgloss.NewStyle().
		Background(BgTertiary).
		Foreground(TextPrimary)

	Placeholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	SearchMatch = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)
}
