package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Color palette: calm indigo base with warm highlights.
var (
	Primary   = lipgloss.Color("#6366F1") // Indigo
	Secondary = lipgloss.Color("#0EA5E9") // Sky
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Highlight = lipgloss.Color("#FACC15") // Yellow
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0F172A") // Deep Navy
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	ErrorText = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Done = lipgloss.NewStyle().
		Foreground(Success)
)

// CategoryColor gives each neuroleader type a stable color.
func CategoryColor(id string) color.Color {
	switch id {
	case "neuroanalityk":
		return lipgloss.Color("#38BDF8")
	case "neuroreaktor":
		return lipgloss.Color("#F43F5E")
	case "neurobalanser":
		return lipgloss.Color("#22C55E")
	case "neuroempata":
		return lipgloss.Color("#EC4899")
	case "neuroinnowator":
		return lipgloss.Color("#FACC15")
	case "neuroinspirator":
		return lipgloss.Color("#F97316")
	default:
		return Text
	}
}
