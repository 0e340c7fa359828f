package theme

import "github.com/charmbracelet/lipgloss"

var (
	Base     = lipgloss.Color("#1e1e2e")
	Mantle   = lipgloss.Color("#181825")
	Surface1 = lipgloss.Color("#45475a")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Sapphire = lipgloss.Color("#74c7ec")
	Green    = lipgloss.Color("#a6e3a1")
	Peach    = lipgloss.Color("#fab387")
	Red      = lipgloss.Color("#f38ba8")

	Bar = lipgloss.NewStyle().Background(Mantle).Foreground(Text)

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot   = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	Live  = lipgloss.NewStyle().Foreground(Red).Bold(true)
	Ok    = lipgloss.NewStyle().Foreground(Green)
)

// PenColors is the cycle offered by the color key; the first entry is the
// default ink.
var PenColors = []string{"#000000", "#1e66f5", "#d20f39", "#40a02b", "#df8e1d", "#8839ef"}
