package explore

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	colorPrimary   = lipgloss.Color("#11C3DB") // cyan
	colorMatch     = lipgloss.Color("#D4AF37") // gold
	colorMuted     = lipgloss.Color("8")       // gray
	colorHighlight = lipgloss.Color("15")      // white
)

// Pane border styles
var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary)

	inactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorMuted)
)

// Title style for pane headers
var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorPrimary)

// Table styles
var (
	headerRowStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorHighlight)

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(colorPrimary)
)

// Detail field styles
var (
	fieldLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorMuted)

	fieldValueStyle = lipgloss.NewStyle().
			Foreground(colorHighlight)

	hexMatchStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorMatch)

	hexContextStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// Footer help bar
var footerStyle = lipgloss.NewStyle().
	Foreground(colorMuted)
