package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette.
var (
	ColorCyan    = lipgloss.Color("14")
	ColorGreen   = lipgloss.Color("82")
	ColorYellow  = lipgloss.Color("220")
	ColorRed     = lipgloss.Color("196")
	ColorBoldRed = lipgloss.Color("204")
	ColorDimGray = lipgloss.Color("240")
)

var (
	// StyleTitle styles section titles.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(ColorCyan)

	// StyleDim styles notes and other secondary text.
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSuccess styles the message of a successful result.
	StyleSuccess = lipgloss.NewStyle().Bold(true).Foreground(ColorGreen)

	// StyleError styles the message of a failed result.
	StyleError = lipgloss.NewStyle().Bold(true).Foreground(ColorBoldRed)
)

// Item and step statuses.
const (
	StatusNew     = "new"
	StatusCreated = "created"
	StatusUpdated = "updated"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
	StatusSuccess = "success"
	StatusError   = "error"
	StatusNotRun  = "not_run"
)

// StatusStyle returns the style for a status cell, ignoring case.
// Unknown statuses are unstyled.
func StatusStyle(status string) lipgloss.Style {
	switch strings.ToLower(status) {
	case StatusCreated, StatusSuccess, StatusNew:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case StatusUpdated, "update":
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StatusSkipped, StatusNotRun, "skip":
		return lipgloss.NewStyle().Faint(true)
	case StatusFailed, StatusError:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorRed)
	default:
		return lipgloss.NewStyle()
	}
}
