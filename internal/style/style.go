// Package style provides consistent terminal styling using Lipgloss.
package style

import "github.com/charmbracelet/lipgloss"

var (
	// Success style for completed operations
	Success = lipgloss.NewStyle().
		Foreground(lipgloss.Color("10")). // Green
		Bold(true)

	// Error style for failed items
	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")). // Red
		Bold(true)

	// Dim style for secondary information
	Dim = lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")) // Gray

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().
		Bold(true)

	// TableHeader style for the get command's column headers
	TableHeader = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")). // Blue
			Bold(true)

	// TableCell style for table body cells
	TableCell = lipgloss.NewStyle().
			Padding(0, 1)

	// SuccessPrefix is the checkmark prefix for per-item success lines
	SuccessPrefix = Success.Render("✓")

	// ErrorPrefix is the prefix for per-item failure lines
	ErrorPrefix = Error.Render("✗")
)
