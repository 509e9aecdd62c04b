package ui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/yllada/windscribe-client/output"
)

// Theme colors.
var (
	primaryColor = lipgloss.Color("#3584e4")
	successColor = lipgloss.Color("#2ec27e")
	warningColor = lipgloss.Color("#e5a50a")
	errorColor   = lipgloss.Color("#e01b24")
	mutedColor   = lipgloss.Color("#626262")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			MarginBottom(1)

	footerStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)

	emptyStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Italic(true)

	connectedStyle    = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	disconnectedStyle = lipgloss.NewStyle().Foreground(mutedColor)
	unknownStyle      = lipgloss.NewStyle().Foreground(warningColor)
	errorStyle        = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
)

// tableStyles returns the location table styles.
func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(primaryColor).
		BorderBottom(true).
		Bold(true).
		Foreground(primaryColor)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(primaryColor).
		Bold(true)
	return s
}

// RenderStatus colors a status line by state.
func RenderStatus(st output.ConnectionStatus) string {
	switch st.State {
	case output.StatusConnected:
		return connectedStyle.Render(st.String())
	case output.StatusNotConnected:
		return disconnectedStyle.Render(st.String())
	default:
		return unknownStyle.Render(st.String())
	}
}

// RenderError formats an error for the terminal.
func RenderError(err error) string {
	return errorStyle.Render("Error:") + " " + err.Error()
}
