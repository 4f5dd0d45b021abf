package ui

import "github.com/charmbracelet/lipgloss"

var (
	normalDim = lipgloss.AdaptiveColor{Light: "#A49FA5", Dark: "#777777"}
	gray      = lipgloss.AdaptiveColor{Light: "#909090", Dark: "#626262"}
	fuchsia   = lipgloss.Color("#EE6FF8")
	green     = lipgloss.Color("#04B575")
	red       = lipgloss.AdaptiveColor{Light: "#FF4672", Dark: "#ED567A"}

	mintGreen = lipgloss.AdaptiveColor{Light: "#89F0CB", Dark: "#89F0CB"}
	darkGreen = lipgloss.AdaptiveColor{Light: "#1C8760", Dark: "#1C8760"}
)

var (
	spinnerStyle = lipgloss.NewStyle().
			Foreground(gray)

	titleStyle = lipgloss.NewStyle().
			Foreground(mintGreen).
			Background(darkGreen).
			Padding(0, 1)

	stageStyle  = lipgloss.NewStyle().Foreground(fuchsia).Render
	dimStyle    = lipgloss.NewStyle().Foreground(normalDim).Render
	helpStyle   = lipgloss.NewStyle().Foreground(gray).Render
	errorStyle  = lipgloss.NewStyle().Foreground(red).Render
	savedStyle  = lipgloss.NewStyle().Foreground(green).Render
	keywordText = lipgloss.NewStyle().Foreground(green).Render

	// Keyword highlights a word in command help.
	Keyword = keywordText

	// Paragraph indents and wraps a block of command help.
	Paragraph = lipgloss.NewStyle().
			Width(78).
			Padding(0, 0, 0, 2).
			Render
)
