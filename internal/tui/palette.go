package tui

import "github.com/charmbracelet/lipgloss"

// Palette shared by the progress view, the summary and the cmd listings.
var (
	ColorInk       = lipgloss.AdaptiveColor{Light: "#2E3440", Dark: "#ECEFF4"}
	ColorDim       = lipgloss.Color("#7A8291")
	ColorAccent    = lipgloss.Color("#B48EAD")
	ColorAccentAlt = lipgloss.Color("#81A1C1")
	ColorSuccess   = lipgloss.Color("#A3BE8C")
	ColorWarn      = lipgloss.Color("#EBCB8B")
	ColorFail      = lipgloss.Color("#BF616A")
)
