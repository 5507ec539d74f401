package replui

import "github.com/charmbracelet/lipgloss"

var (
	promptColor  = lipgloss.Color("#5FD7FF")
	errorColor   = lipgloss.Color("#FF5F5F")
	warnColor    = lipgloss.Color("#FFD75F")
	mutedColor   = lipgloss.Color("#888888")
	successColor = lipgloss.Color("#5FFF87")
)

var (
	PromptStyle = lipgloss.NewStyle().Bold(true).Foreground(promptColor)
	ErrorStyle  = lipgloss.NewStyle().Bold(true).Foreground(errorColor)
	WarnStyle   = lipgloss.NewStyle().Foreground(warnColor)
	MutedStyle  = lipgloss.NewStyle().Foreground(mutedColor)
	OKStyle     = lipgloss.NewStyle().Bold(true).Foreground(successColor)
)
