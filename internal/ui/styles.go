package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#7AA2F7")
	colorAccent  = lipgloss.Color("#E0AF68")
	colorMuted   = lipgloss.Color("#565F89")
	colorText    = lipgloss.Color("#C0CAF5")
	colorOn      = lipgloss.Color("#9ECE6A")
	colorBadgeBg = lipgloss.Color("#24283B")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	userLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	assistantLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorPrimary)

	contentStyle = lipgloss.NewStyle().
			Foreground(colorText).
			PaddingLeft(2)

	badgeStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorBadgeBg).
			Padding(0, 1).
			MarginRight(1)

	flagOnStyle = lipgloss.NewStyle().
			Foreground(colorOn)

	flagOffStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	loadingStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorOn)
)
