package main

import "github.com/charmbracelet/lipgloss"

var (
	styleName    = lipgloss.NewStyle().Bold(true)
	styleDefault = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleVersion = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

	styleOK   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	styleInfo = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	styleWarn = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	styleLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	styleValue = lipgloss.NewStyle().Foreground(lipgloss.Color("35"))
)
