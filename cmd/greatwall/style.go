package main

import "github.com/charmbracelet/lipgloss"

var styles = struct {
	title, muted, ok, warn, err lipgloss.Style
}{
	title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A")),
	muted: lipgloss.NewStyle().Foreground(lipgloss.Color("#7A869A")),
	ok:    lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A")),
	warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#E5C07B")),
	err:   lipgloss.NewStyle().Foreground(lipgloss.Color("#E06C75")),
}
