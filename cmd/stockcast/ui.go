package main

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"StockCast/internal/predictor"
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		Padding(0, 1)

	warningStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#F59E0B"))

	errorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#EF4444"))

	mutedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280"))
)

// alertLine styles a pipeline failure by severity.
func alertLine(err error) string {
	msg := predictor.UserMessage(err)
	if predictor.Classify(err) == predictor.SeverityWarning {
		return warningStyle.Render("warning: " + msg)
	}
	return errorStyle.Render("error: " + msg)
}

func renderMarkdown(md string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
