package ui

import "github.com/charmbracelet/lipgloss"

// Styles defines all lipgloss styles used in the CLI
var Styles = struct {
	Bold       lipgloss.Style
	SuccessBox lipgloss.Style
	ErrorBox   lipgloss.Style

	// Conversation
	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	Dim            lipgloss.Style
	Error          lipgloss.Style

	// Structured answer
	Heading       lipgloss.Style
	Conclusion    lipgloss.Style
	CitationTitle lipgloss.Style
	Explanation   lipgloss.Style
	BlockLabel    lipgloss.Style
	Source        lipgloss.Style
	NoData        lipgloss.Style
}{
	Bold: lipgloss.NewStyle().Bold(true),

	SuccessBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("42")).
		Padding(0, 1).
		Width(60),

	ErrorBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("196")).
		Padding(0, 1).
		Width(60),

	UserLabel:      lipgloss.NewStyle().Bold(true),
	AssistantLabel: lipgloss.NewStyle().Foreground(lipgloss.Color("86")),
	Dim:            lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	Error:          lipgloss.NewStyle().Foreground(lipgloss.Color("196")),

	Heading:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
	Conclusion:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
	CitationTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
	Explanation:   lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("250")),
	BlockLabel:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245")),
	Source:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	NoData:        lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("196")),
}
