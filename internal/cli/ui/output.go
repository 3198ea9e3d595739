package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

var (
	// Color definitions for terminal output
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	boldColor    = color.New(color.Bold)
)

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	successColor.Printf("✓ %s\n", msg)
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	errorColor.Printf("✗ %s\n", msg)
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	warningColor.Printf("⚠ %s\n", msg)
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	infoColor.Printf("ℹ %s\n", msg)
}

// PrintBold prints a bold message
func PrintBold(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	boldColor.Println(msg)
}

// ChatBanner returns the header shown above a conversation
func ChatBanner(sessionID string) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("63"))

	bannerStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(0, 2)

	title := titleStyle.Render("🕌 Hadith AI Chatbot")
	subtitle := Styles.Dim.Render("Conversational RAG Engine • session " + ShortID(sessionID))
	return bannerStyle.Render(title + "\n" + subtitle)
}

// ShortID truncates an identifier for display
func ShortID(id string) string {
	const displayLength = 8
	if len(id) <= displayLength {
		return id
	}
	return id[:displayLength]
}

// PrintSuccessBox prints a success message in a box
func PrintSuccessBox(title, content string) {
	boxContent := fmt.Sprintf("%s\n\n%s",
		successColor.Sprint(title),
		content,
	)
	fmt.Println(Styles.SuccessBox.Render(boxContent))
}

// PrintErrorBox prints an error message in a box
func PrintErrorBox(title, content string) {
	boxContent := fmt.Sprintf("%s\n\n%s",
		errorColor.Sprint(title),
		content,
	)
	fmt.Println(Styles.ErrorBox.Render(boxContent))
}
