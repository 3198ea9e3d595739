package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Wrap applies auto-wrapping to text, correctly handling wide and RTL characters
func Wrap(text string, maxWidth int) string {
	if maxWidth <= 10 {
		return text
	}

	lines := strings.Split(text, "\n")
	var result strings.Builder

	for i, line := range lines {
		if i > 0 {
			result.WriteString("\n")
		}

		// Keep empty lines as-is
		if strings.TrimSpace(line) == "" {
			continue
		}

		result.WriteString(wrapLine(line, maxWidth))
	}

	return result.String()
}

// wrapLine wraps a single line of plain text by display width
func wrapLine(line string, maxWidth int) string {
	if runewidth.StringWidth(line) <= maxWidth {
		return line
	}

	var result strings.Builder
	var currentLine strings.Builder
	currentWidth := 0

	for _, r := range line {
		runeW := runewidth.RuneWidth(r)

		// If adding this character exceeds width, wrap first
		if currentWidth+runeW > maxWidth && currentWidth > 0 {
			result.WriteString(currentLine.String())
			result.WriteString("\n")
			currentLine.Reset()
			currentWidth = 0
		}

		currentLine.WriteRune(r)
		currentWidth += runeW
	}

	if currentLine.Len() > 0 {
		result.WriteString(currentLine.String())
	}

	return result.String()
}
