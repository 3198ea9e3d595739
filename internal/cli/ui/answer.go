package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/finderai/hadithctl/internal/domain"
)

// NoStructuredDataText is shown for structured content that carries no citations
const NoStructuredDataText = "No structured data found for this query."

const (
	minBlockWidth = 20
	treeIndent    = 4
)

// RenderMessage renders one chat message. It is a pure function of the
// message role and content; width <= 0 disables wrapping.
func RenderMessage(msg domain.ChatMessage, width int) string {
	if msg.Role == domain.RoleUser {
		return Wrap(domain.TextOf(msg.Content), width)
	}

	cl := domain.Classify(msg.Content)
	switch {
	case cl.Kind == domain.KindStructured:
		return RenderStructuredAnswer(cl.Answer, width)
	case cl.NoStructuredData:
		return Styles.NoData.Render(NoStructuredDataText)
	default:
		return Wrap(cl.Text, width)
	}
}

// RenderConversation renders the whole log with a role header per message
func RenderConversation(messages []domain.ChatMessage, width int) string {
	var b strings.Builder
	for i, msg := range messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(roleLabel(msg.Role))
		b.WriteString("\n")
		b.WriteString(RenderMessage(msg, width))
	}
	return b.String()
}

func roleLabel(role domain.Role) string {
	if role == domain.RoleUser {
		return Styles.UserLabel.Render("You")
	}
	return Styles.AssistantLabel.Render("Assistant")
}

// RenderStructuredAnswer renders summary, citations in their original order,
// then the conclusion. An answer without citations renders the no-data indicator.
func RenderStructuredAnswer(answer *domain.StructuredAnswer, width int) string {
	if answer == nil || len(answer.Citations) == 0 {
		return Styles.NoData.Render(NoStructuredDataText)
	}

	sections := []string{
		Styles.Heading.Render("Summary"),
		Wrap(answer.Summary, width),
		"",
		Styles.Heading.Render("Citations and Explanations:"),
	}

	for i, citation := range answer.Citations {
		sections = append(sections, renderCitation(i, citation, width))
	}

	sections = append(sections,
		"",
		Styles.Conclusion.Render("💡 Final Conclusion"),
		Wrap(answer.Conclusion, width),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderCitation renders one citation as a tree rooted at its index-qualified title
func renderCitation(index int, c domain.Citation, width int) string {
	blockWidth := 0
	if width > 0 {
		blockWidth = max(width-treeIndent, minBlockWidth)
	}

	title := Styles.CitationTitle.Render(fmt.Sprintf("[%d] %s", index+1, c.Title))

	t := tree.Root(title).Child(
		Styles.Explanation.Render(Wrap(c.Explanation, blockWidth)),
		labeledBlock("Original Text (Arabic):", rightAligned(c.OriginalText, blockWidth)),
		labeledBlock("English Translation:", Wrap(c.TranslatedText, blockWidth)),
		fmt.Sprintf("%s Hadith No. %s (%s)",
			Styles.BlockLabel.Render("Source:"),
			c.ReferenceNumber,
			c.SourceTitle,
		),
	)

	return t.String()
}

func labeledBlock(label, body string) string {
	return Styles.BlockLabel.Render(label) + "\n" + body
}

// rightAligned lays out right-to-left text against the right edge of the block
func rightAligned(text string, width int) string {
	if width <= 0 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Right).Render(text)
}
