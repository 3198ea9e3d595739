package domain

import "fmt"

// Role identifies the author of a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Content is the body of a chat message: either Text or *StructuredAnswer
type Content interface {
	isContent()
}

// Text is free-form message content
type Text string

func (Text) isContent() {}

// StructuredAnswer is an assistant reply decomposed into summary, citations and conclusion
type StructuredAnswer struct {
	Summary    string
	Citations  []Citation
	Conclusion string
}

func (*StructuredAnswer) isContent() {}

// Citation is one retrieved source record backing part of an answer
type Citation struct {
	Title           string
	Explanation     string
	OriginalText    string
	TranslatedText  string
	ReferenceNumber string
	SourceTitle     string
}

// ChatMessage is one immutable entry of the conversation log
type ChatMessage struct {
	Role    Role
	Content Content
}

// NewUserMessage creates a user message; user content is always Text
func NewUserMessage(query string) ChatMessage {
	return ChatMessage{Role: RoleUser, Content: Text(query)}
}

// NewAssistantMessage creates an assistant message carrying content untouched
func NewAssistantMessage(content Content) ChatMessage {
	return ChatMessage{Role: RoleAssistant, Content: content}
}

// ContentKind is the display variant chosen by Classify
type ContentKind int

const (
	KindText ContentKind = iota
	KindStructured
)

// Classification is the result of Classify
type Classification struct {
	Kind ContentKind
	// Text is set when Kind is KindText
	Text string
	// Answer is set when Kind is KindStructured and always has at least one citation
	Answer *StructuredAnswer
	// NoStructuredData marks structured content without citations.
	// Kind is KindText in that case and the renderer shows a dedicated indicator.
	NoStructuredData bool
}

// Classify decides how content is displayed. It is total: every value maps to
// exactly one of KindText or KindStructured.
func Classify(content Content) Classification {
	switch c := content.(type) {
	case *StructuredAnswer:
		if c == nil || len(c.Citations) == 0 {
			return Classification{Kind: KindText, NoStructuredData: true}
		}
		return Classification{Kind: KindStructured, Answer: c}
	case Text:
		return Classification{Kind: KindText, Text: string(c)}
	case nil:
		return Classification{Kind: KindText}
	default:
		return Classification{Kind: KindText, Text: fmt.Sprint(c)}
	}
}

// TextOf returns the string form of content for logs and plain output
func TextOf(content Content) string {
	cl := Classify(content)
	if cl.Kind == KindStructured {
		return cl.Answer.Summary
	}
	return cl.Text
}
