package tui

import (
	"context"
	"io"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finderai/hadithctl/internal/chat"
	"github.com/finderai/hadithctl/internal/domain"
)

func newConversation(fetch chat.FetcherFunc) *chat.Conversation {
	conv := chat.New(fetch, chat.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	conv.Initialize()
	return conv
}

// runCmd executes cmd and flattens batches into the produced messages
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func update(t *testing.T, m chatModel, msg tea.Msg) (chatModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(chatModel)
	require.True(t, ok)
	return nm, cmd
}

func typeText(t *testing.T, m chatModel, text string) chatModel {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func TestChatModel_SubmitAndComplete(t *testing.T) {
	var gotQuery, gotSession string
	conv := newConversation(func(ctx context.Context, query, sessionID string) (domain.Content, error) {
		gotQuery, gotSession = query, sessionID
		return &domain.StructuredAnswer{
			Summary:    "Deeds are judged by intentions.",
			Citations:  []domain.Citation{{Title: "Intentions", ReferenceNumber: "1", SourceTitle: "Sahih al-Bukhari"}},
			Conclusion: "Purify your intention.",
		}, nil
	})

	m := initialModel(context.Background(), conv)
	m = typeText(t, m, "What is the importance of intentions?")
	assert.Equal(t, "What is the importance of intentions?", conv.Input())

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, conv.Pending())
	assert.Empty(t, m.input.Value())
	assert.Len(t, conv.Messages(), 2)
	assert.Contains(t, m.View(), "Thinking...")

	var done *turnDoneMsg
	for _, msg := range runCmd(cmd) {
		if d, ok := msg.(turnDoneMsg); ok {
			done = &d
		}
	}
	require.NotNil(t, done, "submit must dispatch the backend call")
	assert.Equal(t, "What is the importance of intentions?", gotQuery)
	assert.Equal(t, conv.SessionID(), gotSession)

	m, _ = update(t, m, *done)
	assert.False(t, conv.Pending())
	require.Len(t, conv.Messages(), 3)

	view := m.View()
	assert.Contains(t, view, "Final Conclusion")
	assert.Contains(t, view, "Purify your intention.")
	assert.NotContains(t, view, "Thinking...")
}

func TestChatModel_EnterWhilePendingIsIgnored(t *testing.T) {
	conv := newConversation(func(ctx context.Context, query, sessionID string) (domain.Content, error) {
		return domain.Text("ok"), nil
	})

	m := initialModel(context.Background(), conv)
	m = typeText(t, m, "first")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	m = typeText(t, m, "second")
	m, cmd2 := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd2)
	assert.Len(t, conv.Messages(), 2)
	assert.True(t, conv.Pending())
	assert.Empty(t, m.input.Value(), "input is disabled while pending")
}

func TestChatModel_BlankEnterIsIgnored(t *testing.T) {
	conv := newConversation(func(ctx context.Context, query, sessionID string) (domain.Content, error) {
		t.Fatal("backend must not be called")
		return nil, nil
	})

	m := initialModel(context.Background(), conv)
	m = typeText(t, m, "   ")
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Len(t, conv.Messages(), 1)
	assert.False(t, conv.Pending())
}

func TestChatModel_FailureBecomesAssistantText(t *testing.T) {
	conv := newConversation(func(ctx context.Context, query, sessionID string) (domain.Content, error) {
		return nil, domain.NewNetworkUnavailableError(io.ErrUnexpectedEOF)
	})

	m := initialModel(context.Background(), conv)
	m = typeText(t, m, "hello")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	for _, msg := range runCmd(cmd) {
		m, _ = update(t, m, msg)
	}

	assert.False(t, conv.Pending())
	msgs := conv.Messages()
	require.Len(t, msgs, 3)
	assert.Contains(t, domain.TextOf(msgs[2].Content), "Could not reach the backend")
	assert.Contains(t, m.View(), "Could not reach the backend")
}

func TestChatModel_Quit(t *testing.T) {
	conv := newConversation(func(ctx context.Context, query, sessionID string) (domain.Content, error) {
		return domain.Text("ok"), nil
	})
	m := initialModel(context.Background(), conv)

	for _, key := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		_, cmd := update(t, m, tea.KeyMsg{Type: key})
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestChatModel_Resize(t *testing.T) {
	conv := newConversation(func(ctx context.Context, query, sessionID string) (domain.Content, error) {
		return domain.Text("ok"), nil
	})
	m := initialModel(context.Background(), conv)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 8})
	assert.Equal(t, 60, m.contentView.Width)
	assert.Equal(t, minContentHeight, m.contentView.Height)
	assert.Equal(t, 57, m.input.Width)
}
