package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/finderai/hadithctl/internal/chat"
	"github.com/finderai/hadithctl/internal/cli/ui"
)

// UI configuration constants
const (
	defaultInputWidth     = 100
	defaultViewportWidth  = 100
	defaultViewportHeight = 30
	defaultWindowWidth    = 100
	defaultWindowHeight   = 40
	inputCharLimit        = 4000
	inputHeightReserved   = 2
	statusHeightReserved  = 3
	minContentHeight      = 10
)

var (
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	thinkingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
)

// ChatProgram encapsulates the chat TUI program
type ChatProgram struct {
	model chatModel
}

// NewChatProgram creates a new chat program for an initialized conversation
func NewChatProgram(ctx context.Context, conv *chat.Conversation) *ChatProgram {
	return &ChatProgram{model: initialModel(ctx, conv)}
}

// Run starts the chat TUI program
func (p *ChatProgram) Run() error {
	program := tea.NewProgram(p.model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// chatModel is the Bubble Tea model. The conversation owns all chat state;
// the model only keeps widgets and window geometry.
type chatModel struct {
	ctx  context.Context
	conv *chat.Conversation

	input       textinput.Model
	contentView viewport.Model
	spinner     spinner.Model

	width  int
	height int
}

func initialModel(ctx context.Context, conv *chat.Conversation) chatModel {
	input := textinput.New()
	input.Placeholder = "Ask your question about Hadith or Islamic topics..."
	input.Focus()
	input.CharLimit = inputCharLimit
	input.Width = defaultInputWidth
	input.Prompt = ""

	contentViewport := viewport.New(defaultViewportWidth, defaultViewportHeight)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = thinkingStyle

	m := chatModel{
		ctx:         ctx,
		conv:        conv,
		input:       input,
		contentView: contentViewport,
		spinner:     sp,
		width:       defaultWindowWidth,
		height:      defaultWindowHeight,
	}
	m.refreshContent()
	return m
}

// Init initializes the model (Bubble Tea interface)
func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

// turnDoneMsg carries a settled backend call back onto the event loop
type turnDoneMsg struct {
	turn    *chat.Turn
	outcome chat.Outcome
}

// Update processes messages and updates the model (Bubble Tea interface)
func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd, handled := m.handleKeyPress(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		if handled {
			return m, tea.Batch(cmds...)
		}

	case tea.WindowSizeMsg:
		m.handleWindowResize(msg)

	case turnDoneMsg:
		m.conv.Complete(msg.turn, msg.outcome)
		m.refreshContent()

	case spinner.TickMsg:
		// the spinner stops ticking once the turn settles
		if m.conv.Pending() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	// Input is disabled while a turn is pending
	if !m.conv.Pending() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.conv.SetInput(m.input.Value())
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKeyPress handles keys owned by the chat view; handled keys are not
// forwarded to the input widget
func (m *chatModel) handleKeyPress(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return tea.Quit, true

	case tea.KeyEnter:
		return m.submit(), true

	case tea.KeyUp:
		m.contentView.LineUp(1)
		return nil, true

	case tea.KeyDown:
		m.contentView.LineDown(1)
		return nil, true

	case tea.KeyPgUp:
		m.contentView.ViewUp()
		return nil, true

	case tea.KeyPgDown:
		m.contentView.ViewDown()
		return nil, true
	}

	return nil, false
}

// submit starts a turn from the input buffer and dispatches the backend call
// off the event loop. Rejected submissions (blank or pending) do nothing.
func (m *chatModel) submit() tea.Cmd {
	m.conv.SetInput(m.input.Value())
	turn, ok := m.conv.Begin(m.conv.Input())
	if !ok {
		return nil
	}

	m.input.Reset()
	m.refreshContent()

	ctx := m.ctx
	return tea.Batch(
		func() tea.Msg {
			return turnDoneMsg{turn: turn, outcome: turn.Run(ctx)}
		},
		m.spinner.Tick,
	)
}

// handleWindowResize handles window size changes
func (m *chatModel) handleWindowResize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height

	contentHeight := msg.Height - inputHeightReserved - statusHeightReserved
	if contentHeight < minContentHeight {
		contentHeight = minContentHeight
	}

	m.contentView.Width = msg.Width
	m.contentView.Height = contentHeight
	m.input.Width = msg.Width - 3

	m.refreshContent()
}

// refreshContent re-renders every message of the log
func (m *chatModel) refreshContent() {
	state := m.conv.State()
	m.contentView.SetContent(ui.RenderConversation(state.Messages, m.width))
	m.contentView.GotoBottom()
}

// View renders the UI (Bubble Tea interface)
func (m chatModel) View() string {
	pending := m.conv.Pending()

	status := ui.Styles.Dim.Render("Hadith AI Chatbot • session " + ui.ShortID(m.conv.SessionID()))
	if pending {
		status += " " + m.spinner.View() + thinkingStyle.Render("Thinking...")
	}

	var inputView string
	if pending {
		inputView = ui.Styles.Dim.Render("> waiting for the answer...")
	} else {
		inputView = promptStyle.Render("> ") + m.input.View()
	}

	parts := []string{status, "", m.contentView.View(), "", inputView}
	if !pending {
		parts = append(parts, ui.Styles.Dim.Render("Enter send • ↑↓ scroll • Esc quit"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
