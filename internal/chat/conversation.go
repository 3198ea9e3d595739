// Package chat owns the state of one conversation with the RAG backend.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/finderai/hadithctl/internal/domain"
)

// DefaultWelcome is the synthetic assistant message that opens every session.
const DefaultWelcome = "Welcome! I remember previous messages in this session. " +
	"Ask me about a topic (e.g., 'What is the importance of intentions?'), " +
	"then follow up with a related question like 'tell me more about it'."

// AnswerFetcher is the Response Client consumed by the conversation.
type AnswerFetcher interface {
	FetchAnswer(ctx context.Context, query, sessionID string) (domain.Content, error)
}

// FetcherFunc adapts a function to AnswerFetcher.
type FetcherFunc func(ctx context.Context, query, sessionID string) (domain.Content, error)

// FetchAnswer calls f.
func (f FetcherFunc) FetchAnswer(ctx context.Context, query, sessionID string) (domain.Content, error) {
	return f(ctx, query, sessionID)
}

// State is a point-in-time copy of the conversation.
type State struct {
	SessionID string
	Messages  []domain.ChatMessage
	Pending   bool
}

// Option configures a Conversation.
type Option func(*Conversation)

// WithLogger sets the logger used for turn diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Conversation) { c.logger = logger }
}

// WithWelcome replaces the welcome text seeded by Initialize.
func WithWelcome(text string) Option {
	return func(c *Conversation) { c.welcome = text }
}

// WithSessionID replaces the session identifier generator.
func WithSessionID(gen func() string) Option {
	return func(c *Conversation) { c.newSessionID = gen }
}

// Conversation is the conversation controller: it owns the session identifier,
// the append-only message log, the input buffer and the pending flag.
//
// At most one turn is in flight at a time. Submissions made while a turn is
// pending are dropped, never queued. All methods are safe for concurrent use.
type Conversation struct {
	fetcher      AnswerFetcher
	logger       *slog.Logger
	welcome      string
	newSessionID func() string

	initOnce  sync.Once
	mu        sync.Mutex
	sessionID string
	messages  []domain.ChatMessage
	input     string
	pending   bool
	current   *Turn // in-flight turn, nil when idle
}

// New creates a conversation bound to a Response Client.
//
// Parameters:
//   - fetcher: Response Client used for every turn
//   - opts: optional logger, welcome text and session id generator
//
// Returns:
//   - an uninitialized *Conversation; call Initialize before submitting
func New(fetcher AnswerFetcher, opts ...Option) *Conversation {
	c := &Conversation{
		fetcher:      fetcher,
		logger:       slog.Default(),
		welcome:      DefaultWelcome,
		newSessionID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize mints the session identifier and seeds the log with the welcome
// message. It runs once per instance; later calls return the same identifier.
func (c *Conversation) Initialize() string {
	c.initOnce.Do(func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		c.sessionID = c.newSessionID()
		c.messages = []domain.ChatMessage{domain.NewAssistantMessage(domain.Text(c.welcome))}
		c.pending = false
		c.logger = c.logger.With("session_id", c.sessionID)
		c.logger.Info("conversation initialized")
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// SessionID returns the identifier sent with every request of this instance.
func (c *Conversation) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Pending reports whether a turn is in flight.
func (c *Conversation) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Messages returns a copy of the log.
func (c *Conversation) Messages() []domain.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyMessages()
}

// State returns a copy of the whole conversation state.
func (c *Conversation) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		SessionID: c.sessionID,
		Messages:  c.copyMessages(),
		Pending:   c.pending,
	}
}

// SetInput replaces the input buffer.
func (c *Conversation) SetInput(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = text
}

// Input returns the input buffer.
func (c *Conversation) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// Turn is one accepted submission waiting for its backend call.
type Turn struct {
	Query     string
	SessionID string

	conv  *Conversation
	start time.Time
}

// Outcome is the settled result of a turn.
type Outcome struct {
	Content domain.Content
	Err     error
}

// Begin performs the synchronous half of a submission.
//
// The query is rejected (nil, false) when it is blank after trimming or when a
// turn is already pending; a rejected call changes nothing. Otherwise the
// trimmed query is appended as a user message, the input buffer is cleared and
// the conversation becomes pending until Complete is called.
//
// Parameters:
//   - query: raw user input
//
// Returns:
//   - *Turn: the accepted turn, to be executed with Run
//   - bool: whether the submission was accepted
func (c *Conversation) Begin(query string) (*Turn, bool) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending {
		c.logger.Debug("submission rejected, turn already pending")
		return nil, false
	}
	if c.sessionID == "" {
		c.logger.Warn("submission rejected, conversation not initialized")
		return nil, false
	}

	turn := &Turn{Query: trimmed, SessionID: c.sessionID, conv: c, start: time.Now()}
	c.messages = append(c.messages, domain.NewUserMessage(trimmed))
	c.input = ""
	c.pending = true
	c.current = turn

	c.logger.Debug("turn started", "query_length", len(trimmed))
	return turn, true
}

// Run performs the backend call of the turn. It never panics: a panic in the
// Response Client is recovered and reported as an Unknown failure.
func (t *Turn) Run(ctx context.Context) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Err: domain.NewUnknownError(fmt.Errorf("response client panicked: %v", r))}
		}
	}()

	content, err := t.conv.fetcher.FetchAnswer(ctx, t.Query, t.SessionID)
	return Outcome{Content: content, Err: err}
}

// Complete records the outcome of a turn as an assistant message and clears
// the pending flag. Successful content is stored untouched; failures become a
// human-readable error text. Only the in-flight turn settles: a nil, stale or
// already completed turn is ignored.
func (c *Conversation) Complete(t *Turn, out Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t == nil || t != c.current {
		c.logger.Debug("completion ignored, turn is not in flight")
		return
	}

	var msg domain.ChatMessage
	if out.Err != nil {
		msg = domain.NewAssistantMessage(domain.Text(domain.UserMessage(out.Err)))
		c.logger.Warn("turn failed",
			"kind", domain.KindOf(out.Err).String(),
			"duration", time.Since(t.start),
			"error", out.Err.Error(),
		)
	} else {
		msg = domain.NewAssistantMessage(out.Content)
		c.logger.Info("turn answered",
			"structured", domain.Classify(out.Content).Kind == domain.KindStructured,
			"duration", time.Since(t.start),
		)
	}

	c.messages = append(c.messages, msg)
	c.pending = false
	c.current = nil
}

// Submit runs a whole turn synchronously: Begin, the backend call and Complete.
// It returns false when the submission was rejected. The pending flag is
// released on every exit path.
func (c *Conversation) Submit(ctx context.Context, query string) bool {
	_, ok := c.Ask(ctx, query)
	return ok
}

// Ask is Submit that also reports how the turn settled. The Outcome is zero
// when the submission was rejected.
func (c *Conversation) Ask(ctx context.Context, query string) (out Outcome, ok bool) {
	turn, ok := c.Begin(query)
	if !ok {
		return Outcome{}, false
	}

	out = Outcome{Err: domain.NewUnknownError(fmt.Errorf("turn did not settle"))}
	defer func() { c.Complete(turn, out) }()

	out = turn.Run(ctx)
	return out, true
}

// SubmitInput submits the current input buffer.
func (c *Conversation) SubmitInput(ctx context.Context) bool {
	return c.Submit(ctx, c.Input())
}

func (c *Conversation) copyMessages() []domain.ChatMessage {
	out := make([]domain.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}
