package mocks

import (
	"context"

	"github.com/finderai/hadithctl/internal/domain"
)

// MockAnswerFetcher is a mock implementation of chat.AnswerFetcher
type MockAnswerFetcher struct {
	FetchAnswerFunc func(ctx context.Context, query, sessionID string) (domain.Content, error)
}

// FetchAnswer mocks the FetchAnswer method
func (m *MockAnswerFetcher) FetchAnswer(ctx context.Context, query, sessionID string) (domain.Content, error) {
	if m.FetchAnswerFunc != nil {
		return m.FetchAnswerFunc(ctx, query, sessionID)
	}
	return domain.Text(query), nil
}
