package commands

import (
	"context"
	"fmt"

	"github.com/finderai/hadithctl/internal/chat"
	"github.com/finderai/hadithctl/internal/cli/client"
	"github.com/finderai/hadithctl/internal/cli/config"
	"github.com/finderai/hadithctl/internal/cli/ui"
	"github.com/finderai/hadithctl/pkg/logger"
)

// newConversation wires the API client into an initialized conversation
func newConversation(ctx context.Context, cfg *config.Config) (*chat.Conversation, *client.APIClient, error) {
	log := logger.FromContext(ctx)
	apiClient, err := client.NewAPIClient(cfg.Server, client.Options{
		Timeout:     cfg.Client.Timeout,
		DialTimeout: cfg.Client.DialTimeout,
		Logger:      log,
	})
	if err != nil {
		ui.PrintError("failed to create client: %v", err)
		return nil, nil, fmt.Errorf("client creation failed")
	}

	opts := []chat.Option{chat.WithLogger(log)}
	if cfg.Chat.Welcome != "" {
		opts = append(opts, chat.WithWelcome(cfg.Chat.Welcome))
	}

	conv := chat.New(apiClient, opts...)
	conv.Initialize()
	return conv, apiClient, nil
}
