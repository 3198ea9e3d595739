package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/network/standard"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/finderai/hadithctl/internal/cli/types"
	"github.com/finderai/hadithctl/internal/domain"
)

const (
	defaultTimeout     = 60 * time.Second
	defaultDialTimeout = 10 * time.Second
	maxDetailLength    = 200
)

// Options configures the API client
type Options struct {
	Timeout     time.Duration // whole request, 0 means defaultTimeout
	DialTimeout time.Duration // 0 means defaultDialTimeout
	Logger      *slog.Logger
}

// APIClient wraps Hertz Client for HTTP communication with the RAG backend
type APIClient struct {
	client  *client.Client
	server  string
	timeout time.Duration
	logger  *slog.Logger
}

// NewAPIClient creates a new API client
func NewAPIClient(server string, opts Options) (*APIClient, error) {
	normalizedServer, err := NormalizeServerURL(server)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = defaultDialTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	c, err := client.NewClient(
		client.WithDialTimeout(opts.DialTimeout),
		client.WithMaxIdleConnDuration(60*time.Second),
		client.WithDialer(standard.NewDialer()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &APIClient{
		client:  c,
		server:  normalizedServer,
		timeout: opts.Timeout,
		logger:  opts.Logger.With("component", "api_client"),
	}, nil
}

// Server returns the normalized backend base URL
func (c *APIClient) Server() string {
	return c.server
}

// NormalizeServerURL ensures the URL has a scheme and no trailing slash.
// A path prefix is kept so backends mounted below the root still work.
func NormalizeServerURL(server string) (string, error) {
	server = strings.TrimSpace(server)
	if server == "" {
		return "", fmt.Errorf("server URL is empty")
	}
	if !strings.Contains(server, "://") {
		server = "http://" + server
	}

	u, err := url.Parse(server)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid server URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	return fmt.Sprintf("%s://%s%s", u.Scheme, u.Host, strings.TrimRight(u.Path, "/")), nil
}

// FetchAnswer sends one query for the session and returns the decoded payload.
// Failures are returned as *domain.ResponseError.
func (c *APIClient) FetchAnswer(ctx context.Context, query, sessionID string) (domain.Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewUnknownError(fmt.Errorf("request aborted: %w", err))
	}

	bodyBytes, err := sonic.Marshal(types.QueryRequest{
		Query:     query,
		SessionID: sessionID,
	})
	if err != nil {
		return nil, domain.NewUnknownError(fmt.Errorf("failed to marshal request: %w", err))
	}

	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	req.SetMethod(consts.MethodPost)
	req.SetRequestURI(c.server + endpointQuery)
	req.Header.SetContentTypeBytes([]byte(contentTypeJSON))
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set(headerContractVersion, types.ContractVersion)
	req.SetBody(bodyBytes)

	start := time.Now()
	if err := c.client.DoTimeout(ctx, req, resp, c.timeout); err != nil {
		c.logger.Warn("query request failed",
			"session_id", sessionID,
			"duration", time.Since(start),
			"error", err.Error(),
		)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, domain.NewUnknownError(fmt.Errorf("request aborted: %w", errors.Join(ctxErr, err)))
		}
		return nil, domain.NewNetworkUnavailableError(fmt.Errorf("request failed: %w", err))
	}

	statusCode := resp.StatusCode()
	body := resp.Body()
	if statusCode < 200 || statusCode >= 300 {
		c.logger.Warn("query rejected by backend",
			"session_id", sessionID,
			"status", statusCode,
			"duration", time.Since(start),
		)
		return nil, domain.NewServerError(statusCode, safeDetail(body), nil)
	}

	content, err := decodeContent(body)
	if err != nil {
		c.logger.Warn("malformed query response",
			"session_id", sessionID,
			"status", statusCode,
			"error", err.Error(),
		)
		return nil, domain.NewServerError(statusCode, "malformed response payload", err)
	}

	c.logger.Debug("query answered",
		"session_id", sessionID,
		"status", statusCode,
		"duration", time.Since(start),
	)
	return content, nil
}

// decodeContent turns a success body into message content.
// Objects become structured answers and arrays an answer without citations;
// strings become text and any other JSON value is kept as its raw text form.
func decodeContent(body []byte) (domain.Content, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	switch trimmed[0] {
	case '{':
		var payload types.QueryResponse
		if err := sonic.Unmarshal(trimmed, &payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal response: %w", err)
		}
		return payload.ToDomain(), nil
	case '[':
		if !sonic.Valid(trimmed) {
			return nil, fmt.Errorf("response is not valid JSON")
		}
		return &domain.StructuredAnswer{}, nil
	case '"':
		var text string
		if err := sonic.Unmarshal(trimmed, &text); err != nil {
			return nil, fmt.Errorf("failed to unmarshal response: %w", err)
		}
		return domain.Text(text), nil
	default:
		if !sonic.Valid(trimmed) {
			return nil, fmt.Errorf("response is not valid JSON")
		}
		if bytes.Equal(trimmed, []byte("null")) {
			return domain.Text(""), nil
		}
		return domain.Text(string(trimmed)), nil
	}
}

// safeDetail extracts a short printable excerpt from an error body.
// FastAPI style {"detail": "..."} bodies yield just the detail string.
func safeDetail(body []byte) string {
	var fastapi struct {
		Detail string `json:"detail"`
	}
	if err := sonic.Unmarshal(body, &fastapi); err == nil && fastapi.Detail != "" {
		body = []byte(fastapi.Detail)
	}

	detail := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return ' '
		}
		if !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, string(body))
	detail = strings.TrimSpace(detail)

	if runes := []rune(detail); len(runes) > maxDetailLength {
		detail = string(runes[:maxDetailLength]) + "..."
	}
	return detail
}
