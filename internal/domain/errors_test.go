package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseError_Classes(t *testing.T) {
	cause := errors.New("dial tcp 127.0.0.1:1: connect: connection refused")

	tests := []struct {
		name        string
		err         error
		wantKind    ErrorKind
		wantSent    error
		wantMessage string
	}{
		{
			name:        "network unavailable",
			err:         NewNetworkUnavailableError(cause),
			wantKind:    KindNetworkUnavailable,
			wantSent:    ErrNetworkUnavailable,
			wantMessage: "Error: Could not reach the backend. Check that it is running and try again.",
		},
		{
			name:        "server error with status",
			err:         NewServerError(502, "", nil),
			wantKind:    KindServerError,
			wantSent:    ErrServerError,
			wantMessage: "Error: The backend returned an invalid response (HTTP 502).",
		},
		{
			name:        "server error with detail",
			err:         NewServerError(500, "index not loaded", nil),
			wantKind:    KindServerError,
			wantSent:    ErrServerError,
			wantMessage: "Error: The backend returned an invalid response (HTTP 500): index not loaded.",
		},
		{
			name:        "server error with detail ending in a period",
			err:         NewServerError(500, "boom.", nil),
			wantKind:    KindServerError,
			wantSent:    ErrServerError,
			wantMessage: "Error: The backend returned an invalid response (HTTP 500): boom.",
		},
		{
			name:        "server error with only periods as detail",
			err:         NewServerError(503, "...", nil),
			wantKind:    KindServerError,
			wantSent:    ErrServerError,
			wantMessage: "Error: The backend returned an invalid response (HTTP 503).",
		},
		{
			name:        "unknown",
			err:         NewUnknownError(cause),
			wantKind:    KindUnknown,
			wantSent:    ErrUnknown,
			wantMessage: "Error: Something went wrong while fetching the answer.",
		},
		{
			name:        "unclassified error",
			err:         errors.New("boom"),
			wantKind:    KindUnknown,
			wantMessage: "Error: Something went wrong while fetching the answer.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantKind, KindOf(tt.err))
			assert.Equal(t, tt.wantMessage, UserMessage(tt.err))
			if tt.wantSent != nil {
				assert.ErrorIs(t, tt.err, tt.wantSent)
			}
		})
	}
}

func TestResponseError_WrappedStillClassified(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("fetch answer: %w", NewNetworkUnavailableError(cause))

	assert.True(t, IsNetworkUnavailable(err))
	assert.False(t, IsServerError(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindNetworkUnavailable, KindOf(err))
}

func TestResponseError_Error(t *testing.T) {
	err := NewServerError(500, "oops", errors.New("bad json"))
	assert.Equal(t, "ServerError (HTTP 500): oops: bad json", err.Error())
	assert.Equal(t, "NetworkUnavailable", KindNetworkUnavailable.String())
}
