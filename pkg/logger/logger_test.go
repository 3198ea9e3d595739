package logger

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finderai/hadithctl/internal/cli/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "verbose", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLevel(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

func TestSetup_FileOutput(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "nested", "hadithctl.log")
	logger, closer, err := Setup(config.LogConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: path,
	})
	require.NoError(t, err)

	logger.Info("turn answered", "session_id", "abc")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"turn answered"`)
	assert.Contains(t, string(data), `"session_id":"abc"`)
}

func TestSetup_Errors(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	_, _, err := Setup(config.LogConfig{Level: "nope", Format: "text", Output: "discard"})
	assert.Error(t, err)

	_, _, err = Setup(config.LogConfig{Level: "info", Format: "xml", Output: "discard"})
	assert.Error(t, err)

	_, _, err = Setup(config.LogConfig{Level: "info", Format: "text", Output: "file"})
	assert.Error(t, err)

	_, _, err = Setup(config.LogConfig{Level: "info", Format: "text", Output: "syslog"})
	assert.Error(t, err)
}

func TestHertzSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewHertzSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	adapter.Infof("dial %s", "127.0.0.1:8000")
	adapter.CtxWarnf(context.Background(), "retrying %d", 1)
	adapter.Fatal("fatal stays an error")
	out := buf.String()
	assert.Contains(t, out, "level=INFO msg=\"dial 127.0.0.1:8000\"")
	assert.Contains(t, out, "level=WARN msg=\"retrying 1\"")
	assert.Contains(t, out, "level=ERROR msg=\"fatal stays an error\"")
	assert.Contains(t, out, "component=hertz")

	buf.Reset()
	adapter.SetLevel(hlog.LevelWarn)
	adapter.Debug("hidden")
	adapter.Info("hidden")
	adapter.Error("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestContextLogger(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))

	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := WithContext(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}
