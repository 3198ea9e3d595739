package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// HertzSlogAdapter adapts slog to Hertz's hlog interface so the HTTP client
// never writes to the terminal the TUI is drawing on.
type HertzSlogAdapter struct {
	logger *slog.Logger
	level  atomic.Int32 // minimum hlog.Level forwarded
}

var _ hlog.FullLogger = (*HertzSlogAdapter)(nil)

// NewHertzSlogAdapter creates a new Hertz logger adapter using slog
func NewHertzSlogAdapter(logger *slog.Logger) *HertzSlogAdapter {
	a := &HertzSlogAdapter{logger: logger.With("component", "hertz")}
	a.level.Store(int32(hlog.LevelTrace))
	return a
}

// RedirectHertz installs an adapter for logger as Hertz's global logger
func RedirectHertz(logger *slog.Logger) {
	hlog.SetLogger(NewHertzSlogAdapter(logger))
}

// slogLevel maps hlog levels onto slog; trace folds into debug, notice into
// info and fatal into error (the client must not exit the process)
func slogLevel(level hlog.Level) slog.Level {
	switch level {
	case hlog.LevelTrace, hlog.LevelDebug:
		return slog.LevelDebug
	case hlog.LevelInfo, hlog.LevelNotice:
		return slog.LevelInfo
	case hlog.LevelWarn:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

func (h *HertzSlogAdapter) log(ctx context.Context, level hlog.Level, msg string) {
	if level < hlog.Level(h.level.Load()) {
		return
	}
	h.logger.Log(ctx, slogLevel(level), msg)
}

func (h *HertzSlogAdapter) Trace(v ...interface{})  { h.log(context.Background(), hlog.LevelTrace, formatMessage(v...)) }
func (h *HertzSlogAdapter) Debug(v ...interface{})  { h.log(context.Background(), hlog.LevelDebug, formatMessage(v...)) }
func (h *HertzSlogAdapter) Info(v ...interface{})   { h.log(context.Background(), hlog.LevelInfo, formatMessage(v...)) }
func (h *HertzSlogAdapter) Notice(v ...interface{}) { h.log(context.Background(), hlog.LevelNotice, formatMessage(v...)) }
func (h *HertzSlogAdapter) Warn(v ...interface{})   { h.log(context.Background(), hlog.LevelWarn, formatMessage(v...)) }
func (h *HertzSlogAdapter) Error(v ...interface{})  { h.log(context.Background(), hlog.LevelError, formatMessage(v...)) }
func (h *HertzSlogAdapter) Fatal(v ...interface{})  { h.log(context.Background(), hlog.LevelFatal, formatMessage(v...)) }

func (h *HertzSlogAdapter) Tracef(format string, v ...interface{}) {
	h.log(context.Background(), hlog.LevelTrace, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) Debugf(format string, v ...interface{}) {
	h.log(context.Background(), hlog.LevelDebug, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) Infof(format string, v ...interface{}) {
	h.log(context.Background(), hlog.LevelInfo, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) Noticef(format string, v ...interface{}) {
	h.log(context.Background(), hlog.LevelNotice, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) Warnf(format string, v ...interface{}) {
	h.log(context.Background(), hlog.LevelWarn, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) Errorf(format string, v ...interface{}) {
	h.log(context.Background(), hlog.LevelError, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) Fatalf(format string, v ...interface{}) {
	h.log(context.Background(), hlog.LevelFatal, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) CtxTracef(ctx context.Context, format string, v ...interface{}) {
	h.log(ctx, hlog.LevelTrace, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) CtxDebugf(ctx context.Context, format string, v ...interface{}) {
	h.log(ctx, hlog.LevelDebug, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) CtxInfof(ctx context.Context, format string, v ...interface{}) {
	h.log(ctx, hlog.LevelInfo, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) CtxNoticef(ctx context.Context, format string, v ...interface{}) {
	h.log(ctx, hlog.LevelNotice, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) CtxWarnf(ctx context.Context, format string, v ...interface{}) {
	h.log(ctx, hlog.LevelWarn, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) CtxErrorf(ctx context.Context, format string, v ...interface{}) {
	h.log(ctx, hlog.LevelError, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) CtxFatalf(ctx context.Context, format string, v ...interface{}) {
	h.log(ctx, hlog.LevelFatal, fmt.Sprintf(format, v...))
}

// SetLevel sets the minimum hlog level forwarded to slog
func (h *HertzSlogAdapter) SetLevel(level hlog.Level) {
	h.level.Store(int32(level))
}

// SetOutput is a no-op; output is owned by the slog handler
func (h *HertzSlogAdapter) SetOutput(writer io.Writer) {}

func formatMessage(v ...interface{}) string {
	if len(v) == 1 {
		if s, ok := v[0].(string); ok {
			return s
		}
	}
	return fmt.Sprint(v...)
}
