package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

type contextKey string

const TraceIDKey contextKey = "traceID"

type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Options control every logger created by New after Configure is called.
type Options struct {
	Format Format
	Level  slog.Level
	Writer io.Writer
}

var (
	mu       sync.RWMutex
	defaults = Options{
		Format: ParseFormat(os.Getenv("LOG_FORMAT")),
		Level:  ParseLevel(os.Getenv("LOG_LEVEL")),
	}
)

type Logger interface {
	Error(msg string, args ...any) error
	Err(msg string, err error, args ...any) error
	ErrMsg(msg string) error
	Er(msg string, err error, args ...any)
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Info(msg string, args ...any)
	With(args ...any) Logger
	File(name string) Logger
	Function(name string) Logger
	Timer(msg string) func()
	TraceFromContext(ctx context.Context) Logger
}

type SlogLogger struct {
	logger *slog.Logger
}

// Configure replaces the options used by later calls to New. Loggers that
// already exist keep their handler.
func Configure(opts Options) {
	mu.Lock()
	defer mu.Unlock()
	defaults = opts
}

func ParseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func ParseFormat(value string) Format {
	if strings.EqualFold(strings.TrimSpace(value), string(FormatText)) {
		return FormatText
	}
	return FormatJSON
}

// New returns a logger tagged with the package name. Under go test output is
// discarded.
func New(name string) Logger {
	if isTestMode() {
		return &SlogLogger{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	}

	mu.RLock()
	opts := defaults
	mu.RUnlock()

	return &SlogLogger{logger: slog.New(newHandler(opts)).With("package", name)}
}

func newHandler(opts Options) slog.Handler {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.Level}
	if opts.Format == FormatText {
		return slog.NewTextHandler(writer, handlerOpts)
	}
	return slog.NewJSONHandler(writer, handlerOpts)
}

func isTestMode() bool {
	for _, arg := range os.Args {
		if strings.HasPrefix(arg, "-test.") {
			return true
		}
	}
	return false
}

func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}

func (l *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{logger: l.logger.With(args...)}
}

func (l *SlogLogger) File(name string) Logger {
	return l.With("file", name)
}

func (l *SlogLogger) Function(name string) Logger {
	return l.With("function", name)
}

// TraceFromContext tags the logger with the request's trace id, if any.
func (l *SlogLogger) TraceFromContext(ctx context.Context) Logger {
	traceID := TraceIDFromContext(ctx)
	if traceID == "" {
		return l
	}
	return l.With("traceID", traceID)
}

// Error logs msg and returns it as a new error.
func (l *SlogLogger) Error(msg string, args ...any) error {
	l.logger.Error(msg, args...)
	return errors.New(msg)
}

func (l *SlogLogger) ErrMsg(msg string) error {
	return l.Error(msg)
}

func (l *SlogLogger) Er(msg string, err error, args ...any) {
	l.logger.Error(msg, append([]any{"error", err}, args...)...)
}

// Err logs err and hands it back unchanged so callers can still match it.
func (l *SlogLogger) Err(msg string, err error, args ...any) error {
	l.Er(msg, err, args...)
	return err
}

func (l *SlogLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

func (l *SlogLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

func (l *SlogLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

// Timer logs how long the operation took when the returned func is called.
func (l *SlogLogger) Timer(msg string) func() {
	start := time.Now()
	return func() {
		elapsed := time.Since(start)
		l.logger.Info(msg+" finished", "durationMs", elapsed.Milliseconds())
	}
}
