package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type ctxKey struct{}

// Logger writes one JSON object per line. Every entry carries the service,
// the action, the host and the request id of the scope it was created for.
type Logger struct {
	service   string
	requestID string
	sl        *slog.Logger
}

func New(service string) *Logger { return NewWithLevel(service, "info", os.Stdout) }

func NewWithLevel(service, level string, w io.Writer) *Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: parseLevel(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}
			switch a.Key {
			case slog.TimeKey:
				a.Key = "timestamp"
				a.Value = slog.StringValue(a.Value.Time().UTC().Format("2006-01-02T15:04:05.000000000Z07:00"))
			case slog.MessageKey:
				a.Key = "message"
			}
			return a
		},
	})
	return &Logger{
		service: service,
		sl:      slog.New(h).With(slog.String("service", service), slog.String("hostname", hostname())),
	}
}

// WithRequestID returns a child logger scoped to one request.
func (l *Logger) WithRequestID(id string) *Logger {
	return &Logger{service: l.service, requestID: id, sl: l.sl}
}

func (l *Logger) RequestID() string { return l.requestID }

func (l *Logger) log(level slog.Level, action string, fields map[string]any, err error) {
	attrs := make([]slog.Attr, 0, len(fields)+3)
	attrs = append(attrs, slog.String("action", action), slog.String("request_id", l.requestID))
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	if err != nil {
		attrs = append(attrs, slog.Group("error",
			slog.String("msg", err.Error()),
			slog.String("type", fmt.Sprintf("%T", err)),
		))
	}
	l.sl.LogAttrs(context.Background(), level, action, attrs...)
}

func (l *Logger) Info(action string, fields map[string]any)  { l.log(slog.LevelInfo, action, fields, nil) }
func (l *Logger) Debug(action string, fields map[string]any) { l.log(slog.LevelDebug, action, fields, nil) }
func (l *Logger) Warn(action string, err error, fields map[string]any) {
	l.log(slog.LevelWarn, action, fields, err)
}
func (l *Logger) Error(action string, err error, fields map[string]any) {
	l.log(slog.LevelError, action, fields, err)
}

// Into stores l in ctx.
func Into(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From returns the logger stored in ctx, or fallback.
func From(ctx context.Context, fallback *Logger) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok && l != nil {
		return l
	}
	return fallback
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func hostname() string { h, _ := os.Hostname(); return h }
