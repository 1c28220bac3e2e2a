// Package logging builds the JSON slog logger and carries it in a context.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

type ctxKey struct{}

// ParseLevel accepts debug, info, warn or error in any case, with an optional
// offset such as "info+2". Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
	return lvl, nil
}

func New(service, level string) *slog.Logger {
	return NewWithWriter(os.Stdout, service, level)
}

// NewWithWriter logs at info when level does not parse.
func NewWithWriter(w io.Writer, service, level string) *slog.Logger {
	lvl, _ := ParseLevel(level)
	l := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
	if service != "" {
		l = l.With("service", service)
	}
	return l
}

func IntoContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext falls back to slog.Default outside a request.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}
