// Package logging carries slog attributes through a context so that every
// record logged with it is tagged the same way (package, layout, session).
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
)

type ctxKey string

const (
	slogFields  ctxKey = "slog_fields"
	PackageName string = "package"
)

type ContextHandler struct {
	slog.Handler
}

// New returns a text logger writing to w through a ContextHandler.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(ContextHandler{Handler: slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})})
}

// Handle adds contextual attributes to the Record before calling the underlying handler.
func (h ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(slogFields).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}

	err := h.Handler.Handle(ctx, r)
	if err != nil {
		return fmt.Errorf("error handling record for a log: %+v: %w", r, err)
	}

	return nil
}

// WithAttrs and WithGroup keep the wrapper, otherwise logger.With drops the
// context attributes.
func (h ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return ContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h ContextHandler) WithGroup(name string) slog.Handler {
	return ContextHandler{Handler: h.Handler.WithGroup(name)}
}

// AppendCtx adds an slog attribute to the provided context so that it will be included in any Record created with such context.
// The parent's attributes are never modified.
func AppendCtx(parent context.Context, attr slog.Attr) context.Context {
	v, _ := parent.Value(slogFields).([]slog.Attr)

	return context.WithValue(parent, slogFields, append(slices.Clip(v), attr))
}

func PackageCtx(packageName string) context.Context {
	return AppendCtx(context.Background(), slog.String(PackageName, packageName))
}
