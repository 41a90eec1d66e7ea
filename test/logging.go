// Package test holds helpers shared by the package tests.
package test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/quay/claircore/toolkit/log"
)

// Setup installs the test log handler exactly once.
var setup = sync.OnceFunc(func() {
	slog.SetDefault(slog.New(log.WrapHandler(handler{})))
})

type ctxKey struct{}

var logHandler ctxKey

var _ slog.Handler = handler{}

// Handler implements [slog.Handler] by forwarding to the handler stored in
// the [context.Context] by [Logging]. Records logged with a Context lacking
// one are dropped.
//
// Attributes and groups added through the [slog.Logger] are replayed onto
// the Context's handler at Handle time.
type handler struct {
	ops []func(slog.Handler) slog.Handler
}

func fromContext(ctx context.Context) (slog.Handler, bool) {
	h, ok := ctx.Value(logHandler).(slog.Handler)
	return h, ok
}

// Enabled implements [slog.Handler].
func (h handler) Enabled(ctx context.Context, l slog.Level) bool {
	lh, ok := fromContext(ctx)
	return ok && lh.Enabled(ctx, l)
}

// Handle implements [slog.Handler].
func (h handler) Handle(ctx context.Context, r slog.Record) error {
	lh, ok := fromContext(ctx)
	if !ok {
		return nil
	}
	for _, op := range h.ops {
		lh = op(lh)
	}
	return lh.Handle(ctx, r)
}

// WithAttrs implements [slog.Handler].
func (h handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.with(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

// WithGroup implements [slog.Handler].
func (h handler) WithGroup(name string) slog.Handler {
	return h.with(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (h handler) with(op func(slog.Handler) slog.Handler) handler {
	ops := make([]func(slog.Handler) slog.Handler, len(h.ops), len(h.ops)+1)
	copy(ops, h.ops)
	return handler{ops: append(ops, op)}
}

// Logging returns a [context.Context] that makes the default [slog.Logger]
// write to the test's output.
//
// Times are reported relative to the call to Logging.
func Logging(t testing.TB) context.Context {
	setup()
	start := time.Now()
	h := slog.NewTextHandler(t.Output(), &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(g []string, a slog.Attr) slog.Attr {
			if g == nil && a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, "+"+time.Since(start).String())
			}
			return a
		},
	})
	return context.WithValue(context.Background(), logHandler, slog.Handler(h))
}
