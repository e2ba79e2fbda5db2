package async

import (
	"context"
	"runtime/debug"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
)

// Dispatch executes a handler asynchronously, detached from the caller's
// cancellation. The webhook controller uses this to run pipelines off the
// request goroutine: GitHub expects a prompt response while a build can
// take many minutes.
//
// The handler receives a fresh background context that keeps the caller's
// logger. Panics are recovered and logged with a stack trace. Errors are
// logged and reported to Sentry (a no-op when Sentry is not configured).
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	newCtx := newBackgroundContext(ctx)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ctxlog.From(newCtx).Error("panic in async handler",
					"recover", r,
					"stack", string(debug.Stack()))
			}
		}()

		if err := handler(newCtx); err != nil {
			ctxlog.From(newCtx).Error("error in async handler", "error", err)
			sentry.CaptureException(err)
		}
	}()
}

// newBackgroundContext returns context.Background() with the caller's
// ctxlog logger preserved.
func newBackgroundContext(ctx context.Context) context.Context {
	return ctxlog.With(context.Background(), ctxlog.From(ctx))
}
