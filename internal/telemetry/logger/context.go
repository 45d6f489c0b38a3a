package logger

import "context"

type (
	ctxLoggerKey    struct{}
	ctxRequestIDKey struct{}
)

// WithLogger returns a copy of ctx carrying l.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, ctxLoggerKey{}, l)
}

// FromContext returns the logger stored by WithLogger, or Default.
func FromContext(ctx context.Context) Logger {
	l, ok := ctx.Value(ctxLoggerKey{}).(Logger)
	if !ok {
		return Default()
	}
	return l
}

// WithRequestID returns a copy of ctx carrying id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey{}, id)
}

// RequestIDFromContext returns the id stored by WithRequestID, if any.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxRequestIDKey{}).(string)
	return id
}

// L is the logger handlers and services should use: the context's logger,
// tagged with request_id when the request has one.
func L(ctx context.Context) Logger {
	l := FromContext(ctx)
	if id := RequestIDFromContext(ctx); id != "" {
		return l.With("request_id", id)
	}
	return l
}
