package multialloc

import "context"

type localKey struct{}

// NewContext returns a copy of ctx carrying l, so callees further down the
// same goroutine's call chain allocate under its selection.
func NewContext(ctx context.Context, l *Local) context.Context {
	return context.WithValue(ctx, localKey{}, l)
}

// FromContext returns the Local stored in ctx, if any.
func FromContext(ctx context.Context) (*Local, bool) {
	l, ok := ctx.Value(localKey{}).(*Local)
	return l, ok
}
