// Package auth carries the request's access level through its context.
package auth

import "context"

type contextKey struct{}

type Access struct {
	Parent   bool
	RemoteIP string
}

func WithAccess(ctx context.Context, a Access) context.Context {
	return context.WithValue(ctx, contextKey{}, a)
}

func FromContext(ctx context.Context) (Access, bool) {
	a, ok := ctx.Value(contextKey{}).(Access)
	return a, ok
}

// IsParent reports whether the request passed the parent PIN check.
func IsParent(ctx context.Context) bool {
	a, ok := FromContext(ctx)
	return ok && a.Parent
}
