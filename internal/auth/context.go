package auth

import "context"

type viewerKey struct{}

// WithViewer stores the authenticated user id on ctx.
func WithViewer(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, viewerKey{}, userID)
}

// ViewerFrom returns the user id stored by RequireToken.
func ViewerFrom(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(viewerKey{}).(int64)
	return id, ok
}
