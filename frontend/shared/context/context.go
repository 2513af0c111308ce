package context

import "context"

type pageTokenKey struct{}

func NewContextWithPageToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, pageTokenKey{}, token)
}

func GetPageTokenFromContext(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(pageTokenKey{}).(string)
	return t, ok && t != ""
}
