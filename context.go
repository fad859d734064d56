package appcore

import "context"

type clientIPContextKey struct{}

// WithClientIP attaches the caller's IP address to ctx so sign-in and
// sign-out audit events carry it. Optional; events without it simply omit
// the field.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPContextKey{}, ip)
}

func clientIPFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	ip, _ := ctx.Value(clientIPContextKey{}).(string)
	return ip
}
