package middleware

import "context"

type holderKey struct{}

type sessionHolder struct {
	id string
}

func withSessionHolder(ctx context.Context, h *sessionHolder) context.Context {
	return context.WithValue(ctx, holderKey{}, h)
}

// ReportSessionID lets inner handlers tell Logger which session served the
// request. It is a no-op outside Logger.
func ReportSessionID(ctx context.Context, id string) {
	if h, ok := ctx.Value(holderKey{}).(*sessionHolder); ok {
		h.id = id
	}
}
