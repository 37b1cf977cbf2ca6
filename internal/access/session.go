package access

import "context"

// Session identifies the caller a data-access call runs on behalf of.
// The zero value is the anonymous session.
type Session struct {
	IdentityID string
}

func (s Session) Anonymous() bool {
	return s.IdentityID == ""
}

type sessionKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session stored in ctx, or the anonymous session.
func SessionFromContext(ctx context.Context) Session {
	s, _ := ctx.Value(sessionKey{}).(Session)
	return s
}
