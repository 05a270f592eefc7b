package api

import (
	"context"
	"net/http"
)

// Session is the authenticated identity a request runs as. It is resolved
// once by the auth middleware and passed along explicitly; handlers never
// reach into global auth state.
type Session struct {
	OwnerID string
}

type sessionKey struct{}

// WithSession attaches the session to the request context.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the request's session. The second return is false on
// unauthenticated routes.
func SessionFrom(r *http.Request) (Session, bool) {
	s, ok := r.Context().Value(sessionKey{}).(Session)
	return s, ok
}
