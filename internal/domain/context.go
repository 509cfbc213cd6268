package domain

import (
	"context"
	"time"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyRequestID is the key for request ID in context
	ContextKeyRequestID ContextKey = "request_id"
	// ContextKeySession is the key for the caller's gate session in context
	ContextKeySession ContextKey = "session"
)

// SessionState is the state of the password gate for one session
type SessionState string

const (
	// SessionUnset means no password has been accepted for this caller yet
	SessionUnset SessionState = "unset"
	// SessionGranted means the caller presented a valid session token
	SessionGranted SessionState = "granted"
	// SessionExpired means the caller's session token is past its expiry
	SessionExpired SessionState = "expired"
)

// Session is the gate state carried through a request
type Session struct {
	ID        string
	State     SessionState
	ExpiresAt time.Time
}

// Granted reports whether the session passed the password gate
func (s Session) Granted() bool {
	return s.State == SessionGranted
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// RequestID retrieves the request ID from context
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

// WithSession adds the gate session to the context
func WithSession(ctx context.Context, session Session) context.Context {
	return context.WithValue(ctx, ContextKeySession, session)
}

// SessionFromContext retrieves the gate session; callers without one are unset
func SessionFromContext(ctx context.Context) Session {
	if s, ok := ctx.Value(ContextKeySession).(Session); ok {
		return s
	}
	return Session{State: SessionUnset}
}
