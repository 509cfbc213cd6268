package domain

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestID(ctx))

	ctx = WithRequestID(ctx, "req-1")
	assert.Equal(t, "req-1", RequestID(ctx))
}

func TestSessionFromContext_DefaultsToUnset(t *testing.T) {
	s := SessionFromContext(context.Background())

	assert.Equal(t, SessionUnset, s.State)
	assert.False(t, s.Granted())
}

func TestWithSession(t *testing.T) {
	expires := time.Now().Add(time.Hour)
	ctx := WithSession(context.Background(), Session{ID: "abc", State: SessionGranted, ExpiresAt: expires})

	s := SessionFromContext(ctx)
	assert.True(t, s.Granted())
	assert.Equal(t, "abc", s.ID)
	assert.Equal(t, expires, s.ExpiresAt)

	expired := SessionFromContext(WithSession(ctx, Session{State: SessionExpired}))
	assert.False(t, expired.Granted())
}
