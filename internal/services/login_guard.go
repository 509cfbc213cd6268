package services

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	apperrors "modulos/pricing/internal/errors"
)

// LoginGuardConfig tunes the password gate's abuse protection
type LoginGuardConfig struct {
	// MaxAttempts consecutive failures trigger a lockout
	MaxAttempts int
	// LockoutDuration is how long a locked client is refused
	LockoutDuration time.Duration
	// RatePerMinute caps login attempts per client, including successful ones
	RatePerMinute int
	// IdleTTL is how long an untouched client entry survives a Sweep
	IdleTTL time.Duration
}

type clientState struct {
	limiter     *rate.Limiter
	failures    int
	lockedUntil time.Time
	lastSeen    time.Time
}

// LoginGuard rate-limits login attempts per client and locks clients out
// after repeated wrong passwords
type LoginGuard struct {
	mu      sync.Mutex
	clients map[string]*clientState
	config  LoginGuardConfig
	logger  *zap.Logger
	now     func() time.Time
}

// NewLoginGuard creates a new login guard
func NewLoginGuard(config LoginGuardConfig, logger *zap.Logger) *LoginGuard {
	if config.IdleTTL <= 0 {
		config.IdleTTL = 10 * time.Minute
	}
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	if config.RatePerMinute < 1 {
		config.RatePerMinute = 1
	}
	return &LoginGuard{
		clients: make(map[string]*clientState),
		config:  config,
		logger:  logger,
		now:     time.Now,
	}
}

func (g *LoginGuard) client(key string, now time.Time) *clientState {
	c, ok := g.clients[key]
	if !ok {
		perMinute := g.config.RatePerMinute
		c = &clientState{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
		}
		g.clients[key] = c
	}
	c.lastSeen = now
	return c
}

// Allow reports whether key may attempt a login now. Locked clients get
// LOCKED_OUT, clients over the rate get RATE_LIMITED.
func (g *LoginGuard) Allow(key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	c := g.client(key, now)

	if now.Before(c.lockedUntil) {
		return apperrors.New(apperrors.ErrorCodeLockedOut,
			fmt.Sprintf("retry in %s", c.lockedUntil.Sub(now).Round(time.Second)))
	}
	if !c.limiter.AllowN(now, 1) {
		return apperrors.New(apperrors.ErrorCodeRateLimited)
	}
	return nil
}

// RecordFailure counts a wrong password and reports whether it locked the client out
func (g *LoginGuard) RecordFailure(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	c := g.client(key, now)
	c.failures++
	if c.failures < g.config.MaxAttempts {
		return false
	}

	c.failures = 0
	c.lockedUntil = now.Add(g.config.LockoutDuration)
	g.logger.Warn("Client locked out after repeated failed logins",
		zap.String("client", key),
		zap.Time("locked_until", c.lockedUntil),
	)
	return true
}

// RecordSuccess resets the failure counter for key
func (g *LoginGuard) RecordSuccess(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	c := g.client(key, g.now())
	c.failures = 0
	c.lockedUntil = time.Time{}
}

// RetryAfter returns how long key stays locked out, or zero
func (g *LoginGuard) RetryAfter(key string) time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()

	c, ok := g.clients[key]
	if !ok {
		return 0
	}
	if d := c.lockedUntil.Sub(g.now()); d > 0 {
		return d
	}
	return 0
}

// Sweep drops clients idle for longer than IdleTTL that are not locked out
// and returns how many were removed
func (g *LoginGuard) Sweep(now time.Time) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	removed := 0
	for key, c := range g.clients {
		if now.Before(c.lockedUntil) {
			continue
		}
		if now.Sub(c.lastSeen) >= g.config.IdleTTL {
			delete(g.clients, key)
			removed++
		}
	}
	return removed
}

// Tracked returns the number of clients currently held in memory
func (g *LoginGuard) Tracked() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.clients)
}
