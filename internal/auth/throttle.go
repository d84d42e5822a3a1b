package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

const loginFailKeyPrefix = "login:fail:"

// ErrTooManyAttempts is returned while an email is locked out.
var ErrTooManyAttempts = errors.New("too many login attempts")

// AttemptStore counts failed logins. cache.Client implements it.
type AttemptStore interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Count(ctx context.Context, key string) (int64, error)
	Delete(ctx context.Context, keys ...string) error
}

// LoginThrottle locks an email out after repeated failed logins. When the
// store is unreachable the throttle is disabled rather than blocking logins.
type LoginThrottle struct {
	store       AttemptStore
	maxAttempts int64
	window      time.Duration
	log         *zap.Logger
}

// NewLoginThrottle creates a throttle. A non-positive maxAttempts disables it.
func NewLoginThrottle(store AttemptStore, maxAttempts int, window time.Duration, log *zap.Logger) *LoginThrottle {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoginThrottle{store: store, maxAttempts: int64(maxAttempts), window: window, log: log}
}

func (t *LoginThrottle) enabled() bool {
	return t != nil && t.store != nil && t.maxAttempts > 0
}

// Check returns ErrTooManyAttempts once the failure count reaches the limit.
func (t *LoginThrottle) Check(ctx context.Context, email string) error {
	if !t.enabled() {
		return nil
	}
	n, err := t.store.Count(ctx, throttleKey(email))
	if err != nil {
		t.log.Warn("login throttle unavailable", zap.Error(err))
		return nil
	}
	if n >= t.maxAttempts {
		return ErrTooManyAttempts
	}
	return nil
}

// Fail records a failed attempt.
func (t *LoginThrottle) Fail(ctx context.Context, email string) {
	if !t.enabled() {
		return
	}
	if _, err := t.store.Incr(ctx, throttleKey(email), t.window); err != nil {
		t.log.Warn("record failed login", zap.Error(err))
	}
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, email string) {
	if !t.enabled() {
		return
	}
	_ = t.store.Delete(ctx, throttleKey(email))
}

func throttleKey(email string) string {
	return loginFailKeyPrefix + strings.ToLower(strings.TrimSpace(email))
}
