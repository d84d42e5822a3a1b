package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type memoryAttempts map[string]int64

func (m memoryAttempts) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	m[key]++
	return m[key], nil
}

func (m memoryAttempts) Count(_ context.Context, key string) (int64, error) {
	return m[key], nil
}

func (m memoryAttempts) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m, k)
	}
	return nil
}

type downAttempts struct{}

func (downAttempts) Incr(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("redis down")
}
func (downAttempts) Count(context.Context, string) (int64, error) { return 0, errors.New("redis down") }
func (downAttempts) Delete(context.Context, ...string) error      { return nil }

func TestLoginThrottle(t *testing.T) {
	ctx := context.Background()
	store := memoryAttempts{}
	throttle := NewLoginThrottle(store, 3, time.Minute, nil)

	for i := 0; i < 3; i++ {
		assert.NoError(t, throttle.Check(ctx, "Ada@Example.com"))
		throttle.Fail(ctx, "Ada@Example.com")
	}

	assert.ErrorIs(t, throttle.Check(ctx, "ada@example.com"), ErrTooManyAttempts)
	assert.NoError(t, throttle.Check(ctx, "grace@example.com"))

	throttle.Reset(ctx, "ada@example.com")
	assert.NoError(t, throttle.Check(ctx, "ada@example.com"))
	assert.Empty(t, store)
}

func TestLoginThrottle_FailsOpen(t *testing.T) {
	ctx := context.Background()
	throttle := NewLoginThrottle(downAttempts{}, 1, time.Minute, nil)

	throttle.Fail(ctx, "ada@example.com")
	assert.NoError(t, throttle.Check(ctx, "ada@example.com"))
}

func TestLoginThrottle_Disabled(t *testing.T) {
	var throttle *LoginThrottle
	assert.NoError(t, throttle.Check(context.Background(), "ada@example.com"))

	throttle = NewLoginThrottle(memoryAttempts{}, 0, time.Minute, nil)
	throttle.Fail(context.Background(), "ada@example.com")
	assert.NoError(t, throttle.Check(context.Background(), "ada@example.com"))
}
