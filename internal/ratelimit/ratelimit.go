package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrTooManyAttempts = errors.New("too many attempts, please try again later")

// Limiter throttles login attempts per email using Redis counters.
type Limiter struct {
	redis *redis.Client
}

func New(redis *redis.Client) *Limiter {
	return &Limiter{redis: redis}
}

// CheckLogin allows 5 attempts per email per 15 minutes.
func (l *Limiter) CheckLogin(ctx context.Context, email string) error {
	key := fmt.Sprintf("login_attempts:%s", email)

	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return err
	}

	if count == 1 {
		l.redis.Expire(ctx, key, 15*time.Minute)
	}

	if count > 5 {
		return ErrTooManyAttempts
	}

	return nil
}

// ResetLogin clears the counter after a successful login.
func (l *Limiter) ResetLogin(ctx context.Context, email string) {
	l.redis.Del(ctx, fmt.Sprintf("login_attempts:%s", email))
}
