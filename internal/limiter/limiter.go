// Package limiter throttles repeated failed logins for one email address.
package limiter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/cse_motors/internal/models"
)

const keyPrefix = "login_fail:"

type store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Redis counts failures in a fixed window. Once maxFails is reached the email
// is locked until the window expires. Redis errors never block a login.
type Redis struct {
	rdb      store
	maxFails int
	window   time.Duration
}

func NewRedis(client *redis.Client, maxFails int, window time.Duration) *Redis {
	return newRedis(client, maxFails, window)
}

func newRedis(s store, maxFails int, window time.Duration) *Redis {
	if maxFails <= 0 {
		maxFails = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &Redis{rdb: s, maxFails: maxFails, window: window}
}

// Key hashes the normalised email so raw addresses are not stored in Redis.
func Key(email string) string {
	sum := sha256.Sum256([]byte(models.NormalizeEmail(email)))
	return keyPrefix + hex.EncodeToString(sum[:])
}

// Allow reports whether another attempt is permitted. On Redis errors it
// returns true together with the error.
func (l *Redis) Allow(ctx context.Context, email string) (bool, error) {
	n, err := l.rdb.Get(ctx, Key(email)).Int()
	if errors.Is(err, redis.Nil) {
		return true, nil
	}
	if err != nil {
		return true, err
	}
	return n < l.maxFails, nil
}

func (l *Redis) Failure(ctx context.Context, email string) error {
	key := Key(email)
	n, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if n == 1 {
		return l.rdb.Expire(ctx, key, l.window).Err()
	}
	return nil
}

func (l *Redis) Success(ctx context.Context, email string) error {
	return l.rdb.Del(ctx, Key(email)).Err()
}
