package revocation

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultPrefix  = "walletapi:revoked:"
	defaultTimeout = 250 * time.Millisecond
	pingTimeout    = 2 * time.Second
)

// redisClient is the subset of redis.Cmdable the denylist needs.
type redisClient interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Close() error
}

// RedisDenylist stores revoked token ids as expiring Redis keys.
type RedisDenylist struct {
	client  redisClient
	prefix  string
	timeout time.Duration
}

// NewRedisDenylist connects to Redis and verifies the connection with a ping.
func NewRedisDenylist(addr, password string, db int) (*RedisDenylist, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return newRedisDenylist(client), nil
}

func newRedisDenylist(client redisClient) *RedisDenylist {
	return &RedisDenylist{client: client, prefix: defaultPrefix, timeout: defaultTimeout}
}

// Revoke marks jti as revoked for ttl. A non-positive ttl means the token has
// already expired and nothing is stored.
func (d *RedisDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := d.client.Set(ctx, d.prefix+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	n, err := d.client.Exists(ctx, d.prefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

func (d *RedisDenylist) Close() error {
	return d.client.Close()
}
