// Package session maps opaque auth tokens to user IDs with a TTL.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

// ErrNoSession is returned when a token doesn't resolve to a user.
var ErrNoSession = errors.New("session not found")

// Store is the capability the rest of the app gets. Handlers only ever
// see this interface so tests can swap in a fake.
type Store interface {
	Create(ctx context.Context, token, userID string, ttl time.Duration) error
	Resolve(ctx context.Context, token string) (string, error)
	Destroy(ctx context.Context, token string) error
	Ping(ctx context.Context) error
}

type RedisStore struct {
	c *redis.Client
}

func NewRedisStore() *RedisStore {
	return &RedisStore{
		c: redis.NewClient(&redis.Options{
			Addr: viper.GetString("redis.addr"),
		}),
	}
}

func key(token string) string {
	return "auth_" + token
}

func (s *RedisStore) Create(ctx context.Context, token, userID string, ttl time.Duration) error {
	if err := s.c.Set(ctx, key(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session, %w", err)
	}

	return nil
}

func (s *RedisStore) Resolve(ctx context.Context, token string) (string, error) {
	userID, err := s.c.Get(ctx, key(token)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrNoSession
		}

		return "", fmt.Errorf("failed to resolve session, %w", err)
	}

	return userID, nil
}

// Destroy removes a session. Deleting an absent token is not an error.
func (s *RedisStore) Destroy(ctx context.Context, token string) error {
	if err := s.c.Del(ctx, key(token)).Err(); err != nil {
		return fmt.Errorf("failed to destroy session, %w", err)
	}

	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.c.Ping(ctx).Err()
}
