package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore whitelists issued token ids. A token is only honoured while its
// key exists.
type TokenStore interface {
	Allow(ctx context.Context, key string, ttl time.Duration) error
	IsAllowed(ctx context.Context, key string) (bool, error)
	Revoke(ctx context.Context, keys ...string) error
	RevokeMatching(ctx context.Context, pattern string) error
}

func AccessTokenKey(userID int64, tokenID string) string {
	return fmt.Sprintf("access_token:%d:%s", userID, tokenID)
}

func RefreshTokenKey(userID int64, tokenID string) string {
	return fmt.Sprintf("refresh_token:%d:%s", userID, tokenID)
}

type redisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) TokenStore {
	return &redisTokenStore{client: client}
}

func (s *redisTokenStore) Allow(ctx context.Context, key string, ttl time.Duration) error {
	return s.client.Set(ctx, key, "valid", ttl).Err()
}

func (s *redisTokenStore) IsAllowed(ctx context.Context, key string) (bool, error) {
	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (s *redisTokenStore) Revoke(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// RevokeMatching deletes every key matching pattern, scanning in batches
func (s *redisTokenStore) RevokeMatching(ctx context.Context, pattern string) error {
	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return s.Revoke(ctx, keys...)
}
