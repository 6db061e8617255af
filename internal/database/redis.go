package database

import (
	"context"
	"time"

	"github.com/loycekalume/LifeStyleCoach-sub001/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// NewRedis returns nil when addr is empty. A failed ping is logged but the
// client is still returned so it can recover later.
func NewRedis(ctx context.Context, addr, password string) *redis.Client {
	if addr == "" {
		logger.Warn().Msg("REDIS_ADDR not set, token revocation and reminders are disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		logger.Warn().Err(err).Msg("Failed to connect to Redis")
	} else {
		logger.Info().Str("addr", addr).Msg("Connected to Redis")
	}
	return client
}

// TokenBlacklist revokes JWTs by id until they would have expired anyway.
// A nil client turns every call into a no-op.
type TokenBlacklist struct {
	client *redis.Client
}

func NewTokenBlacklist(client *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{client: client}
}

func blacklistKey(jti string) string {
	return "token_blacklist:" + jti
}

func (b *TokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if b == nil || b.client == nil || jti == "" || ttl <= 0 {
		return nil
	}
	return b.client.Set(ctx, blacklistKey(jti), "1", ttl).Err()
}

func (b *TokenBlacklist) IsRevoked(ctx context.Context, jti string) bool {
	if b == nil || b.client == nil || jti == "" {
		return false
	}
	n, err := b.client.Exists(ctx, blacklistKey(jti)).Result()
	if err != nil {
		// Redis down: fail open, the token signature was already checked
		return false
	}
	return n > 0
}
