package database

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/unach/escuela-backend/internal/config"
)

const redisClientName = "escuela-backend"

// NewRedisClient creates and validates the Redis client shared by the report
// cache, token revocation, the change channel and the photo cleanup queue.
func NewRedisClient(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if opt.ClientName == "" {
		opt.ClientName = redisClientName
	}

	rdb := redis.NewClient(opt)

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	version := serverVersion(ctx, rdb)
	if major, _, _ := strings.Cut(version, "."); version != "" {
		// EXPIRE ... NX, used by the login limiter, needs Redis 7.
		if n, err := strconv.Atoi(major); err == nil && n < 7 {
			log.Warn().Str("version", version).Msg("Redis older than 7.0; login rate limiting will fail open")
		}
	}

	log.Info().
		Str("addr", opt.Addr).
		Int("db", opt.DB).
		Str("version", version).
		Msg("Redis connected")

	return rdb, nil
}

func serverVersion(ctx context.Context, rdb *redis.Client) string {
	info, err := rdb.Info(ctx, "server").Result()
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(info, "\n") {
		if v, ok := strings.CutPrefix(strings.TrimSpace(line), "redis_version:"); ok {
			return v
		}
	}
	return ""
}
