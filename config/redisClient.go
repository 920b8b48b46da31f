package config

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ConnectRedis initializes the Redis client. Redis is optional: without it
// the leaderboard is disabled and submission rate limiting is skipped, so a
// missing or unreachable server only logs a warning.
func ConnectRedis(ctx context.Context) *redis.Client {
	redisAddr := os.Getenv("REDIS_ADDRESS")
	if redisAddr == "" {
		log.Warn().Msg("REDIS_ADDRESS not set, leaderboard and rate limiting disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis, leaderboard and rate limiting disabled")
		return nil
	}

	log.Info().Msg("Connected to Redis")
	return client
}
