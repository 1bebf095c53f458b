package config

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is a global Redis client instance
var RedisClient *redis.Client
//Accessed as config.RedisClient in other files

func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		RedisClient = nil
		return
	}
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASS"),
		DB:       0,
	})
}

// PingRedis drops RedisClient when the server does not answer, so callers
// fall back to in-process caching. It returns a status line for the log.
func PingRedis() string {
	if RedisClient == nil {
		return "Redis not configured, caching in process."
	}
	ctx, cancel := context.WithTimeout(RedisCtx(), 2*time.Second)
	defer cancel()
	if err := RedisClient.Ping(ctx).Err(); err != nil {
		_ = RedisClient.Close()
		RedisClient = nil // Disable Redis if not reachable
		return "Redis configured but not reachable, caching in process."
	}
	return "Redis connection successful."
}

func RedisCtx() context.Context {
	return context.Background()
}
