package config

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// ErrRedisNotConfigured lets callers fall back to in-process cache and locks.
var ErrRedisNotConfigured = errors.New("REDIS_ADDR (or REDIS_URI/REDIS_URL) environment variable is not set")

func InitRedis() error {
	val := os.Getenv("REDIS_ADDR")
	if val == "" {
		val = os.Getenv("REDIS_URI")
	}
	if val == "" {
		val = os.Getenv("REDIS_URL")
	}
	if val == "" {
		return ErrRedisNotConfigured
	}

	opt := &redis.Options{Addr: val}
	if strings.HasPrefix(val, "redis://") || strings.HasPrefix(val, "rediss://") {
		var err error
		if opt, err = redis.ParseURL(val); err != nil {
			return err
		}
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return err
	}
	RedisClient = client
	return nil
}
