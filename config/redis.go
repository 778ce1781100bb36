package config

import (
	"context"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// InitRedis connects when REDIS_ADDR (or REDIS_URI/REDIS_URL) is set.
// Redis is optional here: without it the answer cache falls back to an
// in-process map.
func InitRedis() (bool, error) {
	val := os.Getenv("REDIS_ADDR")
	if val == "" {
		val = os.Getenv("REDIS_URI")
	}
	if val == "" {
		val = os.Getenv("REDIS_URL")
	}
	if val == "" {
		return false, nil
	}

	if strings.HasPrefix(val, "redis://") || strings.HasPrefix(val, "rediss://") {
		opt, err := redis.ParseURL(val)
		if err != nil {
			return false, err
		}
		RedisClient = redis.NewClient(opt)
	} else {
		RedisClient = redis.NewClient(&redis.Options{Addr: val})
	}

	_, err := RedisClient.Ping(context.Background()).Result()
	return err == nil, err
}
