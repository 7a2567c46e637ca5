package cache

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

var RDB *redis.Client
var ctx = context.Background()

func InitRedis(url string) {
	if url == "" {
		log.Println("⚠️ REDIS_URL not set, running without cache")
		return
	}

	RDB = redis.NewClient(&redis.Options{
		Addr: url,
	})

	_, err := RDB.Ping(ctx).Result()
	if err != nil {
		log.Printf("⚠️ Redis unavailable: %v", err)
		RDB = nil
		return
	}

	log.Println("✓ Redis connection established")
}

func Get(key string) (string, error) {
	if RDB == nil {
		return "", redis.Nil
	}
	return RDB.Get(ctx, key).Result()
}

func Set(key string, value string, expiration time.Duration) error {
	if RDB == nil {
		return nil
	}
	return RDB.Set(ctx, key, value, expiration).Err()
}

// Delete removes a key; used to invalidate cached trends after a rollup.
func Delete(keys ...string) error {
	if RDB == nil || len(keys) == 0 {
		return nil
	}
	return RDB.Del(ctx, keys...).Err()
}
