// File: utils/redis.go
package utils

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"chargehub/config"
)

// SweepRedisClient is the Redis client shared by the sweep pass lease and
// the asynq worker mode. Nil when REDIS_ADDR is not configured.
var SweepRedisClient *redis.Client

// InitRedis initializes the sweep Redis client. Call only when REDIS_ADDR
// is set; the sweeper runs fine without Redis on a single instance.
func InitRedis() {
	SweepRedisClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSweepDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := SweepRedisClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Sweep): %v", err)
	}
}

// GetSweepRedisClient returns the sweep Redis client, initializing it on
// first use.
func GetSweepRedisClient() *redis.Client {
	if SweepRedisClient == nil {
		InitRedis()
	}
	return SweepRedisClient
}
