package redis

import (
	"context"
	"fmt"
	"log"

	config "github.com/Alexandr290700/online-tutor/configs"
	"github.com/redis/go-redis/v9"
)

var (
	Client *redis.Client
	Ctx    = context.Background()
)

func InitRedis() {
	Client = redis.NewClient(&redis.Options{
		Addr: config.Config("REDIS_ADDR"),
		DB:   0,
	})

	if _, err := Client.Ping(Ctx).Result(); err != nil {
		log.Fatalf("🔥 Failed to connect to Redis: %v", err)
	}
	fmt.Println("✅ Connected to Redis")
}
