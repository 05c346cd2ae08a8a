package main

import (
	"context"
	"log"

	"github.com/chromacord/api/internal/config"
	"github.com/chromacord/api/internal/entity"
	"github.com/chromacord/api/internal/server"
	"github.com/chromacord/api/pkg/database"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	redisClient := connectRedis(cfg.RedisURL)

	srv := server.NewServer(cfg, db, redisClient)
	defer srv.Stop()

	addr := ":" + cfg.Port
	log.Printf("chromacord api listening on %s", addr)
	if err := srv.Run(addr); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Palette{},
		&entity.SharedPalette{},
		&entity.Friendship{},
		&entity.PrivateMessage{},
		&entity.ChatMessage{},
		&entity.ActivityLog{},
		&entity.Trophy{},
	)
}

// connectRedis returns nil when no URL is configured; rate limiting is then
// disabled and chat falls back to the in-process hub.
func connectRedis(url string) *redis.Client {
	if url == "" {
		log.Println("REDIS_URL not set, running without redis")
		return nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	return client
}
