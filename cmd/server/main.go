package main

import (
	"log"

	"github.com/mirasbazaar/economy/internal/bootstrap"
	"github.com/mirasbazaar/economy/internal/config"
	"github.com/mirasbazaar/economy/internal/economy"
	"github.com/mirasbazaar/economy/internal/server"
	"github.com/mirasbazaar/economy/pkg/database"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedDemoUser(db); err != nil {
			log.Fatalf("failed to seed demo user: %v", err)
		}
	}

	rules := economy.Default()
	rules.ConversionRate = cfg.ConversionRate
	rules.ShippingFee = cfg.ShippingFee
	// Every grant action gets at least the configured cooldown so a
	// double-submitted request cannot award points twice.
	for i := range rules.AllocationTable {
		if rules.AllocationTable[i].Cooldown < cfg.GrantRateLimit {
			rules.AllocationTable[i].Cooldown = cfg.GrantRateLimit
		}
	}
	if err := rules.Validate(); err != nil {
		log.Fatalf("invalid economy rules: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
	} else {
		log.Println("REDIS_URL not set, cooldowns and live notifications disabled")
	}

	srv := server.NewServer(cfg, db, redisClient, rules)

	log.Printf("economy engine listening on :%s", cfg.Port)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
