package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	RedisURL string

	MeiliSearchHost string
	MeiliMasterKey  string

	// Economy knobs. The rule tables themselves live in economy.Rules;
	// these two are the deploy-specific overrides.
	ConversionRate int
	ShippingFee    int

	GrantRateLimit time.Duration
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		RedisURL: os.Getenv("REDIS_URL"),

		// Empty host leaves the admin search surface disabled
		MeiliSearchHost: os.Getenv("MEILISEARCH_HOST"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),
	}

	var err error
	cfg.ConversionRate, err = parseInt(getEnv("CONVERSION_RATE", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid CONVERSION_RATE: %w", err)
	}
	if cfg.ConversionRate <= 0 {
		return nil, fmt.Errorf("CONVERSION_RATE must be positive, got %d", cfg.ConversionRate)
	}

	cfg.ShippingFee, err = parseInt(getEnv("SHIPPING_FEE", "45000"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHIPPING_FEE: %w", err)
	}

	cfg.GrantRateLimit, err = time.ParseDuration(getEnv("GRANT_RATE_LIMIT", "1s"))
	if err != nil {
		return nil, fmt.Errorf("invalid GRANT_RATE_LIMIT: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(s)
}
