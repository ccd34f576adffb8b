package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything the composition root needs. Values come from the
// environment so main stays lean and deploys stay twelve-factor.
type Config struct {
	Addr string

	// DatabaseURL selects the postgres stores when set; otherwise the service
	// runs on in-memory stores (dev mode, tests).
	DatabaseURL string

	// RedisURL enables the request rate limiter when set.
	RedisURL string

	// KafkaBrokers enables the activity event sink when set.
	KafkaBrokers  []string
	ActivityTopic string

	JWTSigningKey string
	TokenTTL      time.Duration

	RateLimitPerMinute int
}

// FromEnv builds a Config from environment variables with dev-friendly defaults.
func FromEnv() Config {
	cfg := Config{
		Addr:               getEnv("STRIVE_ADDR", ":8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		ActivityTopic:      getEnv("ACTIVITY_TOPIC", "strive.activity"),
		JWTSigningKey:      getEnv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		TokenTTL:           getDuration("TOKEN_TTL", time.Hour),
		RateLimitPerMinute: getInt("RATE_LIMIT_PER_MINUTE", 300),
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
