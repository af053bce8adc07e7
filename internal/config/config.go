package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort           string
	GRPCPort           string
	MongoURI           string
	MongoDBName        string
	RedisAddr          string // empty disables the menu item cache
	RedisPassword      string
	KafkaBrokers       []string // empty disables order events
	KafkaTopic         string
	Location           *time.Location
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	HealthInterval     time.Duration
	MaxRequestBodySize int64
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	loc, err := time.LoadLocation(getEnv("TZ_NAME", "Local"))
	if err != nil {
		return nil, fmt.Errorf("failed to load TZ_NAME: %w", err)
	}

	timeout, err := time.ParseDuration(getEnv("REQUEST_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse REQUEST_TIMEOUT: %w", err)
	}

	return &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		GRPCPort:           getEnv("GRPC_PORT", "50051"),
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:        getEnv("MONGO_DB_NAME", "fastserve"),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:       splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:         getEnv("KAFKA_TOPIC", "orders"),
		Location:           loc,
		RequestTimeout:     timeout,
		ShutdownTimeout:    10 * time.Second,
		HealthInterval:     15 * time.Second,
		MaxRequestBodySize: 1 << 20, // 1MB
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
