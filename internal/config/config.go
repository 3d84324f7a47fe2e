package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

type Config struct {
	APIBaseURL string

	HTTPPort string

	StoreBackend string
	StorePath    string
	RedisAddr    string

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// Load reads .env when present, then the environment.
func Load() *Config {
	// Missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	return &Config{
		APIBaseURL:      getEnv("API_BASE_URL", "http://localhost:8000"),
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		StoreBackend:    getEnv("STORE_BACKEND", StoreFile),
		StorePath:       getEnv("STORE_PATH", "storefront.json"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RequestTimeout:  getDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
