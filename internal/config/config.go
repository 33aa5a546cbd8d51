package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr        string
	RedisURL    string
	DatabaseURL string
	CORSOrigin  string
	MaxImages   int
	// Rendering budget for PDF exports
	ExportTimeout time.Duration
}

func Load() Config {
	return Config{
		Addr:          getenv("API_ADDR", ":8686"),
		RedisURL:      getenv("REDIS_URL", "redis://localhost:6379/0"),
		DatabaseURL:   getenv("DATABASE_URL", ""),
		CORSOrigin:    getenv("OPENGOV_CORS_ORIGIN", "*"),
		MaxImages:     getenvInt("OPENGOV_MAX_IMAGES", 5),
		ExportTimeout: time.Duration(getenvInt("OPENGOV_EXPORT_TIMEOUT_SECONDS", 30)) * time.Second,
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
