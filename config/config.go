package config

import (
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var loadOnce sync.Once

// Config returns the value of key from the process environment, loading .env on first use.
func Config(key string) string {
	loadOnce.Do(func() {
		// .env is optional; real environment variables win.
		_ = godotenv.Load(".env")
	})
	return os.Getenv(key)
}

func ConfigDefault(key, fallback string) string {
	if v := Config(key); v != "" {
		return v
	}
	return fallback
}

func ConfigInt(key string, fallback int) int {
	v, err := strconv.Atoi(Config(key))
	if err != nil {
		return fallback
	}
	return v
}

func ConfigBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(Config(key))
	if err != nil {
		return fallback
	}
	return v
}

func ConfigDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(Config(key))
	if err != nil {
		return fallback
	}
	return v
}
