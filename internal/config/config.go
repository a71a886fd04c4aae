// Package config loads the process configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	LogLevel    string

	Mongo struct {
		URI      string
		Database string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	Venue struct {
		Testnet bool
	}

	Models struct {
		OpenAIKey string
		GrokKey   string
	}

	Notifications struct {
		TelegramToken string
	}

	Market struct {
		Tokens      []string
		SnapshotDir string
	}

	Leaderboard struct {
		ExportPath string
	}

	Monitoring struct {
		PrometheusPort int
		HealthPort     int
	}
}

// Load reads the environment into a Config. A .env file in the working
// directory is merged in first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("load .env: %v", err)
	}

	cfg := &Config{
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	cfg.Mongo.URI = getEnv("MONGODB_URI", "mongodb://localhost:27017")
	cfg.Mongo.Database = getEnv("MONGODB_DATABASE", "merkle_ai")

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)

	cfg.Venue.Testnet = getEnvBool("VENUE_TESTNET", false)

	cfg.Models.OpenAIKey = getEnv("OPENAI_API_KEY", "")
	cfg.Models.GrokKey = getEnv("GROK_API_KEY", "")

	cfg.Notifications.TelegramToken = getEnv("TELEGRAM_TOKEN", "")

	cfg.Market.Tokens = getEnvList("TRACKED_TOKENS", nil)
	cfg.Market.SnapshotDir = getEnv("SNAPSHOT_DIR", "marketCache")

	cfg.Leaderboard.ExportPath = getEnv("LEADERBOARD_XLSX", "leaderboard.xlsx")

	cfg.Monitoring.PrometheusPort = getEnvInt("PROMETHEUS_PORT", 8080)
	cfg.Monitoring.HealthPort = getEnvInt("HEALTH_PORT", 8081)

	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
		log.Printf("invalid integer for %s, using default %d", key, defaultVal)
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
		log.Printf("invalid boolean for %s, using default %t", key, defaultVal)
	}
	return defaultVal
}

// getEnvList parses a comma-separated value, trimming whitespace around
// each element.
func getEnvList(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	parts := strings.Split(val, ",")
	out := parts[:0]
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
