package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/vocabbot/internal/mastery"
)

// Store backends
const (
	BackendSQL   = "sql"
	BackendRedis = "redis"
)

type Config struct {
	TelegramToken string

	StoreBackend string
	DBDriver     string
	DBDSN        string
	RedisAddr    string

	CorpusPath string
	LogMode    string

	FlushInterval time.Duration
	SaveEvery     int
	MissPolicy    mastery.MissPolicy
}

// Load reads the environment, after loading a .env file if one exists
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		StoreBackend:  getenvDefault("STORE_BACKEND", BackendSQL),
		DBDriver:      getenvDefault("DB_DRIVER", "sqlite3"),
		DBDSN:         getenvDefault("DB_DSN", "data/vocabbot.db"),
		RedisAddr:     getenvDefault("REDIS_ADDR", "localhost:6379"),
		CorpusPath:    getenvDefault("CORPUS_PATH", "data/words.xlsx"),
		LogMode:       getenvDefault("LOG_MODE", "dev"),
	}

	var err error
	if cfg.FlushInterval, err = getDuration("FLUSH_INTERVAL", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.SaveEvery, err = getInt("SAVE_EVERY", 5); err != nil {
		return nil, err
	}
	if cfg.MissPolicy, err = mastery.ParseMissPolicy(getenvDefault("MISS_POLICY", "reset")); err != nil {
		return nil, fmt.Errorf("config: MISS_POLICY: %w", err)
	}

	switch cfg.StoreBackend {
	case BackendSQL, BackendRedis:
	default:
		return nil, fmt.Errorf("config: STORE_BACKEND=%q must be %q or %q", cfg.StoreBackend, BackendSQL, BackendRedis)
	}
	return cfg, nil
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getDuration(k string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a valid duration: %w", k, v, err)
	}
	return d, nil
}

func getInt(k string, fallback int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("config: %s=%q must be a positive integer", k, v)
	}
	return n, nil
}
