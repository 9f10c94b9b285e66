package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port     string
	LogLevel string

	DBDriver    string
	DatabaseURL string
	SQLitePath  string
	TxAttempts  int

	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	BoardCacheTTL time.Duration

	PreloadSchedule string
	PreloadTimezone string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=kanban port=5432 sslmode=disable")
	v.SetDefault("SQLITE_PATH", "kanban.db")
	v.SetDefault("TX_MAX_ATTEMPTS", 3)
	v.SetDefault("JWT_SECRET", "your-secret-key-change-in-production")
	v.SetDefault("REDIS_ADDR", "127.0.0.1:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 1)
	v.SetDefault("PRELOAD_SCHEDULE", "0 9 * * 1-5")
	v.SetDefault("PRELOAD_TIMEZONE", "Asia/Seoul")

	attempts := v.GetInt("TX_MAX_ATTEMPTS")
	if attempts < 1 {
		attempts = 1
	}

	return &Config{
		Port:             v.GetString("PORT"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		DBDriver:         strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseURL:      v.GetString("DATABASE_URL"),
		SQLitePath:       v.GetString("SQLITE_PATH"),
		TxAttempts:       attempts,
		JWTSecret:        v.GetString("JWT_SECRET"),
		JWTAccessExpiry:  duration(v, "JWT_ACCESS_EXPIRY", time.Hour),
		JWTRefreshExpiry: duration(v, "JWT_REFRESH_EXPIRY", 14*24*time.Hour), // 2 weeks
		RedisAddr:        v.GetString("REDIS_ADDR"),
		RedisPassword:    v.GetString("REDIS_PASSWORD"),
		RedisDB:          v.GetInt("REDIS_DB"),
		BoardCacheTTL:    duration(v, "BOARD_CACHE_TTL", 3600*time.Second),
		PreloadSchedule:  v.GetString("PRELOAD_SCHEDULE"),
		PreloadTimezone:  v.GetString("PRELOAD_TIMEZONE"),
	}
}

// duration falls back to def when the key is unset or does not parse.
func duration(v *viper.Viper, key string, def time.Duration) time.Duration {
	raw := v.GetString(key)
	if raw == "" {
		return def
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
