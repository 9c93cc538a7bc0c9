package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName               string
	AppEnv                string
	AppPort               string
	DatabaseURL           string
	RedisURL              string
	JWTSecret             string
	ProgressCacheTTL      time.Duration
	ProgressCacheCapacity int
	QuizAttemptFetchLimit int
	ActivityCacheTTL      time.Duration
	ActivityFeedLimit     int
	SeedToken             string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// IsProduction reports whether the service runs in the production environment.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("LENTERA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Lentera API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("progress.cache_ttl", "5m")
	v.SetDefault("progress.cache_capacity", 100)
	v.SetDefault("progress.attempt_fetch_limit", 200)
	v.SetDefault("activity.cache_ttl", "2m")
	v.SetDefault("activity.feed_limit", 20)

	progressTTL, err := parseDuration(v.GetString("progress.cache_ttl"), "5m")
	if err != nil {
		return Config{}, fmt.Errorf("invalid progress cache ttl: %w", err)
	}

	activityTTL, err := parseDuration(v.GetString("activity.cache_ttl"), "2m")
	if err != nil {
		return Config{}, fmt.Errorf("invalid activity cache ttl: %w", err)
	}

	cfg := Config{
		AppName:               v.GetString("app.name"),
		AppEnv:                v.GetString("app.env"),
		AppPort:               v.GetString("app.port"),
		DatabaseURL:           v.GetString("database.url"),
		RedisURL:              v.GetString("redis.url"),
		JWTSecret:             v.GetString("jwt.secret"),
		ProgressCacheTTL:      progressTTL,
		ProgressCacheCapacity: v.GetInt("progress.cache_capacity"),
		QuizAttemptFetchLimit: v.GetInt("progress.attempt_fetch_limit"),
		ActivityCacheTTL:      activityTTL,
		ActivityFeedLimit:     v.GetInt("activity.feed_limit"),
		SeedToken:             v.GetString("seed.token"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.ProgressCacheCapacity <= 0 {
		cfg.ProgressCacheCapacity = 100
	}

	if cfg.QuizAttemptFetchLimit <= 0 {
		cfg.QuizAttemptFetchLimit = 200
	}

	if cfg.ActivityFeedLimit <= 0 {
		cfg.ActivityFeedLimit = 20
	}

	return cfg, nil
}

func parseDuration(value, fallback string) (time.Duration, error) {
	if value == "" {
		value = fallback
	}

	return time.ParseDuration(value)
}
