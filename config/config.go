package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Scheduling rules. The slot grid is SlotCapacityPerDay slots of
	// SlotIntervalMinutes starting at DayStartMinute; OverbookMarker is the
	// notes tag that flags an intentionally overbooked appointment.
	SlotCapacityPerDay  int     `mapstructure:"SLOT_CAPACITY_PER_DAY"`
	SlotIntervalMinutes int     `mapstructure:"SLOT_INTERVAL_MINUTES"`
	DayStartMinute      int     `mapstructure:"DAY_START_MINUTE"`
	OverbookMarker      string  `mapstructure:"OVERBOOK_MARKER"`
	HighRiskThreshold   float64 `mapstructure:"HIGH_RISK_THRESHOLD"`

	// Analytics cache.
	RollupCacheTTLMin int `mapstructure:"ROLLUP_CACHE_TTL_MIN"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("SLOT_CAPACITY_PER_DAY", 16)
	viper.SetDefault("SLOT_INTERVAL_MINUTES", 30)
	viper.SetDefault("DAY_START_MINUTE", 480) // 8:00 AM
	viper.SetDefault("OVERBOOK_MARKER", "OVERBOOK")
	viper.SetDefault("HIGH_RISK_THRESHOLD", 0.6)
	viper.SetDefault("ROLLUP_CACHE_TTL_MIN", 15)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
