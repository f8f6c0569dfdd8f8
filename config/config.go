package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	AdminAPIToken     string `mapstructure:"ADMIN_API_TOKEN"`

	// Redis configuration.
	RedisAddr        string `mapstructure:"REDIS_ADDR"`
	RedisPassword    string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB     int    `mapstructure:"REDIS_CACHE_DB"`
	RedisLockDB      int    `mapstructure:"REDIS_LOCK_DB"`
	RedisTaskQueueDB int    `mapstructure:"REDIS_TASK_QUEUE_DB"`

	// Meeting provisioning API.
	MeetingAPIURL         string `mapstructure:"MEETING_API_URL"`
	MeetingAPIKey         string `mapstructure:"MEETING_API_KEY"`
	MeetingTimeoutSeconds int    `mapstructure:"MEETING_TIMEOUT_SECONDS"`

	// Booking coordination.
	BookingLockTTLSeconds  int `mapstructure:"BOOKING_LOCK_TTL_SECONDS"`
	ReminderLeadMinutes    int `mapstructure:"REMINDER_LEAD_MINUTES"`
	ExpirySweepIntervalMin int `mapstructure:"EXPIRY_SWEEP_INTERVAL_MIN"`
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
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "admitboard")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_LOCK_DB", 1)
	viper.SetDefault("REDIS_TASK_QUEUE_DB", 2)
	viper.SetDefault("MEETING_API_URL", "http://localhost:9090")
	viper.SetDefault("MEETING_API_KEY", "")
	viper.SetDefault("MEETING_TIMEOUT_SECONDS", 30)
	viper.SetDefault("BOOKING_LOCK_TTL_SECONDS", 60)
	viper.SetDefault("REMINDER_LEAD_MINUTES", 60)
	viper.SetDefault("EXPIRY_SWEEP_INTERVAL_MIN", 5)

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
