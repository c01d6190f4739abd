package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Firestore (store of record).
	FirebaseProjectID       string        `mapstructure:"FIREBASE_PROJECT_ID"`
	FirebaseCredentialsFile string        `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	BookingsCollection      string        `mapstructure:"BOOKINGS_COLLECTION"`
	StationsCollection      string        `mapstructure:"STATIONS_COLLECTION"`
	SlotsSubcollection      string        `mapstructure:"SLOTS_SUBCOLLECTION"`
	SweepInterval           time.Duration `mapstructure:"SWEEP_INTERVAL"`
	SweepTimeout            time.Duration `mapstructure:"SWEEP_TIMEOUT"`
	MaxRequestsPerMin       int           `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Mongo sweep-history store (optional; disabled when empty).
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis configuration (pass lease + asynq worker mode).
	RedisAddr         string `mapstructure:"REDIS_ADDR"`
	RedisPassword     string `mapstructure:"REDIS_PASSWORD"`
	RedisSweepDB      int    `mapstructure:"REDIS_SWEEP_DB"`
	WorkerMode        bool   `mapstructure:"WORKER_MODE"`
	WorkerConcurrency int    `mapstructure:"WORKER_CONCURRENCY"`
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
	viper.SetDefault("FIREBASE_PROJECT_ID", "")
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
	viper.SetDefault("BOOKINGS_COLLECTION", "bookings")
	viper.SetDefault("STATIONS_COLLECTION", "stations")
	viper.SetDefault("SLOTS_SUBCOLLECTION", "slots")
	viper.SetDefault("SWEEP_INTERVAL", "1m")
	viper.SetDefault("SWEEP_TIMEOUT", "30s")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SWEEP_DB", 0)
	viper.SetDefault("WORKER_MODE", false)
	viper.SetDefault("WORKER_CONCURRENCY", 1)

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
