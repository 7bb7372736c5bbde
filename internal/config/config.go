package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service and the sweep job.
type Config struct {
	AppName     string
	AppEnv      string
	AppPort     string
	CORSOrigins string

	DatabaseDriver string
	DatabaseURL    string
	RedisURL       string
	NATSURL        string

	JWTSecret string

	DefaultPassing    int
	AnalyticsCacheTTL time.Duration

	NotificationChannel string

	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	UploadMaxMB            int
	SubmissionRateLimit    int

	LogLevel  string
	LogFormat string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// UploadsEnabled reports whether a Cloudinary account is configured.
func (c Config) UploadsEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ACADEMIQLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.name", "AcademiQly API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("cors.origins", "*")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("grading.default_passing", 60)
	v.SetDefault("analytics.cache_ttl", "5m")
	v.SetDefault("notifications.channel", "academiqly")
	v.SetDefault("cloudinary.folder", "academiqly/submissions")
	v.SetDefault("uploads.max_mb", 10)
	v.SetDefault("submissions.rate_limit", 30)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	ttl, err := time.ParseDuration(v.GetString("analytics.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid analytics cache ttl: %w", err)
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		CORSOrigins:            v.GetString("cors.origins"),
		DatabaseDriver:         strings.ToLower(strings.TrimSpace(v.GetString("database.driver"))),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		JWTSecret:              v.GetString("jwt.secret"),
		DefaultPassing:         clampPercent(v.GetInt("grading.default_passing")),
		AnalyticsCacheTTL:      ttl,
		NotificationChannel:    v.GetString("notifications.channel"),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		UploadMaxMB:            v.GetInt("uploads.max_mb"),
		SubmissionRateLimit:    v.GetInt("submissions.rate_limit"),
		LogLevel:               strings.ToLower(v.GetString("log.level")),
		LogFormat:              strings.ToLower(v.GetString("log.format")),
	}

	switch cfg.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return Config{}, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.UploadMaxMB <= 0 {
		cfg.UploadMaxMB = 10
	}

	return cfg, nil
}

func clampPercent(value int) int {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
