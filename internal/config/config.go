package config

import (
	"log"
	"os"
	"strings"
	"time"
)

// JWTConfig defines issuer/secret pair for auth verification.
type JWTConfig struct {
	Issuer string
	Secret []byte
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                   string
	MongoURI               string
	MongoDatabase          string
	ShopCollection         string
	ReviewCollection       string
	SettingsCollection     string
	NotificationCollection string
	AnalyticsCollection    string
	Timeout                time.Duration
	Timezone               string
	ServerLog              *log.Logger
	JWTConfigs             []JWTConfig
	JWTAudience            string
	OpenRouterAPIKey       string
	OpenRouterURL          string
	OpenRouterModel        string
	OpenRouterTimeout      time.Duration
	AllowedOrigins         []string
	S3Bucket               string
	S3Region               string
	MaxUploadBytes         int64
}

// Load reads environment variables and returns a fully populated Config.
func Load() Config {
	timeout := 10 * time.Second
	if v := os.Getenv("MONGO_CONNECT_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			timeout = parsed
		}
	}

	openRouterTimeout := 10 * time.Second
	if raw := strings.TrimSpace(os.Getenv("OPENROUTER_TIMEOUT")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			openRouterTimeout = parsed
		}
	}

	allowedOrigins := parseList("API_ALLOWED_ORIGINS", []string{"*"})

	var jwtConfigs []JWTConfig
	if secret := strings.TrimSpace(os.Getenv("AUTH_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: envOrDefault("AUTH_JWT_ISSUER", "mainserver-auth"),
			Secret: []byte(secret),
		})
	}
	if secret := strings.TrimSpace(os.Getenv("AUTH_LEGACY_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: envOrDefault("AUTH_LEGACY_JWT_ISSUER", ""),
			Secret: []byte(secret),
		})
	}

	if len(jwtConfigs) == 0 {
		log.Fatal("JWT secret not configured. Set AUTH_JWT_SECRET.")
	}

	cfg := Config{
		Addr:                   envOrDefault("HTTP_ADDR", ":8080"),
		MongoURI:               envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:          envOrDefault("MONGO_DB", "mainserver"),
		ShopCollection:         envOrDefault("SHOP_COLLECTION", "shops"),
		ReviewCollection:       envOrDefault("REVIEW_COLLECTION", "reviews"),
		SettingsCollection:     envOrDefault("SETTINGS_COLLECTION", "settings"),
		NotificationCollection: envOrDefault("NOTIFICATION_COLLECTION", "notifications"),
		AnalyticsCollection:    envOrDefault("ANALYTICS_COLLECTION", "analytics_events"),
		Timeout:                timeout,
		Timezone:               envOrDefault("TIMEZONE", "UTC"),
		ServerLog:              log.New(os.Stdout, "[mainserver-api] ", log.LstdFlags|log.Lshortfile),
		JWTConfigs:             jwtConfigs,
		JWTAudience:            strings.TrimSpace(os.Getenv("AUTH_JWT_AUDIENCE")),
		OpenRouterAPIKey:       strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY")),
		OpenRouterURL:          envOrDefault("OPENROUTER_URL", "https://openrouter.ai/api/v1/chat/completions"),
		OpenRouterModel:        envOrDefault("OPENROUTER_MODEL", "qwen/qwen3-30b-a3b:free"),
		OpenRouterTimeout:      openRouterTimeout,
		AllowedOrigins:         allowedOrigins,
		S3Bucket:               strings.TrimSpace(os.Getenv("AWS_S3_BUCKET")),
		S3Region:               strings.TrimSpace(os.Getenv("AWS_REGION")),
		MaxUploadBytes:         5 << 20,
	}

	if cfg.OpenRouterAPIKey == "" {
		cfg.ServerLog.Printf("OPENROUTER_API_KEY が未設定のため /recommend は設定エラーを返します")
	}

	return cfg
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
