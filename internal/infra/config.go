package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv               string
	Port                 string
	DatabaseURL          string
	JWTSecret            string
	AdminEmails          []string
	ImageProvider        string
	ImageAPIKey          string
	StabilityAPIHost     string
	CaptionProvider      string
	CaptionAPIKey        string
	CaptionModel         string
	CaptionBaseURL       string
	CreditCostPerBatch   int
	SignupCredits        int
	MaxBatchQuantity     int
	GenerationConcurrent int
	StoragePath          string
	GeoIPDBPath          string
	CORSAllowedOrigins   []string
	HTTPReadTimeout      time.Duration
	HTTPWriteTimeout     time.Duration
	HTTPIdleTimeout      time.Duration
	ProviderTimeout      time.Duration
	RateLimitPerMin      int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:               getEnv("APP_ENV", "development"),
		Port:                 getEnv("PORT", "8080"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		AdminEmails:          splitList(getEnv("ADMIN_EMAILS", "admin@example.com")),
		ImageProvider:        getEnv("IMAGE_GEN_PROVIDER", "dall-e"),
		ImageAPIKey:          os.Getenv("IMAGE_GEN_API_KEY"),
		StabilityAPIHost:     getEnv("STABILITY_API_HOST", "api.stability.ai"),
		CaptionProvider:      getEnv("LLM_PROVIDER", "openai"),
		CaptionAPIKey:        os.Getenv("LLM_API_KEY"),
		CaptionModel:         getEnv("LLM_MODEL", "gpt-4o-mini"),
		CaptionBaseURL:       getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
		CreditCostPerBatch:   getEnvInt("CREDIT_COST_PER_BATCH", 10),
		SignupCredits:        getEnvInt("SIGNUP_CREDITS", 100),
		MaxBatchQuantity:     getEnvInt("MAX_BATCH_QUANTITY", 30),
		GenerationConcurrent: getEnvInt("GENERATION_CONCURRENCY", 4),
		StoragePath:          getEnv("STORAGE_PATH", "./storage"),
		GeoIPDBPath:          os.Getenv("GEOIP_DB_PATH"),
		CORSAllowedOrigins:   splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		HTTPReadTimeout:      time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:     time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 60)),
		HTTPIdleTimeout:      time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		ProviderTimeout:      time.Second * time.Duration(getEnvInt("PROVIDER_TIMEOUT_SECONDS", 45)),
		RateLimitPerMin:      getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if cfg.CreditCostPerBatch < 0 {
		return nil, fmt.Errorf("CREDIT_COST_PER_BATCH must not be negative")
	}

	if cfg.MaxBatchQuantity < 1 {
		return nil, fmt.Errorf("MAX_BATCH_QUANTITY must be at least 1")
	}

	if cfg.GenerationConcurrent < 1 {
		cfg.GenerationConcurrent = 1
	}

	return cfg, nil
}

// IsAdminEmail reports whether the given email is on the admin allow-list.
func (c *Config) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, admin := range c.AdminEmails {
		if strings.ToLower(admin) == email {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
