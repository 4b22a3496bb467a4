package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	SiteBaseURL   string
	DatabaseURL   string
	DatabaseURLRO string

	AdminJWTSecret     string
	CORSAllowedOrigins []string
	IntakeRate         float64
	IntakeBurst        int

	NotifyWebhookURL string
	EmailProvider    string
	NotifyEmailTo    string
	SendGridAPIKey   string
	SendGridFrom     string
	SendGridFromName string

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	RedisAddr     string
	RedisPassword string
	NewsCacheTTL  time.Duration

	AnalyticsURL  string
	AnalyticsGoal string

	ArtifactsDir    string
	HTMLShellPath   string
	ArtifactsBucket string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		SiteBaseURL:   strings.TrimRight(getEnv("SITE_BASE_URL", "https://gruzpro.ru"), "/"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		DatabaseURLRO: getEnv("DATABASE_URL_RO", ""),

		AdminJWTSecret:     getEnv("ADMIN_JWT_SECRET", ""),
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS"),
		IntakeRate:         getEnvAsFloat("INTAKE_RATE", 1),
		IntakeBurst:        getEnvAsInt("INTAKE_BURST", 5),

		NotifyWebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		EmailProvider:    strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "off"))),
		NotifyEmailTo:    getEnv("NOTIFY_EMAIL_TO", ""),
		SendGridAPIKey:   getEnv("SENDGRID_API_KEY", ""),
		SendGridFrom:     getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName: getEnv("SENDGRID_FROM_NAME", "GruzPro Site"),

		AWSRegion:          getEnv("AWS_REGION", "eu-central-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		NewsCacheTTL:  getEnvAsDuration("NEWS_CACHE_TTL", 5*time.Minute),

		AnalyticsURL:  getEnv("ANALYTICS_URL", ""),
		AnalyticsGoal: getEnv("ANALYTICS_GOAL", "lead_submitted"),

		ArtifactsDir:    getEnv("ARTIFACTS_DIR", "generated"),
		HTMLShellPath:   getEnv("HTML_SHELL_PATH", "dist/index.html"),
		ArtifactsBucket: getEnv("ARTIFACTS_BUCKET", ""),
	}
}

// StoreDSN returns the DSN the process should connect with. The read-write
// DSN is preferred; the read-only DSN is enough for the export pipeline but
// not for lead intake.
func (c *Config) StoreDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DatabaseURLRO
}

// StoreWritable reports whether the configured DSN accepts writes.
func (c *Config) StoreWritable() bool {
	return c.DatabaseURL != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsSlice(key string) []string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
