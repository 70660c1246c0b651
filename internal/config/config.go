package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort  string
	AppEnv   string
	LogLevel string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	S3ArchiveBucket string // empty disables the case-data archive
	SNSTopicARN     string // empty disables change events

	JWTPublicKeyPath string

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string
	FrontendURL  string

	AllowedOrigins []string // CORS allowed origins

	Monitoring Monitoring
	Portal     Portal
}

// Monitoring configures the favorite-process monitoring scheduler.
type Monitoring struct {
	Enabled          bool
	EmailEnabled     bool
	Interval         time.Duration `validate:"gt=0"`
	InitialDelay     time.Duration `validate:"gte=0"`
	FetchConcurrency int           `validate:"gte=1,lte=32"`
}

// Portal configures the judicial portal client.
type Portal struct {
	BaseURL       string        `validate:"required,url"`
	PublicURL     string        `validate:"required,url"`
	Timeout       time.Duration `validate:"gt=0"`
	RatePerSecond float64       `validate:"gt=0"`
	Burst         int           `validate:"gte=1"`
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Favorites     string `validate:"required"`
	Snapshots     string `validate:"required"`
	Notifications string `validate:"required"`
	Users         string `validate:"required"`
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:        getEnv("APP_PORT", "3000"),
		AppEnv:         getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Favorites:     getEnv("DYNAMO_TABLE_FAVORITES", "favorite_processes"),
			Snapshots:     getEnv("DYNAMO_TABLE_SNAPSHOTS", "process_snapshots"),
			Notifications: getEnv("DYNAMO_TABLE_NOTIFICATIONS", "notifications"),
			Users:         getEnv("DYNAMO_TABLE_USERS", "users"),
		},
		S3ArchiveBucket:  getEnv("S3_ARCHIVE_BUCKET", ""),
		SNSTopicARN:      getEnv("SNS_TOPIC_ARN", ""),
		JWTPublicKeyPath: getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		SMTPHost:         getEnv("SMTP_HOST", "localhost"),
		SMTPPort:         getEnv("SMTP_PORT", "1025"),
		SMTPFrom:         getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		FrontendURL:      getEnv("FRONTEND_URL", "http://localhost:3000"),
		AllowedOrigins:   strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		Monitoring: Monitoring{
			Enabled:          getEnvBool("MONITORING_ENABLED", true),
			EmailEnabled:     getEnvBool("MONITORING_EMAIL_ENABLED", true),
			Interval:         getEnvDuration("MONITORING_INTERVAL", 10*time.Minute),
			InitialDelay:     getEnvDuration("MONITORING_INITIAL_DELAY", time.Minute),
			FetchConcurrency: getEnvInt("MONITORING_FETCH_CONCURRENCY", 4),
		},
		Portal: Portal{
			BaseURL:       getEnv("PORTAL_BASE_URL", "https://consultaprocesos.ramajudicial.gov.co:448"),
			PublicURL:     getEnv("PORTAL_PUBLIC_URL", "https://consultaprocesos.ramajudicial.gov.co"),
			Timeout:       getEnvDuration("PORTAL_TIMEOUT", 30*time.Second),
			RatePerSecond: getEnvFloat("PORTAL_RATE_PER_SECOND", 2),
			Burst:         getEnvInt("PORTAL_BURST", 2),
		},
	}
}

var v = validator.New()

// Validate checks the tagged fields and reports every violation at once.
func (c *Config) Validate() error {
	if err := v.Struct(c); err != nil {
		ve, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		msgs := make([]string, 0, len(ve))
		for _, fe := range ve {
			msgs = append(msgs, fmt.Sprintf("%s failed '%s'", fe.Namespace(), fe.Tag()))
		}
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvDuration accepts Go durations ("90s", "10m") and bare integers as milliseconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}
