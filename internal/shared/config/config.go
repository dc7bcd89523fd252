package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBusinessTimezone   = "Asia/Kolkata"
	DefaultFeedbackEditWindow = 48 * time.Hour
	DefaultReminderSchedule   = "*/15 * * * *"
)

// Config holds application configuration.
type Config struct {
	Port               string
	CORSAllowOrigin    []string
	AWSRegion          string
	SQSQueueURL        string
	DatabaseURL        string
	DBConnectAttempts  int
	DBConnectDelay     time.Duration
	Env                string
	JWTSecret          string
	BusinessTimezone   string
	FeedbackEditWindow time.Duration
	RedisAddr          string
	RateLimitRPS       float64
	RateLimitBurst     int
	ReminderSchedule   string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	UIRedirectURL      string
}

// Load reads configuration from environment variables with sensible defaults.
// Values from the optional HW_CONFIG_FILE overlay replace the defaults; the
// environment still wins over both.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	file, err := loadFile(os.Getenv("HW_CONFIG_FILE"))
	if err != nil {
		log.Printf("config file ignored: %v", err)
	}

	env := normalizeEnv(getEnv("ENV", orDefault(file.Env, "dev")))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:               getEnv("PORT", orDefault(file.Port, "8080")),
		CORSAllowOrigin:    splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", orDefault(strings.Join(file.CORSAllowOrigins, ","), "http://localhost:5173"))),
		AWSRegion:          getEnv("AWS_REGION", orDefault(file.AWSRegion, "us-east-1")),
		SQSQueueURL:        getEnv("HW_SQS_QUEUE_URL", file.SQSQueueURL),
		DatabaseURL:        dbURL,
		DBConnectAttempts:  getEnvInt("DB_CONNECT_ATTEMPTS", 5),
		DBConnectDelay:     getEnvDuration("DB_CONNECT_DELAY", 5*time.Second),
		Env:                env,
		JWTSecret:          getEnv("JWT_SECRET", ""),
		BusinessTimezone:   getEnv("BUSINESS_TIMEZONE", orDefault(file.BusinessTimezone, DefaultBusinessTimezone)),
		FeedbackEditWindow: getEnvDuration("FEEDBACK_EDIT_WINDOW", durationOr(file.FeedbackEditWindow, DefaultFeedbackEditWindow)),
		RedisAddr:          getEnv("REDIS_ADDR", file.RedisAddr),
		RateLimitRPS:       getEnvFloat("RATE_LIMIT_RPS", floatOr(file.RateLimit.RPS, 5)),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", intOr(file.RateLimit.Burst, 20)),
		ReminderSchedule:   getEnv("REMINDER_SCHEDULE", orDefault(file.ReminderSchedule, DefaultReminderSchedule)),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
		UIRedirectURL:      getEnv("UI_REDIRECT_URL", file.UIRedirectURL),
	}
}

// IsProduction reports whether error details must be hidden from clients.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("config %s invalid int: %v", key, err)
		return def
	}
	return val
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("config %s invalid float: %v", key, err)
		return def
	}
	return val
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("config %s invalid duration: %v", key, err)
		return def
	}
	return val
}

func orDefault(val, def string) string {
	if strings.TrimSpace(val) != "" {
		return val
	}
	return def
}

func intOr(val, def int) int {
	if val > 0 {
		return val
	}
	return def
}

func floatOr(val, def float64) float64 {
	if val > 0 {
		return val
	}
	return def
}

func durationOr(raw string, def time.Duration) time.Duration {
	if strings.TrimSpace(raw) == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "test":
		return "test"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}
