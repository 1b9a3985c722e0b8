package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURI   string
	TelegramToken string

	// Pagination
	NotesPerPage int
	MaxPageSize  int

	// Display
	MaxPreviewLength int

	// Reminders
	ReminderMaxPerUser    int
	ReminderTimezone      string
	ReminderEvictOldest   bool
	ReminderKeepDelivered bool

	// Rate limiting
	RateLimitEnabled    bool
	RateLimitBucketSize int
	RateLimitWindow     time.Duration

	// Optional LLM categorization
	AIAPIKey  string
	AIBaseURL string
	AIModel   string
	AITimeout time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env file is optional in production
	}

	return &Config{
		DatabaseURI:   os.Getenv("DATABASE_URI"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),

		NotesPerPage: getEnvInt("NOTES_PER_PAGE", 10),
		MaxPageSize:  getEnvInt("MAX_PAGE_SIZE", 50),

		MaxPreviewLength: getEnvInt("MAX_PREVIEW_LENGTH", 50),

		ReminderMaxPerUser:    getEnvInt("REMINDER_MAX_PER_USER", 10),
		ReminderTimezone:      getEnvOrDefault("REMINDER_TIMEZONE", "UTC"),
		ReminderEvictOldest:   getEnvBool("REMINDER_EVICT_OLDEST", false),
		ReminderKeepDelivered: getEnvBool("REMINDER_KEEP_DELIVERED", false),

		RateLimitEnabled:    getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitBucketSize: getEnvInt("RATE_LIMIT_BUCKET_SIZE", 10),
		RateLimitWindow:     time.Duration(getEnvInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		AIAPIKey:  os.Getenv("AI_API_KEY"),
		AIBaseURL: getEnvOrDefault("AI_BASE_URL", "https://openrouter.ai/api/v1"),
		AIModel:   getEnvOrDefault("AI_MODEL", "openai/gpt-4o-mini"),
		AITimeout: time.Duration(getEnvInt("AI_TIMEOUT", 10)) * time.Second,
	}, nil
}

// Location resolves the configured reminder timezone, falling back to UTC
// when the name is unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ReminderTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
