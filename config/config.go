package config

import (
	"os"
	"strconv"
	"time"

	"propertyfinder-monitor/models"
)

type Config struct {
	// Search
	SearchURL string // empty means: build from Criteria
	Location  string // display location attached to every listing
	Criteria  models.Criteria

	// Browser
	Headless          bool
	MaxPages          int
	NavigationTimeout time.Duration
	CardTimeout       time.Duration
	GlobalTimeout     time.Duration
	LoadDelayMin      time.Duration
	LoadDelayMax      time.Duration
	PageDelayMin      time.Duration
	PageDelayMax      time.Duration

	// Storage
	SeenFile    string
	CSVPath     string
	DatabaseURL string // empty disables the Postgres archive

	// Notification
	TelegramToken  string
	TelegramChatID string
	NotifyOnEmpty  bool
	MaxRetries     int
}

func DefaultConfig() *Config {
	return &Config{
		Location:          "Dubai Creek Harbour",
		Criteria:          models.DefaultCriteria(),
		Headless:          true,
		MaxPages:          3,
		NavigationTimeout: 60 * time.Second,
		CardTimeout:       10 * time.Second,
		GlobalTimeout:     10 * time.Minute,
		LoadDelayMin:      3 * time.Second,
		LoadDelayMax:      6 * time.Second,
		PageDelayMin:      4 * time.Second,
		PageDelayMax:      8 * time.Second,
		SeenFile:          "seen_listings.json",
		CSVPath:           "output/listings.csv",
		MaxRetries:        3,
	}
}

// Load returns the defaults overridden by environment variables.
func Load() *Config {
	cfg := DefaultConfig()

	cfg.SearchURL = getEnv("SEARCH_URL", cfg.SearchURL)
	cfg.Location = getEnv("LISTING_LOCATION", cfg.Location)
	cfg.Headless = getEnvBool("HEADLESS", cfg.Headless)
	cfg.MaxPages = getEnvInt("MAX_PAGES", cfg.MaxPages)
	cfg.GlobalTimeout = getEnvDuration("GLOBAL_TIMEOUT", cfg.GlobalTimeout)
	cfg.SeenFile = getEnv("SEEN_FILE", cfg.SeenFile)
	cfg.CSVPath = getEnv("CSV_FILE_PATH", cfg.CSVPath)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.TelegramToken = getEnv("TELEGRAM_BOT_TOKEN", cfg.TelegramToken)
	cfg.TelegramChatID = getEnv("TELEGRAM_CHAT_ID", cfg.TelegramChatID)
	cfg.NotifyOnEmpty = getEnvBool("NOTIFY_ON_EMPTY", cfg.NotifyOnEmpty)
	cfg.MaxRetries = getEnvInt("MAX_RETRIES", cfg.MaxRetries)

	cfg.Criteria.Bedrooms = getEnvInt("CRITERIA_BEDROOMS", cfg.Criteria.Bedrooms)
	cfg.Criteria.MaxPrice = getEnvInt("CRITERIA_MAX_PRICE", cfg.Criteria.MaxPrice)
	cfg.Criteria.MinSize = getEnvInt("CRITERIA_MIN_SIZE", cfg.Criteria.MinSize)
	cfg.Criteria.Location = getEnv("CRITERIA_LOCATION", cfg.Criteria.Location)

	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
