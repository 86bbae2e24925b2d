package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	AI        AIConfig
	Sheets    SheetsConfig
	Reporting ReportingConfig
	Tracking  TrackingConfig
	Log       LogConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI     string
	DBName  string
	Timeout time.Duration
}

// AIConfig holds settings for the advisor's language model.
type AIConfig struct {
	AnthropicKey string
	BaseURL      string
	Model        string
	Timeout      time.Duration
}

// SheetsConfig contains configuration required to export digests to Google Sheets.
// Export is disabled when SpreadsheetID is empty.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
}

// TrackingConfig holds activity submission options.
type TrackingConfig struct {
	StrictTravelModes bool
	SeedFoodFactors   bool
}

// LogConfig holds logger options.
type LogConfig struct {
	Level string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	mongoTimeout, err := getenvDuration("MONGODB_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	aiTimeout, err := getenvDuration("ADVISOR_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	strictModes, err := getenvBool("STRICT_TRAVEL_MODES", false)
	if err != nil {
		return nil, err
	}
	seedFoods, err := getenvBool("SEED_FOOD_FACTORS", true)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		MongoDB: MongoDBConfig{
			URI:     getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName:  getenvWithDefault("MONGODB_DB_NAME", "zerocarbon"),
			Timeout: mongoTimeout,
		},
		AI: AIConfig{
			AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
			BaseURL:      getenvWithDefault("ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
			Model:        getenvWithDefault("ANTHROPIC_MODEL", "claude-3-haiku-20240307"),
			Timeout:      aiTimeout,
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DIGEST_ID"),
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("DIGEST_CRON_SCHEDULE", "0 20 * * 5"),
			Timezone:     getenvWithDefault("TIMEZONE", "UTC"),
		},
		Tracking: TrackingConfig{
			StrictTravelModes: strictModes,
			SeedFoodFactors:   seedFoods,
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.MongoDB.URI == "":
		return errors.New("MONGODB_URI must be provided")
	case c.MongoDB.DBName == "":
		return errors.New("MONGODB_DB_NAME must be provided")
	case c.MongoDB.Timeout <= 0:
		return errors.New("MONGODB_TIMEOUT must be positive")
	}

	if c.AI.Timeout <= 0 {
		return errors.New("ADVISOR_TIMEOUT must be positive")
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("DIGEST_CRON_SCHEDULE must be provided")
	}

	if _, err := time.LoadLocation(c.Reporting.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}

	return nil
}

// Location returns the configured reporting timezone, UTC when it cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Reporting.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// AdvisorEnabled reports whether an API key is configured for the advisor.
func (c *Config) AdvisorEnabled() bool {
	return c.AI.AnthropicKey != ""
}

// SheetsEnabled reports whether digests are exported to Google Sheets.
func (c *Config) SheetsEnabled() bool {
	return c.Sheets.SpreadsheetID != ""
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

func getenvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}
