package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"financeflow/internal/log"
)

type Config struct {
	// HTTP Server
	Port               string `mapstructure:"PORT"`
	RateLimitPerMinute int    `mapstructure:"RATE_LIMIT_PER_MINUTE"`

	// Storage
	DataBackend  string `mapstructure:"DATA_BACKEND"`
	SQLiteDBPath string `mapstructure:"SQLITE_DB_PATH"`
	SeedDemo     bool   `mapstructure:"SEED_DEMO"`

	// AMQP ledger notifications; disabled when AMQPURL is empty.
	AMQPURL      string `mapstructure:"AMQP_URL"`
	AMQPExchange string `mapstructure:"AMQP_EXCHANGE"`
	AMQPQueue    string `mapstructure:"AMQP_QUEUE"`

	// Google Sheets export; disabled when GoogleSpreadsheetID is empty.
	GoogleSpreadsheetID      string `mapstructure:"GOOGLE_SPREADSHEET_ID"`
	GoogleSheetName          string `mapstructure:"GOOGLE_SHEET_NAME"`
	GoogleServiceAccountFile string `mapstructure:"GOOGLE_SERVICE_ACCOUNT_FILE"`
	GoogleServiceAccountJSON string `mapstructure:"GOOGLE_SERVICE_ACCOUNT_JSON"`

	LogLevel string        `mapstructure:"LOG_LEVEL"`
	CacheTTL time.Duration `mapstructure:"CACHE_TTL"`
}

var defaults = map[string]any{
	"PORT":                        "8081",
	"RATE_LIMIT_PER_MINUTE":       60,
	"DATA_BACKEND":                "memory",
	"SQLITE_DB_PATH":              "./data/financeflow.db",
	"SEED_DEMO":                   true,
	"AMQP_URL":                    "",
	"AMQP_EXCHANGE":               "financeflow",
	"AMQP_QUEUE":                  "ledger_events",
	"GOOGLE_SPREADSHEET_ID":       "",
	"GOOGLE_SHEET_NAME":           "Transactions",
	"GOOGLE_SERVICE_ACCOUNT_FILE": "",
	"GOOGLE_SERVICE_ACCOUNT_JSON": "",
	"LOG_LEVEL":                   "info",
	"CACHE_TTL":                   "5m",
}

// Load reads the configuration from the environment and, when configFile is
// not empty, from that file. Environment variables win over the file.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// SheetsEnabled reports whether a spreadsheet is configured for export.
func (c *Config) SheetsEnabled() bool {
	return strings.TrimSpace(c.GoogleSpreadsheetID) != ""
}

// AMQPEnabled reports whether ledger events are published.
func (c *Config) AMQPEnabled() bool {
	return strings.TrimSpace(c.AMQPURL) != ""
}

// Validate collects every configuration problem into a single error.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case "memory":
	case "sqlite":
		if strings.TrimSpace(c.SQLiteDBPath) == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of [memory sqlite]", c.DataBackend))
	}

	if c.AMQPEnabled() {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.SheetsEnabled() {
		if strings.TrimSpace(c.GoogleSheetName) == "" {
			errors = append(errors, "Google Sheet name is required when a spreadsheet is configured")
		}
		if c.GoogleServiceAccountFile != "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, err.Error())
	}

	if c.CacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must not be negative", c.CacheTTL))
	} else if c.CacheTTL > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at most 24 hours", c.CacheTTL))
	}

	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitPerMinute))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}
