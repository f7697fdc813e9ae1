package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP server
	Port string

	// Storage
	SQLiteDBPath    string
	SavedEventsPath string

	// Event catalog
	CatalogFeedURL     string
	CatalogICSURL      string
	CatalogTimeout     time.Duration
	CatalogRefreshSpec string

	// Calendar window
	WindowMinStart      int
	WindowMaxEnd        int
	WindowStep          int
	WindowEdgeThreshold float64

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets report sync
	GoogleSpreadsheetID   string
	GoogleSheetName       string
	GoogleCredentialsFile string
	GoogleCredentialsJSON string

	// Worker
	SyncBatchSize int
	SyncInterval  time.Duration
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		SQLiteDBPath:    getEnv("SQLITE_DB_PATH", "./data/gatherly.db"),
		SavedEventsPath: getEnv("SAVED_EVENTS_PATH", "./data/saved"),

		CatalogFeedURL:     getEnv("CATALOG_FEED_URL", ""),
		CatalogICSURL:      getEnv("CATALOG_ICS_URL", ""),
		CatalogTimeout:     getEnvDuration("CATALOG_TIMEOUT", 10*time.Second),
		CatalogRefreshSpec: getEnv("CATALOG_REFRESH_SPEC", "0 */6 * * *"),

		WindowMinStart:      getEnvInt("WINDOW_MIN_START", -24),
		WindowMaxEnd:        getEnvInt("WINDOW_MAX_END", 25),
		WindowStep:          getEnvInt("WINDOW_STEP", 3),
		WindowEdgeThreshold: getEnvFloat("WINDOW_EDGE_THRESHOLD", 800),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "gatherly"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "sync_reports"),

		GoogleSpreadsheetID:   getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:       getEnv("GOOGLE_SHEET_NAME", "Reports"),
		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),
		GoogleCredentialsJSON: getEnv("GOOGLE_CREDENTIALS_JSON", ""),

		SyncBatchSize: getEnvInt("SYNC_BATCH_SIZE", 10),
		SyncInterval:  getEnvDuration("SYNC_INTERVAL", 30*time.Second),
	}
}

// ReportSyncEnabled reports whether the AMQP to Sheets pipeline is configured.
func (c *Config) ReportSyncEnabled() bool {
	return c.AMQPURL != ""
}

// Validate checks the whole configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
			}
		}
	}

	if c.SavedEventsPath == "" {
		errors = append(errors, "saved events path cannot be empty")
	}

	if c.CatalogFeedURL != "" {
		if u, err := url.Parse(c.CatalogFeedURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errors = append(errors, fmt.Sprintf("invalid catalog feed URL '%s': must be http or https", c.CatalogFeedURL))
		}
	}
	if c.CatalogICSURL != "" {
		if u, err := url.Parse(c.CatalogICSURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errors = append(errors, fmt.Sprintf("invalid catalog ICS URL '%s': must be http or https", c.CatalogICSURL))
		}
	}
	if c.CatalogTimeout < time.Second || c.CatalogTimeout > 2*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid catalog timeout %v: must be between 1 second and 2 minutes", c.CatalogTimeout))
	}

	if c.WindowMinStart >= 0 {
		errors = append(errors, fmt.Sprintf("invalid window min start %d: must be negative", c.WindowMinStart))
	}
	if c.WindowMaxEnd <= 0 {
		errors = append(errors, fmt.Sprintf("invalid window max end %d: must be positive", c.WindowMaxEnd))
	}
	if c.WindowStep < 1 || c.WindowStep > 12 {
		errors = append(errors, fmt.Sprintf("invalid window step %d: must be between 1 and 12", c.WindowStep))
	}
	if c.WindowEdgeThreshold <= 0 {
		errors = append(errors, fmt.Sprintf("invalid window edge threshold %v: must be positive", c.WindowEdgeThreshold))
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.GoogleSpreadsheetID != "" {
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google sheet name cannot be empty when a spreadsheet ID is provided")
		}
		hasFile := c.GoogleCredentialsFile != ""
		hasJSON := c.GoogleCredentialsJSON != ""
		if !hasFile && !hasJSON {
			errors = append(errors, "either GOOGLE_CREDENTIALS_FILE or GOOGLE_CREDENTIALS_JSON must be provided for report sync")
		}
		if hasFile {
			if _, err := os.Stat(c.GoogleCredentialsFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google credentials file does not exist: %s", c.GoogleCredentialsFile))
			}
		}
	}

	if c.SyncBatchSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid sync batch size %d: must be at least 1", c.SyncBatchSize))
	} else if c.SyncBatchSize > 1000 {
		errors = append(errors, fmt.Sprintf("invalid sync batch size %d: must be at most 1000", c.SyncBatchSize))
	}

	if c.SyncInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid sync interval %v: must be at least 1 second", c.SyncInterval))
	} else if c.SyncInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid sync interval %v: must be at most 24 hours", c.SyncInterval))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
