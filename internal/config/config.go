package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Keys double as environment variable names once upper-cased.
const (
	KeyPort                     = "port"
	KeyDataBackend              = "data_backend"
	KeyDataDir                  = "data_dir"
	KeySQLiteDBPath             = "sqlite_db_path"
	KeyAMQPURL                  = "amqp_url"
	KeyAMQPExchange             = "amqp_exchange"
	KeyGoogleSpreadsheetID      = "google_spreadsheet_id"
	KeyGoogleServiceAccountFile = "google_service_account_file"
	KeyGoogleServiceAccountJSON = "google_service_account_json"
	KeyLogLevel                 = "log_level"
	KeyLogFormat                = "log_format"
	KeyRateLimitPerMinute       = "rate_limit_per_minute"
)

const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

type Config struct {
	// HTTP Server
	Port               string
	RateLimitPerMinute int

	// Storage
	DataBackend  string
	DataDir      string
	SQLiteDBPath string

	// AMQP, disabled when the URL is empty
	AMQPURL      string
	AMQPExchange string

	// Google Sheets export
	GoogleSpreadsheetID      string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string

	// Logging
	LogLevel  string
	LogFormat string
}

// NewViper returns a viper instance with every default set and environment
// lookup enabled.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyPort, "8081")
	v.SetDefault(KeyDataBackend, BackendCSV)
	v.SetDefault(KeyDataDir, "data")
	v.SetDefault(KeySQLiteDBPath, "./data/gastos.db")
	v.SetDefault(KeyAMQPURL, "")
	v.SetDefault(KeyAMQPExchange, "gastos")
	v.SetDefault(KeyGoogleSpreadsheetID, "")
	v.SetDefault(KeyGoogleServiceAccountFile, "")
	v.SetDefault(KeyGoogleServiceAccountJSON, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyRateLimitPerMinute, 60)
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file into v and builds a Config. Without an
// explicit file, gastos.yaml in the working directory is used when present.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("gastos")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return &Config{
		Port:               strings.TrimSpace(v.GetString(KeyPort)),
		RateLimitPerMinute: v.GetInt(KeyRateLimitPerMinute),

		DataBackend:  strings.ToLower(strings.TrimSpace(v.GetString(KeyDataBackend))),
		DataDir:      strings.TrimSpace(v.GetString(KeyDataDir)),
		SQLiteDBPath: strings.TrimSpace(v.GetString(KeySQLiteDBPath)),

		AMQPURL:      strings.TrimSpace(v.GetString(KeyAMQPURL)),
		AMQPExchange: strings.TrimSpace(v.GetString(KeyAMQPExchange)),

		GoogleSpreadsheetID:      strings.TrimSpace(v.GetString(KeyGoogleSpreadsheetID)),
		GoogleServiceAccountFile: strings.TrimSpace(v.GetString(KeyGoogleServiceAccountFile)),
		GoogleServiceAccountJSON: v.GetString(KeyGoogleServiceAccountJSON),

		LogLevel:  strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),
		LogFormat: strings.ToLower(strings.TrimSpace(v.GetString(KeyLogFormat))),
	}, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// AMQPEnabled reports whether events should be published.
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate data backend
	validBackends := []string{BackendCSV, BackendSQLite}
	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}
	if c.DataBackend == BackendCSV && c.DataDir == "" {
		errors = append(errors, "data directory cannot be empty when using csv backend")
	}
	if c.DataBackend == BackendSQLite && c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be text or json", c.LogFormat))
	}

	if c.RateLimitPerMinute < 0 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be zero (disabled) or positive", c.RateLimitPerMinute))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// ValidateExport checks the settings needed by the Google Sheets export.
func (c *Config) ValidateExport() error {
	var errors []string
	if c.GoogleSpreadsheetID == "" {
		errors = append(errors, "GOOGLE_SPREADSHEET_ID is required for export")
	}
	if c.GoogleServiceAccountFile == "" && strings.TrimSpace(c.GoogleServiceAccountJSON) == "" {
		errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_SERVICE_ACCOUNT_JSON must be provided for export")
	}
	if len(errors) > 0 {
		return fmt.Errorf("export configuration invalid:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}
