// Package config loads the settings of the recon command line.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every setting of the command line.
type Config struct {
	// Currency is the ISO 4217 code the Cash position is expressed in.
	Currency string `yaml:"currency"`
	// OutputFormat is the default output format of the reconcile command.
	OutputFormat string         `yaml:"output_format"`
	Database     DatabaseConfig `yaml:"database"`
	Log          LogConfig      `yaml:"log"`
}

// DatabaseConfig locates the account store.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "sqlite3" or "pgx"
	DSN    string `yaml:"dsn"`
}

// LogConfig controls logging and tracing.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
	Trace  bool   `yaml:"trace"`
}

// Output formats accepted by OutputFormat.
var OutputFormats = []string{"text", "json", "markdown", "pretty", "html"}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Currency:     "EUR",
		OutputFormat: "text",
		Database: DatabaseConfig{
			Driver: "sqlite3",
			DSN:    "recon.db",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load reads the YAML file at path on top of the defaults, then applies the
// environment overrides. A missing file is not an error. Variables defined
// in a .env file of the working directory are loaded first.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read .env file: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file %q: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyEnv overrides settings with the RECON_* variables found by lookup.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"RECON_CURRENCY":      &c.Currency,
		"RECON_OUTPUT_FORMAT": &c.OutputFormat,
		"RECON_DB_DRIVER":     &c.Database.Driver,
		"RECON_DB_DSN":        &c.Database.DSN,
		"RECON_LOG_LEVEL":     &c.Log.Level,
		"RECON_LOG_FORMAT":    &c.Log.Format,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	if v, ok := lookup("RECON_LOG_TRACE"); ok {
		trace, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("RECON_LOG_TRACE: %w", err)
		}
		c.Log.Trace = trace
	}
	return nil
}

// Validate checks that every setting holds a supported value.
func (c *Config) Validate() error {
	if c.Currency == "" {
		return fmt.Errorf("currency is required")
	}
	if money.GetCurrency(strings.ToUpper(c.Currency)) == nil {
		return fmt.Errorf("unknown currency %q", c.Currency)
	}
	if !slices.Contains(OutputFormats, c.OutputFormat) {
		return fmt.Errorf("output_format must be one of %s, got %q", strings.Join(OutputFormats, ", "), c.OutputFormat)
	}
	switch c.Database.Driver {
	case "sqlite3", "pgx":
	default:
		return fmt.Errorf("database.driver must be sqlite3 or pgx, got %q", c.Database.Driver)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}
