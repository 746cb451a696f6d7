// Package config loads process-wide settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"finance-tracker/internal/models"
	"finance-tracker/internal/money"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds process-wide settings.
type Config struct {
	// HTTP Server
	Port         string
	SecureCookie bool
	SessionTTL   time.Duration

	// Database
	DB DBConfig

	// Credentials
	BcryptCost    int
	AdminUser     string
	AdminPassword string

	// Ledger
	DefaultBudgetCap money.Amount
	CategoriesFile   string

	// Logging
	LogLevel  slog.Level
	LogFormat string

	// problems collected while parsing values, reported by Validate
	parseErrors []string
}

// DBConfig describes how to reach the relational store.
type DBConfig struct {
	Driver   string
	Path     string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DefaultBudgetCap is substituted for the total budget when a user has not configured any.
var DefaultBudgetCap = money.FromCents(2500_00)

// Load reads settings from the environment. An explicit .env path must exist;
// otherwise a .env in the working directory is loaded when present.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := &Config{
		Port:         getEnv("PORT", "8081"),
		SecureCookie: getEnv("SECURE_COOKIE", "false") == "true",

		DB: DBConfig{
			Driver:   getEnv("DB_DRIVER", DriverSQLite),
			Path:     getEnv("DB_PATH", "finance.db"),
			Host:     getEnv("DB_HOST", "localhost"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnv("DB_NAME", "finance_tracker"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},

		AdminUser:     os.Getenv("ADMIN_USER"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		CategoriesFile: os.Getenv("CATEGORIES_FILE"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
	}

	cfg.DB.Port = cfg.getEnvInt("DB_PORT", 5432)
	cfg.BcryptCost = cfg.getEnvInt("BCRYPT_COST", bcrypt.DefaultCost)
	cfg.SessionTTL = cfg.getEnvDuration("SESSION_DURATION", 30*24*time.Hour)
	cfg.DefaultBudgetCap = cfg.getEnvAmount("DEFAULT_BUDGET_CAP", DefaultBudgetCap)
	cfg.LogLevel = cfg.getEnvLevel("LOG_LEVEL", slog.LevelInfo)

	return cfg, nil
}

// Validate validates the configuration and returns every problem in one error.
func (c *Config) Validate() error {
	errors := append([]string(nil), c.parseErrors...)

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DB.Driver {
	case DriverSQLite:
		if c.DB.Path == "" {
			errors = append(errors, "DB_PATH cannot be empty when using the sqlite driver")
		}
	case DriverPostgres:
		if c.DB.Host == "" {
			errors = append(errors, "DB_HOST is required when using the postgres driver")
		}
		if c.DB.User == "" {
			errors = append(errors, "DB_USER is required when using the postgres driver")
		}
		if c.DB.Name == "" {
			errors = append(errors, "DB_NAME is required when using the postgres driver")
		}
		if c.DB.Port < 1 || c.DB.Port > 65535 {
			errors = append(errors, fmt.Sprintf("invalid DB_PORT %d: must be between 1 and 65535", c.DB.Port))
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid DB_DRIVER '%s': must be one of [%s %s]", c.DB.Driver, DriverSQLite, DriverPostgres))
	}

	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errors = append(errors, fmt.Sprintf("invalid BCRYPT_COST %d: must be between %d and %d", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost))
	}

	if c.DefaultBudgetCap <= 0 {
		errors = append(errors, fmt.Sprintf("invalid DEFAULT_BUDGET_CAP %s: must be positive", c.DefaultBudgetCap.Plain()))
	}

	if c.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid SESSION_DURATION %v: must be at least 1 minute", c.SessionTTL))
	}

	if (c.AdminUser == "") != (c.AdminPassword == "") {
		errors = append(errors, "ADMIN_USER and ADMIN_PASSWORD must be set together")
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid LOG_FORMAT '%s': must be 'text' or 'json'", c.LogFormat))
	}

	if c.CategoriesFile != "" {
		if _, err := os.Stat(c.CategoriesFile); err != nil {
			errors = append(errors, fmt.Sprintf("categories file %s: %v", c.CategoriesFile, err))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// Categories returns the configured category sets, loading CategoriesFile when set.
func (c *Config) Categories() (models.Categories, error) {
	if c.CategoriesFile == "" {
		return models.DefaultCategories(), nil
	}
	return LoadCategories(c.CategoriesFile)
}

// DSN returns the driver-specific data source name.
func (d DBConfig) DSN() string {
	if d.Driver == DriverPostgres {
		parts := []string{
			"host=" + quoteDSN(d.Host),
			"port=" + strconv.Itoa(d.Port),
			"dbname=" + quoteDSN(d.Name),
			"sslmode=" + quoteDSN(d.SSLMode),
		}
		if d.User != "" {
			parts = append(parts, "user="+quoteDSN(d.User))
		}
		if d.Password != "" {
			parts = append(parts, "password="+quoteDSN(d.Password))
		}
		return strings.Join(parts, " ")
	}
	return d.Path
}

// Redacted describes the store without credentials, for logs.
func (d DBConfig) Redacted() string {
	if d.Driver == DriverPostgres {
		return fmt.Sprintf("postgres://%s@%s:%d/%s", d.User, d.Host, d.Port, d.Name)
	}
	return "sqlite:" + d.Path
}

func quoteDSN(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		c.parseErrors = append(c.parseErrors, fmt.Sprintf("invalid %s '%s': must be a number", key, value))
		return defaultValue
	}
	return i
}

func (c *Config) getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		c.parseErrors = append(c.parseErrors, fmt.Sprintf("invalid %s '%s': %v", key, value, err))
		return defaultValue
	}
	return d
}

func (c *Config) getEnvAmount(key string, defaultValue money.Amount) money.Amount {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	a, err := money.Parse(value)
	if err != nil {
		c.parseErrors = append(c.parseErrors, fmt.Sprintf("invalid %s '%s': %v", key, value, err))
		return defaultValue
	}
	return a
}

func (c *Config) getEnvLevel(key string, defaultValue slog.Level) slog.Level {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		c.parseErrors = append(c.parseErrors, fmt.Sprintf("invalid %s '%s': %v", key, value, err))
		return defaultValue
	}
	return level
}
