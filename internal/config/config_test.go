package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"finance-tracker/internal/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Port:             "8081",
		SessionTTL:       30 * 24 * time.Hour,
		DB:               DBConfig{Driver: DriverSQLite, Path: "test.db"},
		BcryptCost:       10,
		DefaultBudgetCap: DefaultBudgetCap,
		LogFormat:        "text",
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"PORT", "DB_DRIVER", "DB_PATH", "BCRYPT_COST", "DEFAULT_BUDGET_CAP", "LOG_LEVEL", "LOG_FORMAT", "SESSION_DURATION", "ADMIN_USER", "ADMIN_PASSWORD", "CATEGORIES_FILE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "finance.db", cfg.DB.Path)
	assert.Equal(t, money.FromCents(250000), cfg.DefaultBudgetCap)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 30*24*time.Hour, cfg.SessionTTL)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "root")
	t.Setenv("DB_NAME", "finance_tracker")
	t.Setenv("DEFAULT_BUDGET_CAP", "1000.50")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.Equal(t, money.FromCents(100050), cfg.DefaultBudgetCap)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "host=db.internal port=6543 dbname=finance_tracker sslmode=disable user=root password=root", cfg.DB.DSN())
	assert.Equal(t, "postgres://root@db.internal:6543/finance_tracker", cfg.DB.Redacted())
	assert.NoError(t, cfg.Validate())
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("DB_PATH="+filepath.Join(dir, "ledger.db")+"\n"), 0o600))
	// godotenv never overrides a variable that is already set, even to "".
	t.Setenv("DB_PATH", "")
	require.NoError(t, os.Unsetenv("DB_PATH"))

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ledger.db"), cfg.DB.Path)
}

func TestLoadMissingEnvFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "failed to load .env file")
}

func TestLoadReportsMalformedValues(t *testing.T) {
	t.Setenv("BCRYPT_COST", "high")
	t.Setenv("DEFAULT_BUDGET_CAP", "lots")
	t.Setenv("SESSION_DURATION", "forever")

	cfg, err := Load()
	require.NoError(t, err)
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid BCRYPT_COST 'high'")
	assert.Contains(t, err.Error(), "invalid DEFAULT_BUDGET_CAP 'lots'")
	assert.Contains(t, err.Error(), "invalid SESSION_DURATION 'forever'")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		errorString string
	}{
		{"valid", func(*Config) {}, ""},
		{"non-numeric port", func(c *Config) { c.Port = "abc" }, "invalid port 'abc': must be a number"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, "invalid port 70000: must be between 1 and 65535"},
		{"unknown driver", func(c *Config) { c.DB.Driver = "mysql" }, "invalid DB_DRIVER 'mysql'"},
		{"empty sqlite path", func(c *Config) { c.DB.Path = "" }, "DB_PATH cannot be empty"},
		{"postgres without user", func(c *Config) {
			c.DB = DBConfig{Driver: DriverPostgres, Host: "localhost", Port: 5432, Name: "finance_tracker"}
		}, "DB_USER is required"},
		{"bcrypt cost too low", func(c *Config) { c.BcryptCost = 2 }, "invalid BCRYPT_COST 2"},
		{"zero default cap", func(c *Config) { c.DefaultBudgetCap = 0 }, "invalid DEFAULT_BUDGET_CAP 0.00"},
		{"short session", func(c *Config) { c.SessionTTL = time.Second }, "invalid SESSION_DURATION"},
		{"admin user without password", func(c *Config) { c.AdminUser = "admin" }, "ADMIN_USER and ADMIN_PASSWORD must be set together"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "invalid LOG_FORMAT 'xml'"},
		{"missing categories file", func(c *Config) { c.CategoriesFile = "/nonexistent/categories.yaml" }, "categories file /nonexistent/categories.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errorString == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestValidateAggregatesErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.LogFormat = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
	assert.Contains(t, err.Error(), "invalid port")
	assert.Contains(t, err.Error(), "invalid LOG_FORMAT")
}

func TestDSNQuoting(t *testing.T) {
	d := DBConfig{Driver: DriverPostgres, Host: "localhost", Port: 5432, Name: "ft", SSLMode: "disable", User: "u", Password: "it's secret"}
	assert.Equal(t, `host=localhost port=5432 dbname=ft sslmode=disable user=u password='it\'s secret'`, d.DSN())

	assert.Equal(t, ":memory:", DBConfig{Driver: DriverSQLite, Path: ":memory:"}.DSN())
}
