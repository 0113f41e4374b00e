package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"SERVER_PORT", "DB_DRIVER", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
	"DB_SSLMODE", "SQLITE_PATH", "RABBITMQ_URL", "MAX_TOTAL_CLASSES", "EXPIRING_SOON_DAYS",
	"EXPIRY_SWEEP_SCHEDULE", "LOG_LEVEL", "LOG_FORMAT", "SHUTDOWN_TIMEOUT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, 50, cfg.MaxTotalClasses)
	assert.Equal(t, 7, cfg.ExpiringSoonDays)
	assert.Empty(t, cfg.RabbitURL)
	assert.Empty(t, cfg.ExpirySweepSchedule)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	require.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", ":memory:")
	t.Setenv("MAX_TOTAL_CLASSES", "0")
	t.Setenv("EXPIRY_SWEEP_SCHEDULE", "@daily")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, ":memory:", cfg.SQLitePath)
	assert.Equal(t, 0, cfg.MaxTotalClasses)
	assert.Equal(t, "@daily", cfg.ExpirySweepSchedule)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	require.NoError(t, cfg.Validate())
}

func TestLoad_BadNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_TOTAL_CLASSES", "lots")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	cfg := Load()

	assert.Equal(t, 50, cfg.MaxTotalClasses)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestValidate_CollectsErrors(t *testing.T) {
	cfg := &Config{
		ServerPort:       "http",
		DBDriver:         "mysql",
		MaxTotalClasses:  -1,
		ExpiringSoonDays: -2,
	}

	err := cfg.Validate()

	require.Error(t, err)
	for _, want := range []string{"SERVER_PORT", "DB_DRIVER", "MAX_TOTAL_CLASSES", "EXPIRING_SOON_DAYS", "SHUTDOWN_TIMEOUT"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "passes", DBPort: "5433", DBSSLMode: "require"}

	assert.Equal(t, "host=db user=u password=p dbname=passes port=5433 sslmode=require TimeZone=UTC", cfg.DSN())
}
