package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	ServerPort string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	RabbitURL string

	MaxTotalClasses     int
	ExpiringSoonDays    int
	ExpirySweepSchedule string

	LogLevel  string
	LogFormat string

	ShutdownTimeout time.Duration
}

// Load reads the environment, after loading .env when one exists.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "classpass"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "classpass.db"),

		RabbitURL: getEnv("RABBITMQ_URL", ""),

		MaxTotalClasses:     getEnvInt("MAX_TOTAL_CLASSES", 50),
		ExpiringSoonDays:    getEnvInt("EXPIRING_SOON_DAYS", 7),
		ExpirySweepSchedule: getEnv("EXPIRY_SWEEP_SCHEDULE", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func (c *Config) Validate() error {
	var errs []error

	if port, err := strconv.Atoi(c.ServerPort); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %q", c.ServerPort))
	}
	switch c.DBDriver {
	case DriverPostgres:
		if c.DBHost == "" || c.DBName == "" {
			errs = append(errs, errors.New("DB_HOST and DB_NAME are required for postgres"))
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.DBDriver))
	}
	if c.MaxTotalClasses < 0 {
		errs = append(errs, fmt.Errorf("MAX_TOTAL_CLASSES cannot be negative, got %d", c.MaxTotalClasses))
	}
	if c.ExpiringSoonDays < 0 {
		errs = append(errs, fmt.Errorf("EXPIRING_SOON_DAYS cannot be negative, got %d", c.ExpiringSoonDays))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout))
	}

	return errors.Join(errs...)
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

// LogValues returns the settings as key/value pairs with secrets left out.
func (c *Config) LogValues() []any {
	return []any{
		"port", c.ServerPort,
		"db_driver", c.DBDriver,
		"db_host", c.DBHost,
		"db_name", c.DBName,
		"sqlite_path", c.SQLitePath,
		"rabbitmq_enabled", c.RabbitURL != "",
		"max_total_classes", c.MaxTotalClasses,
		"expiring_soon_days", c.ExpiringSoonDays,
		"expiry_sweep_schedule", c.ExpirySweepSchedule,
		"shutdown_timeout", c.ShutdownTimeout,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
