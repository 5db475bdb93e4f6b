package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds every runtime setting. It is built once in main and passed
// down explicitly; nothing below cmd/ reads the environment.
type Config struct {
	Port string

	DBDriver    string
	DatabaseURL string
	DBHost      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBPort      string
	DBPath      string
	DBLogSQL    bool

	JWTSecret string
	JWTTTL    time.Duration

	Location          *time.Location
	LowStockThreshold int
	DebtDueDays       int

	LogLevel  string
	LogFormat string

	OwnerEmail    string
	OwnerPassword string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "3000"),
		DBDriver:      getEnv("DB_DRIVER", DriverPostgres),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        getEnv("DB_NAME", "warung"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBPath:        getEnv("DB_PATH", "warung.db"),
		JWTSecret:     getEnv("JWT_SECRET", "your-super-secret-key-change-in-production"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "console"),
		OwnerEmail:    getEnv("OWNER_EMAIL", "owner@warung.local"),
		OwnerPassword: getEnv("OWNER_PASSWORD", "admin123"),
	}

	if cfg.DBDriver != DriverPostgres && cfg.DBDriver != DriverSQLite {
		return nil, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, cfg.DBDriver)
	}

	var err error
	if cfg.DBLogSQL, err = getEnvBool("DB_LOG_SQL", false); err != nil {
		return nil, err
	}

	ttlHours, err := getEnvInt("JWT_TTL_HOURS", 24)
	if err != nil {
		return nil, err
	}
	cfg.JWTTTL = time.Duration(ttlHours) * time.Hour

	if cfg.LowStockThreshold, err = getEnvInt("LOW_STOCK_THRESHOLD", 5); err != nil {
		return nil, err
	}
	if cfg.DebtDueDays, err = getEnvInt("DEBT_DUE_DAYS", 7); err != nil {
		return nil, err
	}

	if cfg.Location, err = LoadLocation(getEnv("SHOP_TIMEZONE", "Asia/Jakarta")); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DSN is the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == DriverSQLite {
		return c.DBPath
	}
	return c.PostgresDSN()
}

// PostgresDSN returns DATABASE_URL when set, otherwise a DSN built from the DB_* parts.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.Location.String(),
	)
}

// LoadLocation resolves a tz name. Minimal containers often ship without
// tzdata, so Asia/Jakarta falls back to a fixed WIB offset.
func LoadLocation(name string) (*time.Location, error) {
	loc, err := time.LoadLocation(name)
	if err == nil {
		return loc, nil
	}
	if name == "Asia/Jakarta" {
		return time.FixedZone("WIB", 7*3600), nil
	}
	return nil, fmt.Errorf("SHOP_TIMEZONE %q: %w", name, err)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", key, v)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", key, v)
	}
	return b, nil
}
