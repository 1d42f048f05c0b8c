package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	NBA      NBAConfig
	Odds     OddsConfig
	Jobs     JobsConfig
}

// DatabaseConfig holds database connection settings. Driver selects between
// "sqlite" and "postgres"; SQLitePath is ignored for postgres and the
// host/port fields are ignored for sqlite.
type DatabaseConfig struct {
	Driver     string
	SQLitePath string
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port string
}

// NBAConfig holds stats provider settings
type NBAConfig struct {
	BaseURL            string
	MinRequestInterval time.Duration
	PlayerDirectoryTTL time.Duration
	PlayerProfileTTL   time.Duration
	AnalyticsCacheTTL  time.Duration
}

// OddsConfig holds odds provider settings. An empty APIKey disables the
// cheatsheet endpoints.
type OddsConfig struct {
	APIKey  string
	BaseURL string
}

// JobsConfig holds background job settings
type JobsConfig struct {
	ResolverEnabled  bool
	ResolverInterval time.Duration
	ResolverBatch    int
	ResolverCapture  bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "sqlite"),
			SQLitePath: getEnv("DB_SQLITE_PATH", "prop_tracker.db"),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "5432"),
			User:       getEnv("DB_USER", "postgres"),
			Password:   getEnv("DB_PASSWORD", ""),
			DBName:     getEnv("DB_NAME", "prop_tracker"),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		NBA: NBAConfig{
			BaseURL:            getEnv("NBA_BASE_URL", "https://stats.nba.com"),
			MinRequestInterval: getDuration("NBA_MIN_REQUEST_INTERVAL", 600*time.Millisecond),
			PlayerDirectoryTTL: getDuration("PLAYER_DIRECTORY_TTL", time.Hour),
			PlayerProfileTTL:   getDuration("PLAYER_PROFILE_TTL", 24*time.Hour),
			AnalyticsCacheTTL:  getDuration("ANALYTICS_CACHE_TTL", 10*time.Minute),
		},
		Odds: OddsConfig{
			APIKey:  getEnv("ODDS_API_KEY", ""),
			BaseURL: getEnv("ODDS_BASE_URL", "https://api.the-odds-api.com"),
		},
		Jobs: JobsConfig{
			ResolverEnabled:  getBool("RESOLVER_JOB_ENABLED", true),
			ResolverInterval: getDuration("RESOLVER_JOB_INTERVAL", 15*time.Minute),
			ResolverBatch:    getInt("RESOLVER_JOB_BATCH", 25),
			ResolverCapture:  getBool("RESOLVER_JOB_CAPTURE", true),
		},
	}

	switch config.Database.Driver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (expected sqlite or postgres)", config.Database.Driver)
	}

	return config, nil
}

// GetDSN returns the PostgreSQL connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
