package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Venue    VenueConfig    `yaml:"venue"`
	Logging  LoggingConfig  `yaml:"logging"`

	// Defaulted names the settings that were missing or invalid and fell
	// back to a default, for the caller to log.
	Defaulted []string `yaml:"-"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	RateLimitPerSec float64       `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int           `yaml:"rate_limit_burst"`
	CacheTTLSeconds int           `yaml:"cache_ttl_seconds"`
	CacheTTL        time.Duration `yaml:"-"` // Derived from CacheTTLSeconds
}

// Database drivers understood by the store layer.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// DatabaseConfig holds the record store connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"`
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogLevel               string `yaml:"log_level"`
	MongoDatabase          string `yaml:"mongo_database"`
	MongoTransactions      bool   `yaml:"mongo_transactions"`
}

// VenueConfig holds the fleet seed and the default venue settings.
type VenueConfig struct {
	DeviceCount      int            `yaml:"device_count"`
	DeviceNameFormat string         `yaml:"device_name_format"`
	HourlyRate       float64        `yaml:"hourly_rate"`
	Currency         string         `yaml:"currency"`
	CafeName         string         `yaml:"cafe_name"`
	TaxRate          float64        `yaml:"tax_rate"`
	Timezone         string         `yaml:"timezone"`
	Location         *time.Location `yaml:"-"` // Resolved from Timezone
}

// LoggingConfig selects the zap preset.
type LoggingConfig struct {
	Environment string `yaml:"environment"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		cfg.Database.DSN = dsn
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) applyDefaults() error {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8001
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 20
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 30
	}
	cfg.Server.CacheTTL = time.Duration(cfg.Server.CacheTTLSeconds) * time.Second

	switch cfg.Database.Driver {
	case "":
		cfg.Database.Driver = DriverSQLite
	case DriverSQLite, DriverPostgres, DriverMongo:
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	if cfg.Database.DSN == "" {
		switch cfg.Database.Driver {
		case DriverSQLite:
			cfg.Database.DSN = "cafe.db"
		case DriverMongo:
			cfg.Database.DSN = "mongodb://localhost:27017/"
		default:
			return fmt.Errorf("database.dsn is required for driver %q", cfg.Database.Driver)
		}
	}
	if cfg.Database.MongoDatabase == "" {
		cfg.Database.MongoDatabase = "console_cafe"
	}

	if cfg.Venue.DeviceCount <= 0 {
		cfg.Defaulted = append(cfg.Defaulted, "venue.device_count")
		cfg.Venue.DeviceCount = 6
	}
	if cfg.Venue.DeviceNameFormat == "" {
		cfg.Venue.DeviceNameFormat = "Device %d"
	}
	if cfg.Venue.HourlyRate <= 0 {
		cfg.Defaulted = append(cfg.Defaulted, "venue.hourly_rate")
		cfg.Venue.HourlyRate = 10.0
	}
	if cfg.Venue.TaxRate < 0 || cfg.Venue.TaxRate > 1 {
		return fmt.Errorf("venue.tax_rate must be between 0 and 1, got %v", cfg.Venue.TaxRate)
	}
	if cfg.Venue.Timezone == "" {
		cfg.Venue.Location = time.Local
	} else {
		loc, err := time.LoadLocation(cfg.Venue.Timezone)
		if err != nil {
			return fmt.Errorf("invalid venue.timezone %q: %w", cfg.Venue.Timezone, err)
		}
		cfg.Venue.Location = loc
	}

	if cfg.Logging.Environment == "" {
		cfg.Logging.Environment = "development"
	}
	return nil
}
