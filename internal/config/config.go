// Package config loads service configuration from YAML with environment
// variable overrides.
package config

import (
	"fmt"
	"time"

	"insights-dashboard/internal/logger"
)

// Default configuration values.
const (
	defaultServiceName     = "insights-dashboard"
	defaultServicePort     = 8080
	defaultShutdownTimeout = 10 * time.Second
	defaultRequestTimeout  = 15 * time.Second

	defaultDriver       = "sqlite3"
	defaultSQLitePath   = "insights.db"
	defaultDBHost       = "localhost"
	defaultDBPort       = 5432
	defaultDBName       = "insights"
	defaultDBUser       = "postgres"
	defaultDBSSLMode    = "disable"
	defaultMaxOpenConns = 10
	defaultMaxIdleConns = 5
	defaultConnLifetime = 30 * time.Minute
	defaultPingTimeout  = 5 * time.Second

	defaultCacheDriver = "memory"
	defaultCacheTTL    = 5 * time.Minute
	defaultCacheSize   = 1024
	defaultRedisAddr   = "localhost:6379"

	defaultLogLevel = "info"
)

// Config holds the application configuration.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	Logging  logger.Config  `yaml:"logging"`
}

// ServiceConfig holds HTTP service settings.
type ServiceConfig struct {
	Name            string        `yaml:"name"`
	Port            int           `env:"INSIGHTS_PORT" yaml:"port"`
	Debug           bool          `env:"APP_DEBUG" yaml:"debug"`
	RequestTimeout  time.Duration `env:"INSIGHTS_REQUEST_TIMEOUT" yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	Swagger         bool          `env:"INSIGHTS_SWAGGER" yaml:"swagger"`
	MigrateOnStart  bool          `env:"INSIGHTS_MIGRATE_ON_START" yaml:"migrate_on_start"`
	ImportAPI       bool          `env:"INSIGHTS_IMPORT_API" yaml:"import_api"` // expose POST /api/v1/imports
}

// DatabaseConfig selects and tunes the backing SQL store.
type DatabaseConfig struct {
	Driver          string        `env:"INSIGHTS_DB_DRIVER" yaml:"driver"` // sqlite3 or postgres
	Path            string        `env:"INSIGHTS_DB_PATH" yaml:"path"`     // sqlite3 only
	Host            string        `env:"INSIGHTS_DB_HOST" yaml:"host"`
	Port            int           `env:"INSIGHTS_DB_PORT" yaml:"port"`
	User            string        `env:"INSIGHTS_DB_USER" yaml:"user"`
	Password        string        `env:"INSIGHTS_DB_PASSWORD" yaml:"password"`
	Name            string        `env:"INSIGHTS_DB_NAME" yaml:"name"`
	SSLMode         string        `env:"INSIGHTS_DB_SSLMODE" yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	PingTimeout     time.Duration `yaml:"ping_timeout"`
}

// DSN returns the driver specific connection string.
func (d *DatabaseConfig) DSN() string {
	if d.Driver == "postgres" {
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
		)
	}
	return d.Path
}

// MigrateURL returns the database URL understood by golang-migrate.
func (d *DatabaseConfig) MigrateURL() string {
	if d.Driver == "postgres" {
		return fmt.Sprintf(
			"postgres://%s:%s@%s:%d/%s?sslmode=%s",
			d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
		)
	}
	return "sqlite3://" + d.Path
}

// CacheConfig configures the summary cache.
type CacheConfig struct {
	Driver string        `env:"INSIGHTS_CACHE" yaml:"driver"` // memory, redis or none
	TTL    time.Duration `yaml:"ttl"`
	Size   int           `env:"INSIGHTS_CACHE_SIZE" yaml:"size"` // memory driver entry limit
	Redis  RedisConfig   `yaml:"redis"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Address  string `env:"REDIS_ADDRESS" yaml:"address"`
	Password string `env:"REDIS_PASSWORD" yaml:"password"`
	DB       int    `env:"REDIS_DB" yaml:"db"`
}

// Load reads configuration from path (optional), applies defaults and then
// environment overrides, which always win.
func Load(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, fmt.Errorf("load environment files: %w", err)
	}

	cfg := &Config{}
	if err := readYAML(path, cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	setDefaults(cfg)
	return cfg, nil
}

func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)
	setCacheDefaults(&cfg.Cache)
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultLogLevel
	}
}

func setServiceDefaults(svc *ServiceConfig) {
	if svc.Name == "" {
		svc.Name = defaultServiceName
	}
	if svc.Port == 0 {
		svc.Port = defaultServicePort
	}
	if svc.RequestTimeout == 0 {
		svc.RequestTimeout = defaultRequestTimeout
	}
	if svc.ShutdownTimeout == 0 {
		svc.ShutdownTimeout = defaultShutdownTimeout
	}
}

func setDatabaseDefaults(db *DatabaseConfig) {
	if db.Driver == "" {
		db.Driver = defaultDriver
	}
	if db.Path == "" {
		db.Path = defaultSQLitePath
	}
	if db.Host == "" {
		db.Host = defaultDBHost
	}
	if db.Port == 0 {
		db.Port = defaultDBPort
	}
	if db.User == "" {
		db.User = defaultDBUser
	}
	if db.Name == "" {
		db.Name = defaultDBName
	}
	if db.SSLMode == "" {
		db.SSLMode = defaultDBSSLMode
	}
	if db.MaxOpenConns == 0 {
		db.MaxOpenConns = defaultMaxOpenConns
	}
	if db.MaxIdleConns == 0 {
		db.MaxIdleConns = defaultMaxIdleConns
	}
	if db.ConnMaxLifetime == 0 {
		db.ConnMaxLifetime = defaultConnLifetime
	}
	if db.PingTimeout == 0 {
		db.PingTimeout = defaultPingTimeout
	}
}

func setCacheDefaults(c *CacheConfig) {
	if c.Driver == "" {
		c.Driver = defaultCacheDriver
	}
	if c.TTL == 0 {
		c.TTL = defaultCacheTTL
	}
	if c.Size <= 0 {
		c.Size = defaultCacheSize
	}
	if c.Redis.Address == "" {
		c.Redis.Address = defaultRedisAddr
	}
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if c.Service.Port < 1 || c.Service.Port > 65535 {
		return &ValidationError{Field: "service.port", Message: "must be between 1 and 65535"}
	}
	switch c.Database.Driver {
	case "sqlite3", "postgres":
	default:
		return &ValidationError{Field: "database.driver", Message: "must be sqlite3 or postgres"}
	}
	switch c.Cache.Driver {
	case "memory", "redis", "none":
	default:
		return &ValidationError{Field: "cache.driver", Message: "must be memory, redis or none"}
	}
	if !logger.ValidLevel(c.Logging.Level) {
		return &ValidationError{Field: "logging.level", Message: "must be one of: debug, info, warn, error"}
	}
	return nil
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
