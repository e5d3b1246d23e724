package config

import (
	"fmt"
	"strings"

	"kamulog-stk/internal/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the application
type Config struct {
	AppMode        string `envconfig:"APP_MODE" default:"dev"`
	Port           string `envconfig:"PORT" default:"3000"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS"`
	RateLimit      int    `envconfig:"RATE_LIMIT_PER_MINUTE" default:"100"`
	DigestCron     string `envconfig:"DIGEST_CRON"`

	Database DatabaseConfig `ignored:"true"`
	JWT      JWTConfig      `ignored:"true"`
	Assembly AssemblyConfig `ignored:"true"`
}

// DatabaseConfig holds database configuration, read with the DEV_ or PROD_ prefix
type DatabaseConfig struct {
	Driver     string `envconfig:"DB_DRIVER" default:"mysql"`
	Host       string `envconfig:"DB_HOST" default:"localhost"`
	Port       string `envconfig:"DB_PORT" default:"3306"`
	User       string `envconfig:"DB_USER" default:"root"`
	Password   string `envconfig:"DB_PASS"`
	DBName     string `envconfig:"DB_NAME" default:"kamulog_stk"`
	SQLitePath string `envconfig:"DB_SQLITE_PATH" default:"kamulog-stk.db"`
}

// JWTConfig holds JWT configuration, read with the DEV_ or PROD_ prefix
type JWTConfig struct {
	Secret          string `envconfig:"JWT_SECRET" default:"default_secret"`
	AccessTokenMins int    `envconfig:"ACCESS_TOKEN_MINUTES" default:"60"`
}

// AssemblyConfig holds general assembly policy settings
type AssemblyConfig struct {
	// 0 means unlimited
	MaxProxiesPerReceiver int `envconfig:"ASSEMBLY_MAX_PROXIES_PER_RECEIVER" default:"1"`
}

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.SLog.Debug(".env file not found, using environment variables")
	}
	return Process()
}

// Process fills a Config from the current environment
func Process() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Trim spaces for Windows-edited .env files
	cfg.AppMode = strings.TrimSpace(cfg.AppMode)
	if cfg.AppMode != "dev" && cfg.AppMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", cfg.AppMode)
	}

	prefix := cfg.modePrefix()
	if err := envconfig.Process(prefix, &cfg.Database); err != nil {
		return nil, fmt.Errorf("read database config: %w", err)
	}
	if err := envconfig.Process(prefix, &cfg.JWT); err != nil {
		return nil, fmt.Errorf("read jwt config: %w", err)
	}
	if err := envconfig.Process("", &cfg.Assembly); err != nil {
		return nil, fmt.Errorf("read assembly config: %w", err)
	}

	switch cfg.Database.Driver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("invalid %s_DB_DRIVER: '%s' (must be mysql, postgres or sqlite)", prefix, cfg.Database.Driver)
	}
	if cfg.Assembly.MaxProxiesPerReceiver < 0 {
		return nil, fmt.Errorf("ASSEMBLY_MAX_PROXIES_PER_RECEIVER must not be negative")
	}
	if cfg.IsProd() && cfg.JWT.Secret == "default_secret" {
		return nil, fmt.Errorf("%s_JWT_SECRET must be set in prod mode", prefix)
	}

	logger.SLog.Infow("configuration loaded", "mode", cfg.AppMode, "db_driver", cfg.Database.Driver)
	return cfg, nil
}

func (c *Config) modePrefix() string {
	if c.IsProd() {
		return "PROD"
	}
	return "DEV"
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	if c.AllowedOrigins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://stk.kamulog.net"
	}
	return c.AllowedOrigins
}
