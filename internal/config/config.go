package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/feral-file/ff-emoji-insights/internal/domain"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	Table           string        `mapstructure:"table"`              // Table holding emoji metadata and event items
	MaxOpenConns    int           `mapstructure:"max_open_conns"`     // Maximum number of open connections to the database
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`     // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // Maximum amount of time a connection may be reused (e.g., "5m", "1h")
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // Maximum amount of time a connection may be idle (e.g., "10m", "30m")
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string   `mapstructure:"jwt_public_key"`
	JWTAudience  string   `mapstructure:"jwt_audience"` // Audience bearer tokens must be issued for
	APIKeys      []string `mapstructure:"api_keys"`
}

// CacheConfig holds the lifetimes of cached store reads
type CacheConfig struct {
	EntityScanTTL    time.Duration `mapstructure:"entity_scan_ttl"`    // Full table scan
	KnownEntitiesTTL time.Duration `mapstructure:"known_entities_ttl"` // List of known emoji keys
	MemberTTL        time.Duration `mapstructure:"member_ttl"`         // Per-member aggregates
}

// DashboardConfig holds dashboard presentation configuration
type DashboardConfig struct {
	Timezones              []string `mapstructure:"timezones"`
	MembersPath            string   `mapstructure:"members_path"`
	MemberQueryConcurrency int      `mapstructure:"member_query_concurrency"`
	RefreshRatePerMinute   int      `mapstructure:"refresh_rate_per_minute"`
	RefreshBurst           int      `mapstructure:"refresh_burst"`
}

// StoreConfig holds retry and circuit breaker settings for store reads
type StoreConfig struct {
	RetryMaxAttempts     uint64        `mapstructure:"retry_max_attempts"`
	RetryInitialInterval time.Duration `mapstructure:"retry_initial_interval"`
	RetryMaxInterval     time.Duration `mapstructure:"retry_max_interval"`
	BreakerMaxFailures   uint32        `mapstructure:"breaker_max_failures"`
	BreakerTimeout       time.Duration `mapstructure:"breaker_timeout"`
}

// APIConfig holds configuration for API server
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig    `mapstructure:"server"`
	Database   DatabaseConfig  `mapstructure:"database"`
	Auth       AuthConfig      `mapstructure:"auth"`
	Cache      CacheConfig     `mapstructure:"cache"`
	Dashboard  DashboardConfig `mapstructure:"dashboard"`
	Store      StoreConfig     `mapstructure:"store"`
}

// LoadAPIConfig loads configuration for API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	// Set defaults
	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.table", "emoji_events")
	v.SetDefault("auth.jwt_audience", "emoji-dashboard")
	v.SetDefault("cache.entity_scan_ttl", "300s")
	v.SetDefault("cache.known_entities_ttl", "1000s")
	v.SetDefault("cache.member_ttl", "30m")
	v.SetDefault("dashboard.timezones", []string{string(domain.TimezoneUSEastern), string(domain.TimezoneUSPacific)})
	v.SetDefault("dashboard.members_path", "config/members.json")
	v.SetDefault("dashboard.member_query_concurrency", 4)
	v.SetDefault("dashboard.refresh_rate_per_minute", 6)
	v.SetDefault("dashboard.refresh_burst", 1)
	v.SetDefault("store.retry_max_attempts", 3)
	v.SetDefault("store.retry_initial_interval", "200ms")
	v.SetDefault("store.retry_max_interval", "2s")
	v.SetDefault("store.breaker_max_failures", 5)
	v.SetDefault("store.breaker_timeout", "30s")

	if err := v.ReadInConfig(); err != nil {
		var error viper.ConfigFileNotFoundError
		if errors.As(err, &error) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// Validate reports the settings the service cannot start without
func (c *APIConfig) Validate() error {
	var missing []string
	if c.Database.Host == "" {
		missing = append(missing, "database.host")
	}
	if c.Database.User == "" {
		missing = append(missing, "database.user")
	}
	if c.Database.Password == "" {
		missing = append(missing, "database.password")
	}
	if c.Database.DBName == "" {
		missing = append(missing, "database.dbname")
	}
	if c.Database.Table == "" {
		missing = append(missing, "database.table")
	}
	if len(c.Dashboard.ZoneList()) == 0 {
		missing = append(missing, "dashboard.timezones")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ZoneList returns the configured zones as domain values
func (c *DashboardConfig) ZoneList() []domain.Timezone {
	zones := make([]domain.Timezone, 0, len(c.Timezones))
	for _, tz := range c.Timezones {
		tz = strings.TrimSpace(tz)
		if tz != "" {
			zones = append(zones, domain.Timezone(tz))
		}
	}
	return zones
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/api/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("EMOJI_DASHBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.table",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		// Auth
		"auth.jwt_public_key",
		"auth.jwt_audience",
		"auth.api_keys",
		// Cache
		"cache.entity_scan_ttl",
		"cache.known_entities_ttl",
		"cache.member_ttl",
		// Dashboard
		"dashboard.timezones",
		"dashboard.members_path",
		"dashboard.member_query_concurrency",
		"dashboard.refresh_rate_per_minute",
		"dashboard.refresh_burst",
		// Store resilience
		"store.retry_max_attempts",
		"store.retry_initial_interval",
		"store.retry_max_interval",
		"store.breaker_max_failures",
		"store.breaker_timeout",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	// Default to config directory
	if envPath == "" {
		envPath = "config/"
	}

	// Create candidates list
	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
