package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-emoji-insights/internal/domain"
)

func TestLoadAPIConfig(t *testing.T) {
	tests := []struct {
		name        string
		configFile  string
		expectError bool
		validate    func(*testing.T, *APIConfig)
	}{
		{
			name: "valid config file",
			configFile: `
debug: true
sentry_dsn: "https://sentry.example.com"
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: 20
  write_timeout: 20
  idle_timeout: 180
database:
  host: localhost
  port: 5432
  user: testuser
  password: testpass
  dbname: testdb
  table: reactions
  max_open_conns: 20
  conn_max_lifetime: "1h"
auth:
  jwt_public_key: "test-public-key"
  jwt_audience: "insights"
  api_keys:
    - "key1"
    - "key2"
cache:
  entity_scan_ttl: "1m"
  known_entities_ttl: "10m"
  member_ttl: "1h"
dashboard:
  timezones:
    - "US/Eastern"
    - "US/Central"
  members_path: "/etc/dashboard/members.json"
  member_query_concurrency: 8
  refresh_rate_per_minute: 2
  refresh_burst: 3
store:
  retry_max_attempts: 5
  retry_initial_interval: "100ms"
  retry_max_interval: "1s"
  breaker_max_failures: 10
  breaker_timeout: "1m"
`,
			expectError: false,
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.True(t, cfg.Debug)
				assert.Equal(t, "https://sentry.example.com", cfg.SentryDSN)
				assert.Equal(t, "127.0.0.1", cfg.Server.Host)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 20, cfg.Server.ReadTimeout)
				assert.Equal(t, 180, cfg.Server.IdleTimeout)
				assert.Equal(t, "reactions", cfg.Database.Table)
				assert.Equal(t, 20, cfg.Database.MaxOpenConns)
				assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
				assert.Equal(t, "test-public-key", cfg.Auth.JWTPublicKey)
				assert.Equal(t, "insights", cfg.Auth.JWTAudience)
				assert.Equal(t, []string{"key1", "key2"}, cfg.Auth.APIKeys)
				assert.Equal(t, time.Minute, cfg.Cache.EntityScanTTL)
				assert.Equal(t, 10*time.Minute, cfg.Cache.KnownEntitiesTTL)
				assert.Equal(t, time.Hour, cfg.Cache.MemberTTL)
				assert.Equal(t, []string{"US/Eastern", "US/Central"}, cfg.Dashboard.Timezones)
				assert.Equal(t, "/etc/dashboard/members.json", cfg.Dashboard.MembersPath)
				assert.Equal(t, 8, cfg.Dashboard.MemberQueryConcurrency)
				assert.Equal(t, 2, cfg.Dashboard.RefreshRatePerMinute)
				assert.Equal(t, 3, cfg.Dashboard.RefreshBurst)
				assert.Equal(t, uint64(5), cfg.Store.RetryMaxAttempts)
				assert.Equal(t, 100*time.Millisecond, cfg.Store.RetryInitialInterval)
				assert.Equal(t, time.Second, cfg.Store.RetryMaxInterval)
				assert.Equal(t, uint32(10), cfg.Store.BreakerMaxFailures)
				assert.Equal(t, time.Minute, cfg.Store.BreakerTimeout)
				assert.NoError(t, cfg.Validate())
			},
		},
		{
			name:        "missing config file - should work with env vars",
			configFile:  "",
			expectError: false, // API config allows missing config file
			validate: func(t *testing.T, cfg *APIConfig) {
				// Should use defaults
				assert.NotNil(t, cfg)
				assert.False(t, cfg.Debug)                  // default
				assert.Equal(t, "0.0.0.0", cfg.Server.Host) // default
				assert.Equal(t, 8080, cfg.Server.Port)      // default
				assert.Equal(t, "emoji_events", cfg.Database.Table)
			},
		},
		{
			name: "config with defaults",
			configFile: `
database:
  host: localhost
  user: testuser
  password: testpass
  dbname: testdb
`,
			expectError: false,
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.False(t, cfg.Debug)                   // default
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)  // default
				assert.Equal(t, 8080, cfg.Server.Port)       // default
				assert.Equal(t, 10, cfg.Server.ReadTimeout)  // default
				assert.Equal(t, 5432, cfg.Database.Port)     // default
				assert.Equal(t, "disable", cfg.Database.SSLMode)
				assert.Equal(t, "emoji-dashboard", cfg.Auth.JWTAudience)
				assert.Equal(t, 300*time.Second, cfg.Cache.EntityScanTTL)
				assert.Equal(t, 1000*time.Second, cfg.Cache.KnownEntitiesTTL)
				assert.Equal(t, 30*time.Minute, cfg.Cache.MemberTTL)
				assert.Equal(t, []domain.Timezone{domain.TimezoneUSEastern, domain.TimezoneUSPacific}, cfg.Dashboard.ZoneList())
				assert.Equal(t, "config/members.json", cfg.Dashboard.MembersPath)
				assert.Equal(t, 4, cfg.Dashboard.MemberQueryConcurrency)
				assert.Equal(t, uint64(3), cfg.Store.RetryMaxAttempts)
				assert.Equal(t, 30*time.Second, cfg.Store.BreakerTimeout)
				assert.NoError(t, cfg.Validate())
			},
		},
		{
			name:        "malformed yaml",
			configFile:  "database: [unclosed",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var configFile string

			if tt.configFile != "" {
				tmpDir := t.TempDir()
				configFile = filepath.Join(tmpDir, "config.yaml")
				err := os.WriteFile(configFile, []byte(tt.configFile), 0600)
				require.NoError(t, err)
			} else {
				// For missing config file, use empty string to let viper search in config/ directory
				configFile = ""
			}

			cfg, err := LoadAPIConfig(configFile, "")

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)
				tt.validate(t, cfg)
			}
		})
	}
}

func TestAPIConfig_Validate(t *testing.T) {
	valid := func() APIConfig {
		return APIConfig{
			Database: DatabaseConfig{
				Host:     "localhost",
				User:     "user",
				Password: "pass",
				DBName:   "db",
				Table:    "emoji_events",
			},
			Dashboard: DashboardConfig{Timezones: []string{"US/Eastern"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*APIConfig)
		missing []string
	}{
		{name: "complete", mutate: func(c *APIConfig) {}},
		{name: "missing host", mutate: func(c *APIConfig) { c.Database.Host = "" }, missing: []string{"database.host"}},
		{name: "missing table", mutate: func(c *APIConfig) { c.Database.Table = "" }, missing: []string{"database.table"}},
		{
			name:    "missing credentials",
			mutate:  func(c *APIConfig) { c.Database.User = ""; c.Database.Password = "" },
			missing: []string{"database.user", "database.password"},
		},
		{name: "no timezones", mutate: func(c *APIConfig) { c.Dashboard.Timezones = nil }, missing: []string{"dashboard.timezones"}},
		{name: "blank timezones", mutate: func(c *APIConfig) { c.Dashboard.Timezones = []string{" ", ""} }, missing: []string{"dashboard.timezones"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if len(tt.missing) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, "missing required configuration: "+strings.Join(tt.missing, ", "), err.Error())
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	tests := []struct {
		name     string
		config   DatabaseConfig
		expected string
	}{
		{
			name: "complete config",
			config: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "testuser",
				Password: "testpass",
				DBName:   "testdb",
				SSLMode:  "require",
			},
			expected: "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=require",
		},
		{
			name: "with special characters in password",
			config: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "testuser",
				Password: "p@ssw0rd!",
				DBName:   "testdb",
				SSLMode:  "disable",
			},
			expected: "host=localhost port=5432 user=testuser password=p@ssw0rd! dbname=testdb sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn := tt.config.DSN()
			assert.Equal(t, tt.expected, dsn)
		})
	}
}

func TestConfigWithEnvironmentVariables(t *testing.T) {
	tmpDir := t.TempDir()

	// Create temporary directory for env files
	envDir := filepath.Join(tmpDir, "env")
	err := os.MkdirAll(envDir, 0750)
	require.NoError(t, err)

	// Viper uses the EMOJI_DASHBOARD_ prefix, so env vars need the prefix
	envFile := filepath.Join(envDir, ".env")
	envContent := `EMOJI_DASHBOARD_DEBUG=true
EMOJI_DASHBOARD_DATABASE_HOST=env-host
EMOJI_DASHBOARD_DATABASE_PORT=6543
EMOJI_DASHBOARD_DATABASE_USER=env-user
EMOJI_DASHBOARD_DATABASE_PASSWORD=env-pass
EMOJI_DASHBOARD_DATABASE_DBNAME=env-db
EMOJI_DASHBOARD_DATABASE_TABLE=env_table
EMOJI_DASHBOARD_CACHE_MEMBER_TTL=45m
`
	err = os.WriteFile(envFile, []byte(envContent), 0600)
	require.NoError(t, err)

	// .env.local overrides .env
	err = os.WriteFile(filepath.Join(envDir, ".env.local"), []byte("EMOJI_DASHBOARD_DATABASE_DBNAME=local-db\n"), 0600)
	require.NoError(t, err)

	t.Cleanup(func() {
		for _, line := range strings.Split(envContent, "\n") {
			if key, _, ok := strings.Cut(line, "="); ok {
				_ = os.Unsetenv(key)
			}
		}
	})

	// Create config file with different values to verify env vars override
	configPath := filepath.Join(tmpDir, "config.yaml")
	configFile := `
debug: false
database:
  host: file-host
  port: 5432
  user: file-user
  password: file-pass
  dbname: file-db
`

	err = os.WriteFile(configPath, []byte(configFile), 0600)
	require.NoError(t, err)

	cfg, err := LoadAPIConfig(configPath, envDir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.True(t, cfg.Debug)
	assert.Equal(t, "env-host", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "env-user", cfg.Database.User)
	assert.Equal(t, "env-pass", cfg.Database.Password)
	assert.Equal(t, "local-db", cfg.Database.DBName)
	assert.Equal(t, "env_table", cfg.Database.Table)
	assert.Equal(t, 45*time.Minute, cfg.Cache.MemberTTL)
}
