package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	envVars := []string{
		"TWPULSE_SERVER_PORT", "TWPULSE_SERVER_READ_TIMEOUT", "TWPULSE_SERVER_WRITE_TIMEOUT",
		"TWPULSE_SECURITY_ALLOWED_ORIGINS", "TWPULSE_SECURITY_ENABLE_CORS",
		"TWPULSE_LOGGING_LEVEL", "TWPULSE_LOGGING_FORMAT", "TWPULSE_LOGGING_OUTPUT",
		"TWPULSE_SOURCES_QUOTE_URL", "TWPULSE_SOURCES_FETCH_RPS", "TWPULSE_SOURCES_LOOKBACK_DAYS",
		"TWPULSE_REDIS_ADDR", "TWPULSE_PATHS_DATA_DIR",
	}

	// Save original values and restore after
	originalEnv := make(map[string]string)
	for _, envVar := range envVars {
		originalEnv[envVar] = os.Getenv(envVar)
	}
	defer func() {
		for _, envVar := range envVars {
			if val, exists := originalEnv[envVar]; exists && val != "" {
				os.Setenv(envVar, val)
			} else {
				os.Unsetenv(envVar)
			}
		}
	}()

	tests := []struct {
		name        string
		setupEnv    func()
		wantErr     bool
		errContains string
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "default configuration with no env vars",
			setupEnv: func() {
				for _, envVar := range envVars {
					os.Unsetenv(envVar)
				}
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)

				assert.Equal(t, []string{"http://localhost:8080"}, cfg.Security.AllowedOrigins)
				assert.True(t, cfg.Security.EnableCORS)
				assert.True(t, cfg.Security.RateLimit.Enabled)
				assert.Equal(t, 100.0, cfg.Security.RateLimit.RPS)

				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "both", cfg.Logging.Output)

				assert.Contains(t, cfg.Sources.QuoteURL, "STOCK_DAY")
				assert.Contains(t, cfg.Sources.ForeignURL, "T86")
				assert.Equal(t, 2.0, cfg.Sources.FetchRPS)
				assert.Equal(t, 20, cfg.Sources.LookbackDays)
				assert.Equal(t, 15*time.Minute, cfg.Sources.RefreshPeriod)

				assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
				assert.Equal(t, "data", cfg.Paths.DataDir)
			},
		},
		{
			name: "custom environment variables",
			setupEnv: func() {
				for _, envVar := range envVars {
					os.Unsetenv(envVar)
				}
				os.Setenv("TWPULSE_SERVER_PORT", "9090")
				os.Setenv("TWPULSE_SOURCES_QUOTE_URL", "http://localhost:19000/quote")
				os.Setenv("TWPULSE_SOURCES_FETCH_RPS", "5")
				os.Setenv("TWPULSE_REDIS_ADDR", "redis:6380")
				os.Setenv("TWPULSE_LOGGING_LEVEL", "debug")
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, "http://localhost:19000/quote", cfg.Sources.QuoteURL)
				assert.Equal(t, 5.0, cfg.Sources.FetchRPS)
				assert.Equal(t, "redis:6380", cfg.Redis.Addr)
				assert.Equal(t, "debug", cfg.Logging.Level)
			},
		},
		{
			name: "invalid port rejected",
			setupEnv: func() {
				for _, envVar := range envVars {
					os.Unsetenv(envVar)
				}
				os.Setenv("TWPULSE_SERVER_PORT", "70000")
			},
			wantErr:     true,
			errContains: "invalid server port",
		},
		{
			name: "non-json log format coerced to json",
			setupEnv: func() {
				for _, envVar := range envVars {
					os.Unsetenv(envVar)
				}
				os.Setenv("TWPULSE_LOGGING_FORMAT", "text")
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "json", cfg.Logging.Format)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupEnv()

			cfg, err := Load()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NotNil(t, cfg)
	assert.NoError(t, cfg.validate())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 20, cfg.Sources.LookbackDays)
}

func TestFixedUniverseConstants(t *testing.T) {
	require.Len(t, FixedTickers, 4)
	for _, ticker := range FixedTickers {
		assert.True(t, ticker.Valid(), "fixed ticker %s must be well formed", ticker)
		_, listed := FuturesProducts[ticker]
		assert.True(t, listed, "fixed ticker %s should map to a futures product", ticker)
	}
	assert.Len(t, BrokerTargets, 6)
}
