package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Sources  SourcesConfig  `yaml:"sources" envconfig:"SOURCES"`
	Redis    RedisConfig    `yaml:"redis" envconfig:"REDIS"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration for inbound requests
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// SourcesConfig contains the upstream market-data endpoints and outbound
// fetch policy. Every endpoint defaults to the real public URL; tests and
// air-gapped runs override them wholesale.
type SourcesConfig struct {
	QuoteURL      string        `yaml:"quote_url" envconfig:"QUOTE_URL" default:"https://www.twse.com.tw/exchangeReport/STOCK_DAY"`
	ForeignURL    string        `yaml:"foreign_url" envconfig:"FOREIGN_URL" default:"https://www.twse.com.tw/fund/T86"`
	IndexURL      string        `yaml:"index_url" envconfig:"INDEX_URL" default:"https://www.twse.com.tw/exchangeReport/MI_INDEX"`
	BrokerURL     string        `yaml:"broker_url" envconfig:"BROKER_URL" default:"https://fubon-ebrokerdj.fbs.com.tw/z/zg/zgb/zgb0.djhtm?A=9600&B=0&C=1"`
	RankingURL    string        `yaml:"ranking_url" envconfig:"RANKING_URL" default:"https://fubon-ebrokerdj.fbs.com.tw/z/zg/zgk_d.djhtm?A=0&B=1&C=0"`
	FuturesURL    string        `yaml:"futures_url" envconfig:"FUTURES_URL" default:"https://www.taifex.com.tw/cht/3/largeTraderFutQry"`
	FetchTimeout  time.Duration `yaml:"fetch_timeout" envconfig:"FETCH_TIMEOUT" default:"30s"`
	FetchRPS      float64       `yaml:"fetch_rps" envconfig:"FETCH_RPS" default:"2"`
	FetchBurst    int           `yaml:"fetch_burst" envconfig:"FETCH_BURST" default:"4"`
	LookbackDays  int           `yaml:"lookback_days" envconfig:"LOOKBACK_DAYS" default:"20"`
	RefreshPeriod time.Duration `yaml:"refresh_period" envconfig:"REFRESH_PERIOD" default:"15m"`
}

// RedisConfig contains the watchlist store connection settings
type RedisConfig struct {
	Addr     string `yaml:"addr" envconfig:"ADDR" default:"localhost:6379"`
	Password string `yaml:"password" envconfig:"PASSWORD"`
	DB       int    `yaml:"db" envconfig:"DB" default:"0"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	LogsDir string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("TWPULSE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Server.Port == 0 {
		envConfig.Server.Port = fileConfig.Server.Port
	}
	if envConfig.Server.ReadTimeout == 0 {
		envConfig.Server.ReadTimeout = fileConfig.Server.ReadTimeout
	}
	if envConfig.Sources.QuoteURL == "" {
		envConfig.Sources.QuoteURL = fileConfig.Sources.QuoteURL
	}
	if envConfig.Redis.Addr == "" {
		envConfig.Redis.Addr = fileConfig.Redis.Addr
	}

	return envConfig
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	if c.Sources.FetchTimeout <= 0 {
		return fmt.Errorf("source fetch timeout must be positive")
	}

	if c.Sources.FetchRPS <= 0 {
		return fmt.Errorf("source fetch rate must be positive")
	}

	if c.Sources.LookbackDays <= 0 {
		return fmt.Errorf("trading-day lookback must be positive")
	}

	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}

	if c.Logging.Output != "both" && c.Logging.Output != "file" && c.Logging.Output != "console" {
		c.Logging.Output = "both"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/app.log",
		},
		Sources: SourcesConfig{
			QuoteURL:      "https://www.twse.com.tw/exchangeReport/STOCK_DAY",
			ForeignURL:    "https://www.twse.com.tw/fund/T86",
			IndexURL:      "https://www.twse.com.tw/exchangeReport/MI_INDEX",
			BrokerURL:     "https://fubon-ebrokerdj.fbs.com.tw/z/zg/zgb/zgb0.djhtm?A=9600&B=0&C=1",
			RankingURL:    "https://fubon-ebrokerdj.fbs.com.tw/z/zg/zgk_d.djhtm?A=0&B=1&C=0",
			FuturesURL:    "https://www.taifex.com.tw/cht/3/largeTraderFutQry",
			FetchTimeout:  30 * time.Second,
			FetchRPS:      2,
			FetchBurst:    4,
			LookbackDays:  20,
			RefreshPeriod: 15 * time.Minute,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Paths: PathsConfig{
			DataDir: "data",
			LogsDir: "logs",
		},
	}
}
