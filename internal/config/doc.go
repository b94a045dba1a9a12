// Package config provides centralized configuration management for the
// TW Pulse service. It handles loading configuration from multiple sources,
// validation, and provides a type-safe API for accessing configuration
// values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration files (YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern TWPULSE_* for namespacing:
//
//	TWPULSE_SERVER_PORT=8080
//	TWPULSE_SOURCES_QUOTE_URL=https://...
//	TWPULSE_REDIS_ADDR=localhost:6379
//	TWPULSE_LOGGING_LEVEL=info
//
// # Validation
//
// All configuration is validated at load time to ensure:
//
//	- Required fields are present
//	- Values are within acceptable ranges
//	- Endpoint and timeout settings are usable
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The package also carries the fixed market constants of the service: the
// canonical ticker universe, the futures product catalog and the target
// broker list.
package config
