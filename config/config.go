package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"courtline/database"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Redis configuration (proposition hit-rate cache)
	RedisAddr    string
	PropCacheTTL time.Duration

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated)

	// Stat provider configuration
	StatsBaseURL       string
	StatsRateLimit     float64 // requests per second against the provider
	StatsBurst         int
	StatsCallTimeout   time.Duration

	// Settlement configuration
	SettlementInterval      time.Duration // how often the settlement pass runs
	SettlementConcurrency   int           // wagers settled in parallel
	SettlementLookbackDays  int           // pending wagers older than this are not retried
	SettlementPassBudget    time.Duration // wall-clock budget for one pass
	LegTimeout              time.Duration // per-leg gateway lookup timeout
	AmbiguousMatchPolicy    string        // "first" or "skip"

	// OpenTelemetry configuration
	OTelEnabled      bool
	OTelServiceName  string
	OTelExporterType string // "console" or "otlp"
	OTelEndpoint     string

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			// In test environment, use a default test config instead of panicking
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Database
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		// Redis
		RedisAddr:    getEnvWithDefault("REDIS_ADDR", "localhost:6379"),
		PropCacheTTL: getEnvDuration("PROP_CACHE_TTL", 0), // 0 = no expiry

		// NATS
		NATSServers: getEnvWithDefault("NATS_SERVERS", "nats://nats:4222"),

		// Stat provider
		StatsBaseURL:     os.Getenv("STATS_BASE_URL"),
		StatsRateLimit:   getEnvFloat("STATS_RATE_LIMIT", 2.0),
		StatsBurst:       getEnvInt("STATS_BURST", 1),
		StatsCallTimeout: getEnvDuration("STATS_CALL_TIMEOUT", 15*time.Second),

		// Settlement
		SettlementInterval:     getEnvDuration("SETTLEMENT_INTERVAL", 5*time.Minute),
		SettlementConcurrency:  getEnvInt("SETTLEMENT_CONCURRENCY", 5),
		SettlementLookbackDays: getEnvInt("SETTLEMENT_LOOKBACK_DAYS", 7),
		SettlementPassBudget:   getEnvDuration("SETTLEMENT_PASS_BUDGET", 4*time.Minute),
		LegTimeout:             getEnvDuration("LEG_TIMEOUT", 20*time.Second),
		AmbiguousMatchPolicy:   getEnvWithDefault("AMBIGUOUS_MATCH_POLICY", "first"),

		// OpenTelemetry
		OTelEnabled:      os.Getenv("OTEL_ENABLED") == "true",
		OTelServiceName:  getEnvWithDefault("OTEL_SERVICE_NAME", "courtline"),
		OTelExporterType: getEnvWithDefault("OTEL_EXPORTER_TYPE", "console"),
		OTelEndpoint:     getEnvWithDefault("OTEL_ENDPOINT", "localhost:4317"),

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.StatsBaseURL == "" {
			return nil, fmt.Errorf("STATS_BASE_URL is required")
		}
		// If DatabaseName is provided, ensure it's not empty
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:            "test",
		SettlementConcurrency:  2,
		SettlementLookbackDays: 7,
		SettlementPassBudget:   time.Minute,
		LegTimeout:             5 * time.Second,
		AmbiguousMatchPolicy:   "first",
		StatsRateLimit:         100,
		StatsBurst:             10,
		StatsCallTimeout:       time.Second,
	}
}
