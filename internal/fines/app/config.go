package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer         string        // Optional: issuer claim for access tokens (default: finepay)
	TokenTTL       time.Duration // Optional: access token lifetime (default: 1h)
	SigningKeyFile string        // Optional: Ed25519 PEM key, created on first start (default: ./signing.pem)
	DatabaseFile   string        // Optional: path to SQLite database file (default: ./fines.db)
	PepperFile     string        // Optional: path to file containing pepper for password hashing (default: ./pepper)
	FixturesFile   string        // Optional: YAML fixtures replacing the embedded set
	PublicBaseURL  string        // Optional: URL the payment gateway sends payers and notifications back to

	PayFastMerchantID  string // Optional: gateway merchant id; empty accepts notifications for any merchant
	PayFastMerchantKey string
	PayFastSandbox     bool // Optional: use the gateway sandbox (default: true unless ENV=prod)

	RedisURL         string        // Optional: enables the read cache when set
	CacheTTL         time.Duration // Optional: read cache entry lifetime (default: 5m)
	Latency          time.Duration // Optional: artificial delay on data access, for demos (default: 0)
	AnyPassword      bool          // Optional: accept any password at login, for demos (default: false)
	SessionRetention time.Duration // Optional: how long expired payment sessions are kept (default: 24h)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	env := getEnvOrDefault("ENV", "dev")

	cfg := Config{
		Issuer:         getEnvOrDefault("FINES_ISSUER", "finepay"),
		TokenTTL:       getEnvDurationOrDefault("FINES_TOKEN_TTL", time.Hour),
		SigningKeyFile: getEnvOrDefault("FINES_SIGNING_KEY_FILE", "signing.pem"),
		DatabaseFile:   getEnvOrDefault("FINES_DATABASE_FILE", "fines.db"),
		PepperFile:     getEnvOrDefault("FINES_PEPPER_FILE", "pepper"),
		FixturesFile:   os.Getenv("FINES_FIXTURES_FILE"),
		PublicBaseURL:  getEnvOrDefault("FINES_PUBLIC_BASE_URL", "http://localhost:8080"),

		PayFastMerchantID:  os.Getenv("PAYFAST_MERCHANT_ID"),
		PayFastMerchantKey: os.Getenv("PAYFAST_MERCHANT_KEY"),
		PayFastSandbox:     getEnvBoolOrDefault("PAYFAST_SANDBOX", env != "prod"),

		RedisURL:         os.Getenv("REDIS_URL"),
		CacheTTL:         getEnvDurationOrDefault("FINE_CACHE_TTL", 5*time.Minute),
		Latency:          getEnvDurationOrDefault("SIMULATED_LATENCY", 0),
		AnyPassword:      getEnvBoolOrDefault("FINES_ACCEPT_ANY_PASSWORD", false),
		SessionRetention: getEnvDurationOrDefault("PAYMENT_SESSION_RETENTION", 24*time.Hour),

		Env:                  env,
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are milliseconds, matching SIMULATED_LATENCY=800 style values
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}

	return defaultValue
}
