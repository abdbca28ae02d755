package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port      string
	Env       string
	LogLevel  string
	LogFormat string

	// Vendor catalog
	ServicesDir     string
	ServiceInfoFile string

	// Availability fetch and aggregation
	AvailabilityWindowDays int
	AvailabilityPageSize   int
	AggregatorParallel     bool
	VendorHTTPTimeout      time.Duration
	VendorRateLimitRPS     float64

	// Optional availability cache
	RedisAddr            string
	RedisPassword        string
	RedisTLS             bool
	AvailabilityCacheTTL time.Duration

	// Inbound HTTP surface
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
	// TrustProxyHeaders resolves client IPs from X-Forwarded-For/X-Real-Ip.
	// Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "5000"),
		Env:       getEnv("ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: strings.ToLower(strings.TrimSpace(getEnv("LOG_FORMAT", "json"))),

		ServicesDir:     getEnv("SERVICES_DIR", "services"),
		ServiceInfoFile: getEnv("SERVICE_INFO_FILE", "service_info.yaml"),

		AvailabilityWindowDays: getEnvAsInt("AVAILABILITY_WINDOW_DAYS", 5),
		AvailabilityPageSize:   getEnvAsInt("AVAILABILITY_PAGE_SIZE", 100),
		AggregatorParallel:     getEnvAsBool("AGGREGATOR_PARALLEL", false),
		VendorHTTPTimeout:      getEnvAsDuration("VENDOR_HTTP_TIMEOUT", 0),
		VendorRateLimitRPS:     getEnvAsFloat("VENDOR_RATE_LIMIT_RPS", 0),

		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		RedisTLS:             getEnvAsBool("REDIS_TLS", false),
		AvailabilityCacheTTL: getEnvAsDuration("AVAILABILITY_CACHE_TTL", 0),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		RateLimitRPS:       getEnvAsFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),
		TrustProxyHeaders:  getEnvAsBool("TRUST_PROXY_HEADERS", false),
	}
}

// CacheEnabled reports whether the Redis availability cache should be wired.
func (c *Config) CacheEnabled() bool {
	return strings.TrimSpace(c.RedisAddr) != "" && c.AvailabilityCacheTTL > 0
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping blanks.
func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
