package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"
)

// Config holds the configuration for a Lumee agent
type Config struct {
	// MQTT configuration
	MQTTBroker   string
	MQTTPort     int
	MQTTUser     string
	MQTTPassword string
	MQTTClientID string

	// Redis configuration
	RedisHost     string
	RedisPort     int
	RedisPassword string
	RedisDB       int

	// Postgres configuration (profile store)
	PostgresHost               string
	PostgresPort               int
	PostgresUser               string
	PostgresPassword           string
	PostgresDB                 string
	PostgresSSLMode            string
	PostgresMaxConnections     int
	PostgresMaxIdleConnections int
	PostgresConnMaxLifetime    time.Duration

	// Service configuration
	ServiceName string
	HealthPort  int
	LogLevel    string

	// Weather provider configuration
	OpenWeatherAPIKey  string
	PollenAPIKey       string
	ProviderTimeoutSec int

	// Signal agent configuration
	Latitude         float64
	Longitude        float64
	FetchIntervalSec int
	MaxSignalHistory int
	DevicesFile      string
	NightDimming     bool

	// LLM configuration (schedule location extraction)
	LLMEndpoint string
	LLMModel    string
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		MQTTBroker:   "localhost",
		MQTTPort:     1883,
		MQTTUser:     "",
		MQTTPassword: "",
		MQTTClientID: "",

		RedisHost:     "localhost",
		RedisPort:     6379,
		RedisPassword: "",
		RedisDB:       0,

		PostgresHost:               "localhost",
		PostgresPort:               5432,
		PostgresUser:               "lumee",
		PostgresPassword:           "",
		PostgresDB:                 "lumee",
		PostgresSSLMode:            "disable",
		PostgresMaxConnections:     10,
		PostgresMaxIdleConnections: 5,
		PostgresConnMaxLifetime:    30 * time.Minute,

		ServiceName: "lumee-agent",
		HealthPort:  8080,
		LogLevel:    "info",

		OpenWeatherAPIKey:  "",
		PollenAPIKey:       "",
		ProviderTimeoutSec: 10,

		// Signal agent defaults (Seoul coordinates)
		Latitude:         37.5665,
		Longitude:        126.9780,
		FetchIntervalSec: 600,
		MaxSignalHistory: 100,
		DevicesFile:      "",
		NightDimming:     true,

		LLMEndpoint: "http://localhost:11434",
		LLMModel:    "llama3.2:3b",
	}
}

// LoadFromEnv loads configuration from environment variables with LUMEE_ prefix
func (c *Config) LoadFromEnv() {
	// MQTT configuration
	if v := os.Getenv("LUMEE_MQTT_BROKER"); v != "" {
		c.MQTTBroker = v
	}
	if v := os.Getenv("LUMEE_MQTT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.MQTTPort = port
		}
	}
	if v := os.Getenv("LUMEE_MQTT_USER"); v != "" {
		c.MQTTUser = v
	}
	if v := os.Getenv("LUMEE_MQTT_PASSWORD"); v != "" {
		c.MQTTPassword = v
	}
	if v := os.Getenv("LUMEE_MQTT_CLIENT_ID"); v != "" {
		c.MQTTClientID = v
	}

	// Redis configuration
	if v := os.Getenv("LUMEE_REDIS_HOST"); v != "" {
		c.RedisHost = v
	}
	if v := os.Getenv("LUMEE_REDIS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.RedisPort = port
		}
	}
	if v := os.Getenv("LUMEE_REDIS_PASSWORD"); v != "" {
		c.RedisPassword = v
	}
	if v := os.Getenv("LUMEE_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.RedisDB = db
		}
	}

	// Postgres configuration
	if v := os.Getenv("LUMEE_POSTGRES_HOST"); v != "" {
		c.PostgresHost = v
	}
	if v := os.Getenv("LUMEE_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.PostgresPort = port
		}
	}
	if v := os.Getenv("LUMEE_POSTGRES_USER"); v != "" {
		c.PostgresUser = v
	}
	if v := os.Getenv("LUMEE_POSTGRES_PASSWORD"); v != "" {
		c.PostgresPassword = v
	}
	if v := os.Getenv("LUMEE_POSTGRES_DB"); v != "" {
		c.PostgresDB = v
	}
	if v := os.Getenv("LUMEE_POSTGRES_SSL_MODE"); v != "" {
		c.PostgresSSLMode = v
	}

	// Service configuration
	if v := os.Getenv("LUMEE_SERVICE_NAME"); v != "" {
		c.ServiceName = v
	}
	if v := os.Getenv("LUMEE_HEALTH_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.HealthPort = port
		}
	}
	if v := os.Getenv("LUMEE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}

	// Weather provider configuration
	if v := os.Getenv("LUMEE_OPENWEATHER_API_KEY"); v != "" {
		c.OpenWeatherAPIKey = v
	}
	if v := os.Getenv("LUMEE_POLLEN_API_KEY"); v != "" {
		c.PollenAPIKey = v
	}
	if v := os.Getenv("LUMEE_PROVIDER_TIMEOUT_SEC"); v != "" {
		if timeout, err := strconv.Atoi(v); err == nil {
			c.ProviderTimeoutSec = timeout
		}
	}

	// Signal agent configuration
	if v := os.Getenv("LUMEE_LATITUDE"); v != "" {
		if lat, err := strconv.ParseFloat(v, 64); err == nil {
			c.Latitude = lat
		}
	}
	if v := os.Getenv("LUMEE_LONGITUDE"); v != "" {
		if lon, err := strconv.ParseFloat(v, 64); err == nil {
			c.Longitude = lon
		}
	}
	if v := os.Getenv("LUMEE_FETCH_INTERVAL_SEC"); v != "" {
		if interval, err := strconv.Atoi(v); err == nil {
			c.FetchIntervalSec = interval
		}
	}
	if v := os.Getenv("LUMEE_MAX_SIGNAL_HISTORY"); v != "" {
		if max, err := strconv.Atoi(v); err == nil {
			c.MaxSignalHistory = max
		}
	}
	if v := os.Getenv("LUMEE_DEVICES_FILE"); v != "" {
		c.DevicesFile = v
	}
	if v := os.Getenv("LUMEE_NIGHT_DIMMING"); v != "" {
		if enable, err := strconv.ParseBool(v); err == nil {
			c.NightDimming = enable
		}
	}

	// LLM configuration
	if v := os.Getenv("LUMEE_LLM_ENDPOINT"); v != "" {
		c.LLMEndpoint = v
	}
	if v := os.Getenv("LUMEE_LLM_MODEL"); v != "" {
		c.LLMModel = v
	}
}

// LoadFromFlags parses command-line flags and overrides config values
func (c *Config) LoadFromFlags() {
	// MQTT flags
	pflag.StringVar(&c.MQTTBroker, "mqtt-broker", c.MQTTBroker, "MQTT broker hostname")
	pflag.IntVar(&c.MQTTPort, "mqtt-port", c.MQTTPort, "MQTT broker port")
	pflag.StringVar(&c.MQTTUser, "mqtt-user", c.MQTTUser, "MQTT username")
	pflag.StringVar(&c.MQTTPassword, "mqtt-password", c.MQTTPassword, "MQTT password")
	pflag.StringVar(&c.MQTTClientID, "mqtt-client-id", c.MQTTClientID, "MQTT client ID")

	// Redis flags
	pflag.StringVar(&c.RedisHost, "redis-host", c.RedisHost, "Redis hostname")
	pflag.IntVar(&c.RedisPort, "redis-port", c.RedisPort, "Redis port")
	pflag.StringVar(&c.RedisPassword, "redis-password", c.RedisPassword, "Redis password")
	pflag.IntVar(&c.RedisDB, "redis-db", c.RedisDB, "Redis database number")

	// Postgres flags
	pflag.StringVar(&c.PostgresHost, "postgres-host", c.PostgresHost, "Postgres hostname")
	pflag.IntVar(&c.PostgresPort, "postgres-port", c.PostgresPort, "Postgres port")
	pflag.StringVar(&c.PostgresUser, "postgres-user", c.PostgresUser, "Postgres username")
	pflag.StringVar(&c.PostgresPassword, "postgres-password", c.PostgresPassword, "Postgres password")
	pflag.StringVar(&c.PostgresDB, "postgres-db", c.PostgresDB, "Postgres database name")
	pflag.StringVar(&c.PostgresSSLMode, "postgres-ssl-mode", c.PostgresSSLMode, "Postgres SSL mode")

	// Service flags
	pflag.StringVar(&c.ServiceName, "service-name", c.ServiceName, "Service name")
	pflag.IntVar(&c.HealthPort, "health-port", c.HealthPort, "Health check HTTP port")
	pflag.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level (debug, info, warn, error)")

	// Weather provider flags
	pflag.StringVar(&c.OpenWeatherAPIKey, "openweather-api-key", c.OpenWeatherAPIKey, "OpenWeather API key")
	pflag.StringVar(&c.PollenAPIKey, "pollen-api-key", c.PollenAPIKey, "Google Pollen API key")
	pflag.IntVar(&c.ProviderTimeoutSec, "provider-timeout", c.ProviderTimeoutSec, "Weather provider HTTP timeout in seconds")

	// Signal agent flags
	pflag.Float64Var(&c.Latitude, "latitude", c.Latitude, "Geographic latitude for forecasts and daylight calculation")
	pflag.Float64Var(&c.Longitude, "longitude", c.Longitude, "Geographic longitude for forecasts and daylight calculation")
	pflag.IntVar(&c.FetchIntervalSec, "fetch-interval", c.FetchIntervalSec, "Environmental fetch interval in seconds")
	pflag.IntVar(&c.MaxSignalHistory, "max-signal-history", c.MaxSignalHistory, "Maximum signal history entries kept in Redis")
	pflag.StringVar(&c.DevicesFile, "devices-file", c.DevicesFile, "Path to indicator device registry YAML")
	pflag.BoolVar(&c.NightDimming, "night-dimming", c.NightDimming, "Dim indicator brightness after sunset")

	// LLM flags
	pflag.StringVar(&c.LLMEndpoint, "llm-endpoint", c.LLMEndpoint, "LLM API endpoint URL")
	pflag.StringVar(&c.LLMModel, "llm-model", c.LLMModel, "LLM model name")

	pflag.Parse()
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT broker is required")
	}
	if c.MQTTPort <= 0 || c.MQTTPort > 65535 {
		return fmt.Errorf("MQTT port must be between 1 and 65535")
	}
	if c.RedisHost == "" {
		return fmt.Errorf("Redis host is required")
	}
	if c.RedisPort <= 0 || c.RedisPort > 65535 {
		return fmt.Errorf("Redis port must be between 1 and 65535")
	}
	if c.HealthPort <= 0 || c.HealthPort > 65535 {
		return fmt.Errorf("Health port must be between 1 and 65535")
	}
	if c.ServiceName == "" {
		return fmt.Errorf("Service name is required")
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude must be between -180 and 180")
	}
	if c.FetchIntervalSec <= 0 {
		return fmt.Errorf("fetch interval must be positive")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// MQTTAddress returns the full MQTT broker address
func (c *Config) MQTTAddress() string {
	return fmt.Sprintf("tcp://%s:%d", c.MQTTBroker, c.MQTTPort)
}

// RedisAddress returns the full Redis address
func (c *Config) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// PostgresConnectionString returns the lib/pq connection string
func (c *Config) PostgresConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword,
		c.PostgresDB, c.PostgresSSLMode)
}
