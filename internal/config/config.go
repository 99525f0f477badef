package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the veloroute service.
//
// Values come from, in order of precedence: environment variables (optionally loaded
// from a .env file), the YAML file named by VELO_CONFIG_FILE, and built-in defaults.
type Config struct {
	Env          string         `yaml:"env"`                 // Env is the current environment: local, development, production.
	HTTPPort     int            `yaml:"http_port"`           // HTTPPort is the API server port.
	HealthPort   int            `yaml:"health_port"`         // HealthPort is the monitoring server port.
	LogFile      string         `yaml:"log_file"`            // LogFile enables rotated file logging when set.
	ProviderType string         `yaml:"geocoder.provider"`   // ProviderType selects the geocoding provider (ban, nominatim, google).
	APIKey       string         `yaml:"geocoder.api_key"`    // APIKey is required by the google provider only.
	RateLimit    int            `yaml:"geocoder.rate_limit"` // RateLimit is the BAN requests-per-second budget.
	Gemini       GeminiConfig   `yaml:"gemini"`
	Redis        RedisConfig    `yaml:"redis"`
	Database     PostgresConfig `yaml:"postgres"` // Database holds the postgres database configuration
}

// GeminiConfig configures the description generator. An empty key disables enrichment.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// RedisConfig configures the geocode cache. An empty address disables it.
type RedisConfig struct {
	Addr string        `yaml:"addr"`
	TTL  time.Duration `yaml:"ttl"`
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `yaml:"host"`     // Host is the database server address.
	Port     string `yaml:"port"`     // Port is the database server port.
	User     string `yaml:"user"`     // User is the database user.
	Password string `yaml:"password"` // Password is the database user's password.
	Name     string `yaml:"db_name"`  // Name is the name of the database.
}

var envBindings = map[string]string{
	"env":                 "VELO_ENV",
	"http_port":           "VELO_HTTP_PORT",
	"health_port":         "VELO_HEALTH_PORT",
	"log_file":            "VELO_LOG_FILE",
	"geocoder.provider":   "VELO_GEOCODER_PROVIDER",
	"geocoder.api_key":    "VELO_GEOCODER_KEY",
	"geocoder.rate_limit": "VELO_GEOCODER_RATE_LIMIT",
	"gemini.api_key":      "VELO_GEMINI_API_KEY",
	"gemini.model":        "VELO_GEMINI_MODEL",
	"redis.addr":          "REDIS_ADDR",
	"redis.ttl":           "VELO_CACHE_TTL",
	"postgres.host":       "DB_HOST",
	"postgres.port":       "DB_PORT",
	"postgres.user":       "DB_USERNAME",
	"postgres.password":   "DB_PASSWORD",
	"postgres.db_name":    "DB_NAME",
}

// MustLoad loads the configuration and panics on malformed values.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("env", "production")
	v.SetDefault("http_port", "8000")
	v.SetDefault("health_port", "8080")
	v.SetDefault("geocoder.provider", "ban")
	v.SetDefault("geocoder.rate_limit", "40")
	v.SetDefault("redis.ttl", "168h")
	v.SetDefault("postgres.port", "5432")

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			panic("failed to bind environment variable " + env)
		}
	}

	if path := os.Getenv("VELO_CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			panic("failed to read configuration file")
		}
	}

	httpPort, err := strconv.Atoi(v.GetString("http_port"))
	if err != nil {
		panic("failed to parse port for API server from configuration")
	}

	healthPort, err := strconv.Atoi(v.GetString("health_port"))
	if err != nil {
		panic("failed to parse port for monitoring server from configuration")
	}

	rateLimit, err := strconv.Atoi(v.GetString("geocoder.rate_limit"))
	if err != nil {
		panic("failed to parse geocoder rate limit from configuration, must be an integer types")
	}

	cacheTTL, err := time.ParseDuration(v.GetString("redis.ttl"))
	if err != nil {
		panic("failed to parse cache TTL from configuration")
	}

	return &Config{
		Env:          v.GetString("env"),
		HTTPPort:     httpPort,
		HealthPort:   healthPort,
		LogFile:      v.GetString("log_file"),
		ProviderType: v.GetString("geocoder.provider"),
		APIKey:       v.GetString("geocoder.api_key"),
		RateLimit:    rateLimit,
		Gemini: GeminiConfig{
			APIKey: v.GetString("gemini.api_key"),
			Model:  v.GetString("gemini.model"),
		},
		Redis: RedisConfig{
			Addr: v.GetString("redis.addr"),
			TTL:  cacheTTL,
		},
		Database: PostgresConfig{
			Host:     v.GetString("postgres.host"),
			Port:     v.GetString("postgres.port"),
			User:     v.GetString("postgres.user"),
			Password: v.GetString("postgres.password"),
			Name:     v.GetString("postgres.db_name"),
		},
	}
}
