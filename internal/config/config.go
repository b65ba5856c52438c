package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the store locator service.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - HTTPPort: The port of the public and admin API.
// - Port: The port for the monitoring server.
// - Geocoder: Provider chain settings.
// - Workers: The number of concurrent workers used by revalidation.
// - AdminPassword: The shared password of the admin screen.
// - PostalBaseURL: The postal code lookup endpoint.
// - Database: Configuration settings for the PostgreSQL database.
type Config struct {
	Env           string
	HTTPPort      int
	Port          int
	Geocoder      GeocoderConfig
	Workers       int
	AdminPassword string
	PostalBaseURL string
	Database      PostgresConfig
}

// GeocoderConfig selects and tunes the providers of the geocoding chain.
type GeocoderConfig struct {
	Primary   string        // Primary provider type (gsi by default)
	Secondary string        // Secondary provider type, "none" disables it
	APIKey    string        // API key for providers that need one (google)
	UserAgent string        // Client identifier for public services
	Timeout   time.Duration // Per-call timeout
	RateLimit int           // Requests per second for the primary provider
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
}

// MustLoad reads a local .env file, an optional YAML file named by PINPOINT_CONFIG and the
// environment, in increasing order of precedence. It panics on unusable values.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := newViper()

	if path := os.Getenv("PINPOINT_CONFIG"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			panic("failed to read configuration file")
		}
	}

	timeout, err := time.ParseDuration(v.GetString("geocoder.timeout"))
	if err != nil {
		panic("failed to parse geocoder timeout from configuration")
	}

	httpPort, err := strconv.Atoi(v.GetString("http.port"))
	if err != nil {
		panic("failed to parse port for API server from configuration")
	}

	healthPort, err := strconv.Atoi(v.GetString("health.port"))
	if err != nil {
		panic("failed to parse port for monitoring server from configuration")
	}

	workers, err := strconv.Atoi(v.GetString("revalidate.workers"))
	if err != nil || workers <= 0 {
		panic("failed to parse workers from configuration, must be a positive integer")
	}

	rateLimit, err := strconv.Atoi(v.GetString("geocoder.rate_limit"))
	if err != nil {
		panic("failed to parse geocoder rate limit from configuration")
	}

	return &Config{
		Env:      v.GetString("env"),
		HTTPPort: httpPort,
		Port:     healthPort,
		Geocoder: GeocoderConfig{
			Primary:   v.GetString("geocoder.primary"),
			Secondary: v.GetString("geocoder.secondary"),
			APIKey:    v.GetString("geocoder.api_key"),
			UserAgent: v.GetString("geocoder.user_agent"),
			Timeout:   timeout,
			RateLimit: rateLimit,
		},
		Workers:       workers,
		AdminPassword: v.GetString("admin.password"),
		PostalBaseURL: v.GetString("postal.base_url"),
		Database: PostgresConfig{
			Host:     v.GetString("postgres.host"),
			Port:     v.GetString("postgres.port"),
			User:     v.GetString("postgres.user"),
			Password: v.GetString("postgres.password"),
			Name:     v.GetString("postgres.db_name"),
		},
	}
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("env", "production")
	v.SetDefault("http.port", 8000)
	v.SetDefault("health.port", 8080)
	v.SetDefault("geocoder.primary", "gsi")
	v.SetDefault("geocoder.secondary", "nominatim")
	v.SetDefault("geocoder.timeout", "3s")
	v.SetDefault("geocoder.rate_limit", 5)
	v.SetDefault("revalidate.workers", 4)
	v.SetDefault("postgres.port", "5432")

	// PINPOINT_GEOCODER_TIMEOUT overrides geocoder.timeout and so on.
	v.SetEnvPrefix("PINPOINT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Names shared with the rest of the deployment.
	_ = v.BindEnv("admin.password", "PINPOINT_ADMIN_PASSWORD", "ADMIN_PASSWORD")
	_ = v.BindEnv("postgres.host", "DB_HOST")
	_ = v.BindEnv("postgres.port", "DB_PORT")
	_ = v.BindEnv("postgres.user", "DB_USERNAME")
	_ = v.BindEnv("postgres.password", "DB_PASSWORD")
	_ = v.BindEnv("postgres.db_name", "DB_NAME")

	return v
}
