package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Port           int
	ServerAddress  string
	AllowedOrigins []string

	DatabaseURL   string
	DatabaseName  string
	StorageDriver string
	DataDir       string

	RequestTimeout  time.Duration
	MaxBodyBytes    int64
	RateLimitPerMin int

	ImageModeration bool

	LogLevel    string
	LogEncoding string
}

// Load reads configuration from the environment, after applying an optional
// .env file from the working directory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Port:            v.GetInt("port"),
		AllowedOrigins:  splitList(v.GetString("cors_allowed_origins")),
		DatabaseURL:     strings.TrimSpace(v.GetString("database_url")),
		DatabaseName:    strings.TrimSpace(v.GetString("database_name")),
		StorageDriver:   strings.ToLower(strings.TrimSpace(v.GetString("storage_driver"))),
		DataDir:         v.GetString("data_dir"),
		RequestTimeout:  v.GetDuration("request_timeout"),
		MaxBodyBytes:    v.GetInt64("max_body_bytes"),
		RateLimitPerMin: v.GetInt("rate_limit_per_min"),
		ImageModeration: v.GetBool("image_moderation_enabled"),
		LogLevel:        v.GetString("log_level"),
		LogEncoding:     v.GetString("log_encoding"),
	}

	if cfg.StorageDriver == "" {
		if cfg.DatabaseURL != "" {
			cfg.StorageDriver = DriverMongo
		} else {
			cfg.StorageDriver = DriverMemory
		}
	}
	cfg.ServerAddress = ":" + strconv.Itoa(cfg.Port)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8000)
	v.SetDefault("cors_allowed_origins", "*")
	v.SetDefault("request_timeout", "10s")
	v.SetDefault("max_body_bytes", 1<<20)
	v.SetDefault("rate_limit_per_min", 0)
	v.SetDefault("image_moderation_enabled", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_encoding", "json")
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid PORT %d", c.Port)
	}
	switch c.StorageDriver {
	case DriverMongo, DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required for storage driver %q", c.StorageDriver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("config: REQUEST_TIMEOUT must be positive")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("config: MAX_BODY_BYTES must be positive")
	}
	if c.RateLimitPerMin < 0 {
		return fmt.Errorf("config: RATE_LIMIT_PER_MIN cannot be negative")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
