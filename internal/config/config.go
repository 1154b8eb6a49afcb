package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Security SecurityConfig `mapstructure:"security"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConnections int           `mapstructure:"max_connections"`
	MaxIdleTime    time.Duration `mapstructure:"max_idle_time"`
	MaxLifetime    time.Duration `mapstructure:"max_lifetime"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// RedisConfig is optional; an empty URL disables the response cache.
type RedisConfig struct {
	URL      string        `mapstructure:"url"`
	PoolSize int           `mapstructure:"pool_size"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type AuthConfig struct {
	JWTSecret string          `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration   `mapstructure:"token_ttl"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig holds the two independent fixed-window policies: a tight
// one for signup/login and a loose one for everything else.
type RateLimitConfig struct {
	AuthMax       int           `mapstructure:"auth_max"`
	AuthWindow    time.Duration `mapstructure:"auth_window"`
	GeneralMax    int           `mapstructure:"general_max"`
	GeneralWindow time.Duration `mapstructure:"general_window"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	IdleExpiry    time.Duration `mapstructure:"idle_expiry"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type SecurityConfig struct {
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

func Load() (*Config, error) {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; env vars and defaults apply.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate enforces the settings the process cannot run without. A missing
// signing secret must abort startup, never surface as a per-request error.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required (set AUTH_JWT_SECRET)")
	}
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required (set DATABASE_URL)")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("server.port", "5000")
	viper.SetDefault("server.mode", "development")

	viper.SetDefault("database.max_connections", 10)
	viper.SetDefault("database.max_idle_time", "15m")
	viper.SetDefault("database.max_lifetime", "1h")
	viper.SetDefault("database.connect_timeout", "10s")

	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("redis.timeout", "3s")
	viper.SetDefault("redis.cache_ttl", "60s")

	viper.SetDefault("auth.token_ttl", "168h")
	viper.SetDefault("auth.rate_limit.auth_max", 20)
	viper.SetDefault("auth.rate_limit.auth_window", "15m")
	viper.SetDefault("auth.rate_limit.general_max", 100)
	viper.SetDefault("auth.rate_limit.general_window", "1m")
	viper.SetDefault("auth.rate_limit.sweep_interval", "5m")
	viper.SetDefault("auth.rate_limit.idle_expiry", "30m")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")

	viper.SetDefault("security.cors.allowed_origins", []string{"http://localhost:5173"})
	viper.SetDefault("security.cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	viper.SetDefault("security.cors.allowed_headers", []string{"Origin", "Content-Type", "Authorization"})
}
