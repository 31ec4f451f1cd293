package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Configuration struct {
	Server   ServerConfig   `validate:"required"`
	Postgres PostgresConfig `validate:"required"`
	Redis    RedisConfig
	Cache    CacheConfig   `validate:"required"`
	Auth     AuthConfig    `validate:"required"`
	Logging  LoggingConfig `validate:"required"`
}

type ServerConfig struct {
	Port int `validate:"required,min=1,max=65535"`
}

type PostgresConfig struct {
	URL      string `mapstructure:"url" validate:"required"`
	MaxConns int32  `mapstructure:"max_conns" validate:"min=0"`
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int `mapstructure:"db" validate:"min=0"`
}

type CacheConfig struct {
	Driver          string        `validate:"required,oneof=redis memory"`
	PageTTL         time.Duration `mapstructure:"page_ttl" validate:"gt=0"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval" validate:"min=0"`
}

type AuthConfig struct {
	JWTSecret    string        `mapstructure:"jwt_secret" validate:"required,min=16"`
	SessionTTL   time.Duration `mapstructure:"session_ttl" validate:"gt=0"`
	CookieSecure bool          `mapstructure:"cookie_secure"`
}

type LoggingConfig struct {
	Level string `validate:"required,oneof=debug info warn error"`
}

// env names each config key is read from
var envBindings = map[string]string{
	"server.port":            "PORT",
	"postgres.url":           "DATABASE_URL",
	"postgres.max_conns":     "DB_MAX_CONNS",
	"redis.addr":             "REDIS_ADDR",
	"redis.password":         "REDIS_PASSWORD",
	"redis.db":               "REDIS_DB",
	"cache.driver":           "CACHE_DRIVER",
	"cache.page_ttl":         "PAGE_CACHE_TTL",
	"cache.refresh_interval": "PAGE_REFRESH_INTERVAL",
	"auth.jwt_secret":        "JWT_SECRET",
	"auth.session_ttl":       "SESSION_TTL",
	"auth.cookie_secure":     "COOKIE_SECURE",
	"logging.level":          "LOG_LEVEL",
}

// NewConfig loads the configuration from the environment, after applying an optional .env file
func NewConfig() (*Configuration, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cache.driver", "redis")
	v.SetDefault("cache.page_ttl", "5m")
	v.SetDefault("cache.refresh_interval", "15m")
	v.SetDefault("auth.session_ttl", "24h")
	v.SetDefault("auth.cookie_secure", false)
	v.SetDefault("logging.level", "info")
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}
