package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// EnvDevelopment is the only mode allowed to run without a configured JWT secret.
	EnvDevelopment = "development"

	devJWTSecret = "secretkey"
)

// ErrMissingJWTSecret is returned outside development when no signing secret is set.
var ErrMissingJWTSecret = errors.New("auth jwt secret is required outside development")

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	App struct {
		Env string
	}
	Server struct {
		Port string
	}
	Database struct {
		Driver string
		DSN    string
	}
	Auth struct {
		JWTSecret  string
		TokenTTL   time.Duration
		BcryptCost int

		// InsecureSecret is set when the development fallback secret is in use.
		InsecureSecret bool
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
		TTL      time.Duration
	}
	Log struct {
		Level string
	}
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Server.Port
}

// Load reads configuration from environment variables, an optional .env file
// and an optional config.yaml in the working directory.
func Load() (Config, error) {
	// real environment wins over .env
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// plain names used by common hosting platforms
	bindings := map[string]string{
		"app.env":         "APP_ENV",
		"server.port":     "PORT",
		"database.driver": "DATABASE_DRIVER",
		"database.dsn":    "DATABASE_URL",
		"auth.jwtsecret":  "JWT_SECRET",
		"auth.tokenttl":   "TOKEN_TTL",
		"redis.addr":      "REDIS_ADDR",
		"log.level":       "LOG_LEVEL",
	}
	for key, env := range bindings {
		prefixed := "CART_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	v.SetDefault("app.env", EnvDevelopment)
	v.SetDefault("server.port", "10000")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "data/cart.db")
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.tokenttl", time.Hour)
	v.SetDefault("auth.bcryptcost", 10)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 10*time.Minute)
	v.SetDefault("log.level", "info")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.App.Env = strings.ToLower(strings.TrimSpace(c.App.Env))
	c.Auth.JWTSecret = strings.TrimSpace(c.Auth.JWTSecret)

	if c.Auth.JWTSecret == "" {
		if c.App.Env != EnvDevelopment {
			return fmt.Errorf("%w (env %q)", ErrMissingJWTSecret, c.App.Env)
		}
		c.Auth.JWTSecret = devJWTSecret
		c.Auth.InsecureSecret = true
	}

	switch c.Database.Driver {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.Server.Port == "" {
		return errors.New("server port is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth token ttl must be positive, got %s", c.Auth.TokenTTL)
	}
	return nil
}
