// Package config reads runtime settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const devJWTSecret = "storefront-dev-secret"

type Config struct {
	AppEnv             string
	LogLevel           string
	Port               string
	DatabaseDSN        string
	JWTSecret          string
	StaticImagesPrefix string
	Redis              RedisConfig
	Kafka              KafkaConfig
	Admin              AdminConfig
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Enabled reports whether the catalog cache is configured.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

type KafkaConfig struct {
	Brokers    []string
	OrderTopic string
}

func (c KafkaConfig) Enabled() bool { return len(c.Brokers) > 0 }

// AdminConfig describes the account seeded at startup. Nothing is seeded
// unless both username and password are set.
type AdminConfig struct {
	Name     string
	Username string
	Password string
}

func (c Config) Production() bool { return c.AppEnv == "production" }

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("STATIC_IMAGES_PREFIX", "/static/images/")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("KAFKA_ORDER_TOPIC", "orders.placed")
	return v
}

func FromViper(v *viper.Viper) (*Config, error) {
	ttl, err := time.ParseDuration(v.GetString("CACHE_TTL"))
	if err != nil {
		return nil, fmt.Errorf("CACHE_TTL: %w", err)
	}
	cfg := &Config{
		AppEnv:             strings.ToLower(v.GetString("APP_ENV")),
		LogLevel:           v.GetString("LOG_LEVEL"),
		Port:               v.GetString("PORT"),
		DatabaseDSN:        databaseDSN(v),
		JWTSecret:          firstNonEmpty(v.GetString("JWT_SECRET"), v.GetString("SECRET_KEY")),
		StaticImagesPrefix: v.GetString("STATIC_IMAGES_PREFIX"),
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      ttl,
		},
		Kafka: KafkaConfig{
			Brokers:    splitList(v.GetString("KAFKA_BROKERS")),
			OrderTopic: v.GetString("KAFKA_ORDER_TOPIC"),
		},
		Admin: AdminConfig{
			Name:     v.GetString("ADMIN_NAME"),
			Username: v.GetString("ADMIN_USERNAME"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
	}
	if cfg.JWTSecret == "" {
		if cfg.Production() {
			return nil, errors.New("JWT_SECRET is required in production")
		}
		log.Warn().Msg("JWT_SECRET not set, using the development secret")
		cfg.JWTSecret = devJWTSecret
	}
	if !strings.HasSuffix(cfg.StaticImagesPrefix, "/") {
		cfg.StaticImagesPrefix += "/"
	}
	return cfg, nil
}

func databaseDSN(v *viper.Viper) string {
	if dsn := strings.TrimSpace(v.GetString("DB_DSN")); dsn != "" {
		return dsn
	}
	user := firstNonEmpty(v.GetString("DB_USER"), v.GetString("POSTGRES_USER"), "postgres")
	pass := firstNonEmpty(v.GetString("DB_PASSWORD"), v.GetString("POSTGRES_PASSWORD"), "postgres")
	name := firstNonEmpty(v.GetString("DB_NAME"), v.GetString("POSTGRES_DB"), "storefront")
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		v.GetString("DB_HOST"), user, pass, name, v.GetString("DB_PORT"), v.GetString("DB_SSLMODE"))
}

func firstNonEmpty(vals ...string) string {
	for _, s := range vals {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
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
