package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := FromViper(newViper())
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
	assert.Equal(t, "/static/images/", cfg.StaticImagesPrefix)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Kafka.Enabled())
	assert.Equal(t, "orders.placed", cfg.Kafka.OrderTopic)
	assert.Equal(t, "host=localhost user=postgres password=postgres dbname=storefront port=5432 sslmode=disable", cfg.DatabaseDSN)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SECRET_KEY", "legacy-secret")
	t.Setenv("POSTGRES_USER", "shop")
	t.Setenv("DB_NAME", "catalog")
	t.Setenv("STATIC_IMAGES_PREFIX", "https://cdn.example.com/img")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")

	cfg, err := FromViper(newViper())
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "legacy-secret", cfg.JWTSecret)
	assert.Contains(t, cfg.DatabaseDSN, "user=shop")
	assert.Contains(t, cfg.DatabaseDSN, "dbname=catalog")
	assert.Equal(t, "https://cdn.example.com/img/", cfg.StaticImagesPrefix)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestExplicitDSNWins(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://u:p@db/shop")
	t.Setenv("DB_HOST", "ignored")
	cfg, err := FromViper(newViper())
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db/shop", cfg.DatabaseDSN)
}

func TestProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	_, err := FromViper(newViper())
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "prod")
	cfg, err := FromViper(newViper())
	require.NoError(t, err)
	assert.True(t, cfg.Production())
}

func TestBadCacheTTL(t *testing.T) {
	t.Setenv("CACHE_TTL", "soon")
	_, err := FromViper(newViper())
	require.Error(t, err)
}
