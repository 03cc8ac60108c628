package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Port)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "localhost", cfg.DBConfig.Host)
	assert.False(t, cfg.KafkaConfig.Enabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaConfig.Brokers)
	assert.Empty(t, cfg.JWTConfig.Secret)
	assert.False(t, cfg.LegacyBookingQueries)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SHAREIT_SERVICE_PORT", "8080")
	t.Setenv("SHAREIT_APP_ENV", "production")
	t.Setenv("SHAREIT_DB_NAME", "shareit_test")
	t.Setenv("SHAREIT_KAFKA_ENABLED", "true")
	t.Setenv("SHAREIT_KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("SHAREIT_JWT_SECRET", "s3cret")
	t.Setenv("SHAREIT_LEGACY_BOOKING_QUERIES", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, "shareit_test", cfg.DBConfig.DBName)
	assert.True(t, cfg.KafkaConfig.Enabled)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaConfig.Brokers)
	assert.Equal(t, "s3cret", cfg.JWTConfig.Secret)
	assert.True(t, cfg.LegacyBookingQueries)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", c.DSN())
}
