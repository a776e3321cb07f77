package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvConfig_Defaults(t *testing.T) {
	t.Setenv("DATA_SOURCE", "")
	t.Setenv("APP_PORT", "")

	require.NoError(t, LoadEnvConfig())
	assert.Equal(t, DataSourceStatic, DefaultEnvConfig.DATA_SOURCE)
	assert.Equal(t, "8080", DefaultEnvConfig.APP_PORT)
	assert.Equal(t, 5*time.Minute, DefaultEnvConfig.CACHE_TTL)
	assert.False(t, DefaultEnvConfig.ES_ENABLED)
	assert.Equal(t, time.UTC, DefaultEnvConfig.Location())
}

func TestLoadEnvConfig_Overrides(t *testing.T) {
	t.Setenv("DATA_SOURCE", "Mongo")
	t.Setenv("FALLBACK_TO_STATIC", "true")
	t.Setenv("CACHE_TTL", "30")
	t.Setenv("DB_PORT", "not-a-number")
	t.Setenv("MONGO_TIMEOUT", "3s")
	t.Setenv("TIMEZONE", "No/Such_Zone")

	require.NoError(t, LoadEnvConfig())
	assert.Equal(t, DataSourceMongo, DefaultEnvConfig.DATA_SOURCE)
	assert.True(t, DefaultEnvConfig.FALLBACK_TO_STATIC)
	assert.Equal(t, 30*time.Second, DefaultEnvConfig.CACHE_TTL)
	assert.Equal(t, 5432, DefaultEnvConfig.DB_PORT)
	assert.Equal(t, 3*time.Second, DefaultEnvConfig.MONGO_TIMEOUT)
	assert.Equal(t, time.UTC, DefaultEnvConfig.Location())
}
