package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017/testdb")
	t.Setenv("JWT_SECRET", "access-secret-0123456789012345678901")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret-012345678901234567890")
}

func TestLoadConfig(t *testing.T) {
	setRequired(t)
	t.Setenv("MONGODB_DATABASE", "pdf_test")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("CLIENT_ORIGINS", "http://a.test, http://b.test ,")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "pdf_test", cfg.MongoDB.Database)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTokenTTL)
	assert.Equal(t, int64(100<<20), cfg.Upload.MaxBytes)
	assert.False(t, cfg.Server.IsProduction())
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_REFRESH_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGODB_URI")
	assert.Contains(t, err.Error(), "JWT_REFRESH_SECRET")
}

func TestLoadConfig_SameSecretsRejected(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_REFRESH_SECRET", "access-secret-0123456789012345678901")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfig_DerivesPublicURL(t *testing.T) {
	setRequired(t)
	t.Setenv("MINIO_ENDPOINT", "minio:9000")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("MINIO_PUBLIC_URL", "")
	t.Setenv("SERVER_ENVIRONMENT", "Production")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://minio:9000", cfg.Storage.PublicURL)
	assert.True(t, cfg.Server.IsProduction())
}
