package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, DriverMongo, cfg.Database.Driver)
	assert.True(t, cfg.Database.Transactions)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.False(t, cfg.S3.Enabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
server:
  address: ":9090"
database:
  driver: Memory
jwt:
  secret: from-file
  expiration: 90m
s3:
  bucket_name: photos
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))
	t.Setenv("SERVER_ADDRESS", ":7070")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Address)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, 90*time.Minute, cfg.JWT.Expiration)
	assert.Equal(t, "from-file", cfg.JWT.Secret)
	assert.True(t, cfg.S3.Enabled())
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("LOG_LEVEL") })

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	base := Config{
		JWT:      JWTConfig{Secret: "x", Expiration: time.Hour},
		Database: DatabaseConfig{Driver: DriverMongo, URI: "mongodb://db", Name: "bt"},
	}
	require.NoError(t, base.Validate())

	noSecret := base
	noSecret.JWT.Secret = ""
	assert.Error(t, noSecret.Validate())

	badDriver := base
	badDriver.Database.Driver = "postgres"
	assert.Error(t, badDriver.Validate())

	memory := base
	memory.Database = DatabaseConfig{Driver: DriverMemory}
	assert.NoError(t, memory.Validate())
}
