package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missingFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadWithPath(missingFile(t))
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 5, cfg.LoginMaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.LoginWindow)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.True(t, cfg.S3.PathStyle)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "Test")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("S3_BUCKET", "media")
	t.Setenv("MONGO_DATABASE", "nc_test")

	cfg, err := LoadWithPath(missingFile(t))
	require.NoError(t, err)

	assert.Equal(t, EnvTest, cfg.Env)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "media", cfg.S3.Bucket)
	assert.Equal(t, "nc_test", cfg.MongoDatabase)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.env")
	require.NoError(t, os.WriteFile(path, []byte("SERVER_PORT=9090\nLOGIN_MAX_ATTEMPTS=3\n"), 0o600))

	cfg, err := LoadWithPath(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 3, cfg.LoginMaxAttempts)
}

func TestLoad_ProductionRequiresStrongSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	_, err := LoadWithPath(missingFile(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	cfg, err := LoadWithPath(missingFile(t))
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Env:           EnvDevelopment,
			JWTSecret:     "secret",
			SessionTTL:    time.Hour,
			BcryptCost:    10,
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "nc",
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name string
		edit func(c *Config)
	}{
		{"unknown env", func(c *Config) { c.Env = "staging" }},
		{"empty secret", func(c *Config) { c.JWTSecret = "" }},
		{"zero ttl", func(c *Config) { c.SessionTTL = 0 }},
		{"bcrypt cost too low", func(c *Config) { c.BcryptCost = 3 }},
		{"bcrypt cost too high", func(c *Config) { c.BcryptCost = 32 }},
		{"no database", func(c *Config) { c.MongoDatabase = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.edit(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
