package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ParsesDurationsAndDefaults(t *testing.T) {
	path := writeConfig(t, `
app:
  env: test
jwt:
  secret: s3cret
  expires_in: 30m
`)

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 30*time.Minute, cfg.JWT.ExpiresIn.Std())
	// Unset refresh falls back to the default
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshIn.Std())
	assert.Equal(t, 10, cfg.Notification.CompactLimit)
	assert.Equal(t, 80, cfg.Notification.SnippetRunes)
	assert.Equal(t, 24, cfg.Notification.LookaheadHours)
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	path := writeConfig(t, `
app:
  env: test
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("JWT_SECRET", "from-env")

	path := writeConfig(t, `
database:
  host: localhost
`)

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
}

func TestLoad_RejectsBadDuration(t *testing.T) {
	path := writeConfig(t, `
jwt:
  secret: s3cret
  expires_in: soon
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestIsDevelopment(t *testing.T) {
	cfg := &Config{}
	assert.True(t, cfg.IsDevelopment())
	cfg.App.Env = "local"
	assert.True(t, cfg.IsDevelopment())
	cfg.App.Env = "production"
	assert.False(t, cfg.IsDevelopment())
}
