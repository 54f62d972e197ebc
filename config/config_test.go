package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadConfig_WithoutEnvFile(t *testing.T) {
	chdirTemp(t)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_AUTO_MIGRATE", "true")
	t.Setenv("STORAGE_BUCKET", "clinic")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, "clinic", cfg.Storage.Bucket)
	assert.Equal(t, "uploads", cfg.Storage.Prefix)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshExpiry)
}

func TestLoadConfig_ReadsEnvFile(t *testing.T) {
	dir := chdirTemp(t)
	content := "JWT_SECRET=from-file\nAPP_PORT=9090\nJWT_ACCESS_EXPIRY=30m\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.JWT.Secret)
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessExpiry)
}

func TestLoadConfig_RequiresSecret(t *testing.T) {
	chdirTemp(t)
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}
