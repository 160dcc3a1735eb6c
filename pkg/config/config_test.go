package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 8081, cfg.Server.SSEPort)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "cheff_guio", cfg.Database.Database)
	assert.True(t, cfg.Database.MigrateOnStart)
	assert.Equal(t, 30*time.Second, cfg.Redis.ListCacheTTL)
	assert.Equal(t, 1200.0, cfg.Canvas.DefaultWidth)
	assert.Equal(t, 800.0, cfg.Canvas.DefaultHeight)
	assert.False(t, cfg.WhatsApp.WhatsAppEnabled())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("WHATSAPP_ACCESS_TOKEN", "token")
	t.Setenv("WHATSAPP_PHONE_NUMBER_ID", "123")
	t.Setenv("CANVAS_DEFAULT_WIDTH", "1600")
	t.Setenv("REDIS_LIST_CACHE_TTL", "5s")
	t.Setenv("DB_MIGRATE_ON_START", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.WhatsApp.WhatsAppEnabled())
	assert.Equal(t, 1600.0, cfg.Canvas.DefaultWidth)
	assert.Equal(t, 5*time.Second, cfg.Redis.ListCacheTTL)
	assert.False(t, cfg.Database.MigrateOnStart)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("DB_NAME=from_file\n"), 0o600))
	t.Setenv("ENV_FILE", path)
	t.Cleanup(func() { os.Unsetenv("DB_NAME") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from_file", cfg.Database.Database)
}

func TestLoad_RejectsNonPositiveCanvas(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("CANVAS_DEFAULT_HEIGHT", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", Database: "d", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=d sslmode=disable", c.DatabaseDSN())
}

func TestLoad_AllowedOrigins(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("ALLOWED_ORIGINS", " https://app.example.com, ,https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.Server.AllowedOrigins)
}
