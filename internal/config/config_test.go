package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
app:
  name: campusfix
  environment: test

database:
  path: ./data/test.db

api:
  port: 9000
  auth:
    api_keys:
      - key: abc
        extra: def
        name: shop-admin
        permissions: [admin:bookings]
  rate_limit:
    rps: 5
    burst: 10

whatsapp:
  business_number: "233246912468"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "campusfix", cfg.App.Name)
	assert.Equal(t, "./data/test.db", cfg.Database.Path)
	assert.Equal(t, 9000, cfg.API.Port)
	require.Len(t, cfg.API.Auth.APIKeys, 1)
	assert.Equal(t, "abc", cfg.API.Auth.APIKeys[0].Key)
	assert.Equal(t, float64(5), cfg.API.RateLimit.RPS)
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("TEST_DB_PATH", "/tmp/campusfix.db")

	path := writeConfig(t, `
database:
  path: ${TEST_DB_PATH}
whatsapp:
  business_number: "233246912468"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/campusfix.db", cfg.Database.Path)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  path: ./data/test.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, "x-api-key", cfg.API.Auth.HeaderAPIKey)
	assert.Equal(t, "x-api-extra", cfg.API.Auth.HeaderExtra)
	assert.Equal(t, "233246912468", cfg.WhatsApp.BusinessNumber)
	assert.Equal(t, "./exports", cfg.Exports.Path)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Run("missing database path", func(t *testing.T) {
		path := writeConfig(t, `
app:
  name: campusfix
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database path")
	})

	t.Run("telegram token without chats", func(t *testing.T) {
		path := writeConfig(t, `
database:
  path: ./data/test.db
telegram:
  bot_token: "123:abc"
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "manager chat ids")
	})

	t.Run("api key entry without key", func(t *testing.T) {
		path := writeConfig(t, `
database:
  path: ./data/test.db
api:
  auth:
    api_keys:
      - name: broken
        extra: def
`)
		_, err := Load(path)
		require.Error(t, err)
	})
}
