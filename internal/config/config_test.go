package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestMustLoadConfig_YAML(t *testing.T) {
	path := writeConfig(t, `
env: dev
jwt_secret: from-file
db:
  driver: postgres
  db_url: postgres://u:p@db:5432/auth
http_server:
  address: ":9090"
  read_timeout: 3s
browser:
  chrome_path: /usr/bin/chromium
`)

	cfg := MustLoadConfig(path)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, "postgres://u:p@db:5432/auth", cfg.DB.DbURL)
	assert.Equal(t, "users", cfg.DB.TableName)
	assert.Equal(t, ":9090", cfg.HTTPServer.Address)
	assert.Equal(t, 3*time.Second, cfg.HTTPServer.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.HTTPServer.IdleTimeout)
	assert.Equal(t, "/usr/bin/chromium", cfg.Browser.ChromePath)
	assert.Equal(t, "/tmp", cfg.Browser.TempDir)
}

func TestMustLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "jwt_secret: from-file\n")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DB_DRIVER", DriverMemory)

	cfg := MustLoadConfig(path)

	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, DriverMemory, cfg.DB.Driver)
}

func TestMustLoadConfig_EnvOnly(t *testing.T) {
	t.Setenv("JWT_SECRET", "lambda-secret")
	t.Setenv("TABLE_NAME", "credentials")
	t.Setenv("DYNAMODB_ENDPOINT", "http://localhost:8000")

	cfg := MustLoadConfig("")

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "lambda-secret", cfg.JWTSecret)
	assert.Equal(t, DriverDynamoDB, cfg.DB.Driver)
	assert.Equal(t, "credentials", cfg.DB.TableName)
	assert.Equal(t, "http://localhost:8000", cfg.DB.Endpoint)
	assert.False(t, cfg.DB.CreateTable)
	assert.Equal(t, "/opt/chrome/chrome-linux64/chrome", cfg.Browser.ChromePath)
}

func TestMustLoadConfig_Panics(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		assert.Panics(t, func() { MustLoadConfig(filepath.Join(t.TempDir(), "nope.yaml")) })
	})

	t.Run("missing secret", func(t *testing.T) {
		path := writeConfig(t, "env: prod\n")
		assert.Panics(t, func() { MustLoadConfig(path) })
	})

	t.Run("unknown driver", func(t *testing.T) {
		path := writeConfig(t, "jwt_secret: s\ndb:\n  driver: mongo\n")
		assert.Panics(t, func() { MustLoadConfig(path) })
	})
}
