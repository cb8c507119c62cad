package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_DefaultsAndEnvOverride(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
  read_timeout: 5
database:
  log_level: silent
jwt:
  secret: from-file
`)
	t.Setenv("JWT_SECRET", "from-env")

	require.NoError(t, load(koanf.New("."), path))

	assert.Equal(t, 9000, Conf.Server.Port)
	assert.Equal(t, 5*time.Second, Conf.Server.ReadTimeout)
	assert.Equal(t, "from-env", Conf.JWT.Secret)
	assert.Equal(t, DriverPostgres, Conf.Database.Driver)
	assert.Equal(t, 24, Conf.JWT.ExpireTime)
	assert.Equal(t, TokenStoreDatabase, Conf.Auth.TokenStore)
	assert.Equal(t, "development", Conf.Log.Env)
}

func TestLoad_MissingFile(t *testing.T) {
	err := load(koanf.New("."), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
