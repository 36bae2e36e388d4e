package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	c, err := LoadE(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, c.App.HTTP.Port)
	assert.Equal(t, 8081, c.App.Admin.Port)
	assert.Equal(t, "memory", c.DB.Driver)
	assert.Equal(t, 43200, c.JWT.AccessTokenTTLMin)
	assert.Equal(t, 20.0, c.App.Limits.PerIPRPS)
	assert.Equal(t, int64(300), c.App.Limits.MaxConcurrency)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
app:
  http:
    port: 9090
jwt:
  secret: from-file
  accessTokenTTLMin: 60
db:
  driver: postgres
  dsn: host=localhost user=app dbname=sweets
redis:
  addr: localhost:6379
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("APP_JWT_SECRET", "from-env")

	c, err := LoadE(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, c.App.HTTP.Port)
	assert.Equal(t, "from-env", c.JWT.Secret)
	assert.Equal(t, 60, c.JWT.AccessTokenTTLMin)
	assert.Equal(t, "postgres", c.DB.Driver)
	assert.Equal(t, "localhost:6379", c.Redis.Addr)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app: [unclosed"), 0o600))
	_, err := LoadE(path)
	assert.Error(t, err)
}
