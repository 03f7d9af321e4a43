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

func TestLoadConfig_RequiresSecret(t *testing.T) {
	t.Setenv("SITE_AUTH_JWT_SECRET", "")

	_, err := LoadConfig(writeConfig(t, "server:\n  port: 9000\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret")
}

func TestLoadConfig_FileAndDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
  request_timeout: 5s
auth:
  jwt_secret: from-file
database:
  driver: postgres
  dsn: postgres://site@localhost/site
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.Addr())
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "psite", cfg.Auth.Issuer)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, int64(5<<20), cfg.Uploads.MaxSize)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SITE_AUTH_JWT_SECRET", "from-env")
	t.Setenv("SITE_SERVER_PORT", "7070")
	t.Setenv("SITE_AUTH_TOKEN_TTL", "2h")

	cfg, err := LoadConfig(writeConfig(t, "auth:\n  jwt_secret: from-file\n"))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := &Config{}
		c.Auth.JWTSecret = "s"
		c.Database.Driver = "sqlite"
		c.Database.DSN = "site.db"
		c.Server.Port = 8080
		c.Server.Mode = "release"
		return c
	}

	assert.NoError(t, valid().Validate())

	c := valid()
	c.Database.Driver = "mysql"
	assert.Error(t, c.Validate())

	c = valid()
	c.Server.Port = 70000
	assert.Error(t, c.Validate())

	c = valid()
	c.Server.Mode = "prod"
	assert.Error(t, c.Validate())

	c = valid()
	c.Mail.Host = "smtp.example.com"
	assert.Error(t, c.Validate())
}
