package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sukryu/pSite/pkg/utils/password"
)

func TestHashPassword(t *testing.T) {
	for _, tc := range []struct {
		name  string
		args  []string
		stdin string
	}{
		{"argument", []string{"hash-password", "s3cret-pass"}, ""},
		{"stdin", []string{"hash-password"}, "s3cret-pass\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			cmd := newRootCommand()
			cmd.SetArgs(tc.args)
			cmd.SetIn(strings.NewReader(tc.stdin))
			cmd.SetOut(&out)

			require.NoError(t, cmd.Execute())
			assert.True(t, password.Verify("s3cret-pass", strings.TrimSpace(out.String())))
		})
	}
}

func TestHashPassword_Empty(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"hash-password"})
	cmd.SetIn(strings.NewReader(""))
	cmd.SetOut(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}

func TestMigrate(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	dbPath := filepath.Join(dir, "site.db")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"auth:\n  jwt_secret: test\ndatabase:\n  driver: sqlite\n  dsn: "+dbPath+"\nlog:\n  level: error\n"), 0o600))

	cmd := newRootCommand()
	cmd.SetArgs([]string{"migrate", "--config", cfgPath})
	require.NoError(t, cmd.Execute())

	_, err := os.Stat(dbPath)
	assert.NoError(t, err)
}

func TestServe_RequiresSecret(t *testing.T) {
	t.Setenv("SITE_AUTH_JWT_SECRET", "")
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("server:\n  port: 0\n"), 0o600))

	cmd := newRootCommand()
	cmd.SetArgs([]string{"serve", "--config", cfgPath})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret")
}
