package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rpggio/attest/internal/config"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ATTEST_ISSUER_OWNER", "deployer")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "attest.db", cfg.DB.Path)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.True(t, cfg.Auth.Enabled)
	require.Equal(t, "transferable", cfg.Issuer.Policy)
	require.Equal(t, "deployer", cfg.Issuer.Owner)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "attest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
issuer:
  name: Conference Badges
  owner: file-owner
  policy: locked
transport:
  mode: stdio
auth:
  stdio_principal: operator
`), 0o644))

	t.Setenv("ATTEST_CONFIG_PATH", path)
	t.Setenv("ATTEST_SERVER_PORT", "9100")
	t.Setenv("ATTEST_AUTH_ENABLED", "false")
	t.Setenv("ATTEST_LOG_PATH", filepath.Join(dir, "attest.log"))

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, 9100, cfg.Server.Port)
	require.Equal(t, "Conference Badges", cfg.Issuer.Name)
	require.Equal(t, "file-owner", cfg.Issuer.Owner)
	require.Equal(t, "locked", cfg.Issuer.Policy)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.Equal(t, "operator", cfg.Auth.StdioPrincipal)
	require.False(t, cfg.Auth.Enabled)
	require.Equal(t, filepath.Join(dir, "attest.log"), cfg.Log.Path)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("ATTEST_ISSUER_OWNER", "deployer")

	t.Setenv("ATTEST_SERVER_PORT", "eighty")
	_, err := config.Load()
	require.ErrorContains(t, err, "ATTEST_SERVER_PORT")

	t.Setenv("ATTEST_SERVER_PORT", "8080")
	t.Setenv("ATTEST_ISSUER_POLICY", "sticky")
	_, err = config.Load()
	require.ErrorContains(t, err, "invalid issuer policy")

	t.Setenv("ATTEST_ISSUER_POLICY", "locked")
	t.Setenv("ATTEST_TRANSPORT", "stdio")
	_, err = config.Load()
	require.ErrorContains(t, err, "stdio_principal")
}

func TestValidate_RequiresOwner(t *testing.T) {
	cfg := config.Config{
		Server:    config.ServerConfig{Port: 8080},
		Transport: config.TransportConfig{Mode: "http"},
	}
	require.ErrorContains(t, cfg.Validate(), "issuer owner is required")

	cfg.Issuer.Owner = "deployer"
	require.NoError(t, cfg.Validate())
}
