package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  api_key: secret
database:
  host: db.internal
  name: conversa
  user: app
  password: pw
matching:
  threshold: 0.75
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "secret", cfg.Server.APIKey)
	assert.Equal(t, 0.75, cfg.Matching.Threshold)
	// Defaults fill the gaps.
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 20, cfg.Database.MaxConns)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 0.6, cfg.Matching.Threshold)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CONVERSA_SERVER_PORT", "7070")
	t.Setenv("CONVERSA_DB_HOST", "override.internal")
	t.Setenv("CONVERSA_MATCH_THRESHOLD", "0.42")

	cfg, err := Load(writeConfig(t, `
server:
  port: 9090
database:
  host: db.internal
`))
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "override.internal", cfg.Database.Host)
	assert.Equal(t, 0.42, cfg.Matching.Threshold)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "localhost", Port: 5432, Name: "conversa", User: "app", Password: "pw"}
	assert.Equal(t, "postgres://app:pw@localhost:5432/conversa?sslmode=disable", d.DSN())
}
