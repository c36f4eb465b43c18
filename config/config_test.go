package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, 1820, cfg.Web.Port)
	assert.NotEmpty(t, cfg.Web.Secret)
}

func TestLoadConfigFromFile(t *testing.T) {
	content := `
web:
  port: 9000
database:
  type: sqlite
  name: testcatalog
`
	path := filepath.Join(t.TempDir(), "catalogd.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Web.Port)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "testcatalog", cfg.Database.Name)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("CATALOG_WEB_PORT", "7777")
	t.Setenv("CATALOG_DB_TYPE", "sqlite")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 7777, cfg.Web.Port)
	assert.Equal(t, "sqlite", cfg.Database.Type)
}

func TestLoadConfigBadYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalogd.yml")
	require.NoError(t, os.WriteFile(path, []byte("{invalid"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
