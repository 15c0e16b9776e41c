package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectchronos/chronos/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.Database.Path)
	assert.Equal(t, ":8000", cfg.API.ListenAddr)
	assert.Empty(t, cfg.API.AuthToken)
	assert.Empty(t, cfg.Neo4j.URI)
	assert.Equal(t, config.DefaultSourceTimeoutSeconds, cfg.Sources.TimeoutSeconds)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CHRONOS_API_LISTEN_ADDR", ":9999")
	t.Setenv("CHRONOS_API_AUTH_TOKEN", "sekret")
	t.Setenv("CHRONOS_DB_FILE", "/tmp/alt-chronos.db")
	t.Setenv("COBALT_API_KEY", "cobalt-key")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.API.ListenAddr)
	assert.Equal(t, "sekret", cfg.API.AuthToken)
	assert.Equal(t, "/tmp/alt-chronos.db", cfg.Database.Path)
	assert.Equal(t, "cobalt-key", cfg.Sources.CobaltAPIKey)
}

func TestNeo4jConfigMasksPassword(t *testing.T) {
	c := config.Neo4jConfig{URI: "bolt://localhost:7687", Username: "neo4j", Password: "hunter2", Database: "neo4j"}
	assert.NotContains(t, c.String(), "hunter2")
}

func TestValidate(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	cfg.Sources.TimeoutSeconds = 0
	assert.Error(t, cfg.Validate())

	cfg.Sources.TimeoutSeconds = 10
	cfg.Neo4j.URI = "bolt://localhost:7687"
	cfg.Neo4j.Database = ""
	assert.Error(t, cfg.Validate())
}
