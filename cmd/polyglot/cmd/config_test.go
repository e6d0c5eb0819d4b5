package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/MeKo-Tech/polyglot/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestConfigInitCommand(t *testing.T) {
	target := filepath.Join(t.TempDir(), "polyglot.yaml")

	output, err := executeCommand(t, nil, "config", "init", target)
	require.NoError(t, err)
	assert.Contains(t, output, "Configuration written to "+target)

	data, err := os.ReadFile(target)
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, config.DefaultConfig().Server.Port, cfg.Server.Port)

	_, err = executeCommand(t, nil, "config", "init", target)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = executeCommand(t, nil, "config", "init", target, "--force")
	require.NoError(t, err)
}

func TestConfigShowCommand(t *testing.T) {
	output, err := executeCommand(t, nil, "--models-dir", "/srv/models", "config", "show", "--format", "json")
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, json.Unmarshal([]byte(output), &cfg))
	assert.Equal(t, "/srv/models", cfg.ModelsDir)
	assert.Equal(t, "text", cfg.Output.Format)

	output, err = executeCommand(t, nil, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, output, "models_dir:")
	assert.Contains(t, output, "rate_limit:")

	_, err = executeCommand(t, nil, "config", "show", "--format", "toml")
	require.Error(t, err)
}

func TestConfigPathsCommand(t *testing.T) {
	output, err := executeCommand(t, nil, "config", "paths")
	require.NoError(t, err)
	assert.Contains(t, output, "Configuration search paths:")
	assert.Contains(t, output, "Environment prefix: POLYGLOT")
}
