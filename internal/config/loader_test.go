package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/MeKo-Tech/polyglot/internal/testutil"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// isolate points the search paths at an empty directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	return dir
}

func TestLoader_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := NewLoaderWithViper(viper.New()).Load()
	require.NoError(t, err)
	assertDefaults(t, cfg)
}

// assertDefaults compares the scalar fields of cfg with DefaultConfig.
func assertDefaults(t *testing.T, cfg *Config) {
	t.Helper()
	def := DefaultConfig()
	assert.Equal(t, def.ModelsDir, cfg.ModelsDir)
	assert.Equal(t, def.LogLevel, cfg.LogLevel)
	assert.Empty(t, cfg.Detector.Languages)
	assert.Equal(t, def.Detector.DenseMaxOrder, cfg.Detector.DenseMaxOrder)
	assert.Equal(t, def.Output, cfg.Output)
	assert.Equal(t, def.Server, cfg.Server)
	assert.Equal(t, def.Batch.Workers, cfg.Batch.Workers)
	assert.Equal(t, def.Batch.IncludePatterns, cfg.Batch.IncludePatterns)
}

func TestLoader_LoadWithFile(t *testing.T) {
	dir := isolate(t)
	path := testutil.WriteTextFile(t, dir, "custom.yaml", `
log_level: debug
detector:
  languages: [en, de]
  dense_max_order: 2
output:
  format: json
  top: 3
server:
  port: 9090
  rate_limit:
    enabled: true
    requests_per_minute: 10
batch:
  recursive: true
`)

	loader := NewLoaderWithViper(viper.New())
	cfg, err := loader.LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"en", "de"}, cfg.Detector.Languages)
	assert.Equal(t, 2, cfg.Detector.DenseMaxOrder)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, 3, cfg.Output.Top)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Server.RateLimit.Enabled)
	assert.Equal(t, 10, cfg.Server.RateLimit.RequestsPerMinute)
	assert.Equal(t, 3600, cfg.Server.RateLimit.RequestsPerHour, "unset keys keep defaults")
	assert.True(t, cfg.Batch.Recursive)
	assert.Equal(t, path, loader.GetConfigFileUsed())
}

func TestLoader_SearchPath(t *testing.T) {
	dir := isolate(t)
	testutil.WriteTextFile(t, dir, "polyglot.yaml", "output:\n  precision: 4\n")

	cfg, err := NewLoaderWithViper(viper.New()).Load()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Output.Precision)
}

func TestLoader_EnvironmentOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("POLYGLOT_LOG_LEVEL", "warn")
	t.Setenv("POLYGLOT_SERVER_PORT", "7000")
	t.Setenv("POLYGLOT_DETECTOR_DENSE_MAX_ORDER", "-1")

	cfg, err := NewLoaderWithViper(viper.New()).Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, -1, cfg.Detector.DenseMaxOrder)
}

func TestLoader_Validation(t *testing.T) {
	dir := isolate(t)
	path := testutil.WriteTextFile(t, dir, "bad.yaml", "output:\n  format: xml\n")

	_, err := NewLoaderWithViper(viper.New()).LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")

	cfg, err := NewLoaderWithViper(viper.New()).LoadWithFileWithoutValidation(path)
	require.NoError(t, err)
	assert.Equal(t, "xml", cfg.Output.Format)
}

func TestLoader_Errors(t *testing.T) {
	dir := isolate(t)

	_, err := NewLoaderWithViper(viper.New()).LoadWithFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "config file does not exist")

	path := testutil.WriteTextFile(t, dir, "broken.yaml", "server: [port\n")
	_, err = NewLoaderWithViper(viper.New()).LoadWithFile(path)
	assert.ErrorContains(t, err, "error reading config file")
}

func TestLoader_Accessors(t *testing.T) {
	isolate(t)
	loader := NewLoaderWithViper(nil)
	_, err := loader.LoadWithoutValidation()
	require.NoError(t, err)

	loader.Set("output.format", "csv")
	assert.Equal(t, "csv", loader.GetString("output.format"))
	assert.Equal(t, 8080, loader.Get("server.port"))
	assert.NotNil(t, loader.GetViper())
	assert.Contains(t, loader.GetResolvedConfig(), "server")

	var buf bytes.Buffer
	loader.PrintConfigInfo(&buf)
	assert.Contains(t, buf.String(), "Environment prefix: POLYGLOT")
}

func TestGenerateDefaultConfigFile(t *testing.T) {
	dir := isolate(t)

	require.NoError(t, GenerateDefaultConfigFile(""))
	data, err := os.ReadFile(filepath.Join(dir, "polyglot.yaml"))
	require.NoError(t, err)

	var decoded Config
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, DefaultConfig(), decoded)

	cfg, err := NewLoaderWithViper(viper.New()).Load()
	require.NoError(t, err)
	assertDefaults(t, cfg)
}

func TestGetConfigSearchPaths(t *testing.T) {
	dir := isolate(t)
	paths := GetConfigSearchPaths()

	require.NotEmpty(t, paths)
	assert.Equal(t, ".", paths[0])
	assert.Contains(t, paths, dir)
	assert.Contains(t, paths, "/etc/polyglot")
	assert.Contains(t, paths, filepath.Join(dir, "xdg", "polyglot"))
}
