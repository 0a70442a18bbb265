package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typecats/config"
	"typecats/convert"
	"typecats/primitive"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "typecats.yaml", `
detailed_validation: false
cache_size: 16
coercions: [default, text_number]
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Config{
		DetailedValidation: false,
		CacheSize:          16,
		Coercions:          []string{"default", "text_number"},
		LogLevel:           "info",
	}, cfg)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "typecats.toml", `
log_level = "debug"
coercions = ["all"]
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.DetailedValidation)
	assert.Equal(t, convert.DefaultCacheSize, cfg.CacheSize)
	assert.Equal(t, []string{"all"}, cfg.Coercions)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")

	_, err = config.Load(writeFile(t, "typecats.json", "{}"))
	assert.ErrorIs(t, err, config.ErrUnknownFormat)

	_, err = config.Load(writeFile(t, "bad.yaml", "cache_size: [1"))
	assert.ErrorContains(t, err, "failed to parse config YAML")

	_, err = config.Load(writeFile(t, "bad.toml", "cache_size = "))
	assert.ErrorContains(t, err, "failed to parse config TOML")
}

func TestFromEnv(t *testing.T) {
	env := map[string]string{
		"TYPECATS_DETAILED_VALIDATION": "false",
		"TYPECATS_CACHE_SIZE":          "64",
		"TYPECATS_COERCIONS":           "default,textual_bool",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg, err := config.FromEnv(config.Default(), lookup)
	require.NoError(t, err)
	assert.False(t, cfg.DetailedValidation)
	assert.Equal(t, 64, cfg.CacheSize)
	assert.Equal(t, []string{"default", "textual_bool"}, cfg.Coercions)
	assert.Equal(t, "info", cfg.LogLevel)

	env = map[string]string{"TYPECATS_CACHE_SIZE": "many"}
	_, err = config.FromEnv(config.Default(), lookup)
	assert.ErrorContains(t, err, "TYPECATS_ environment")
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("TYPECATS_LOG_LEVEL", "warn")

	cfg, err := config.LoadEnv("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)

	cfg, err = config.LoadEnv(writeFile(t, "typecats.yml", "log_level: error\ncache_size: 3\n"))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 3, cfg.CacheSize)
}

func TestLevel(t *testing.T) {
	level, err := config.Config{}.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)

	_, err = config.Config{LogLevel: "loud"}.Level()
	assert.Error(t, err)
}

func TestConverterOptions(t *testing.T) {
	cfg := config.Default()
	cfg.DetailedValidation = false
	cfg.Coercions = []string{"default", "text_number"}

	opts, err := cfg.ConverterOptions()
	require.NoError(t, err)

	c := convert.New(opts...)
	assert.False(t, c.DetailedValidation())
	assert.Equal(t, primitive.CategoryDefault|primitive.CategoryTextNumber, c.Coercions())

	cfg.Coercions = []string{"guesswork"}
	_, err = cfg.ConverterOptions()
	assert.ErrorContains(t, err, "unknown coercion category")
}
