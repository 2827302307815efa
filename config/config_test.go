package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "costing.db", cfg.Database.Path)
	assert.Equal(t, "GBP", cfg.Currency.Base)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func clearEnv(t *testing.T) {
	for _, k := range []string{"COSTING_DB_PATH", "COSTING_LISTEN_ADDR", "COSTING_LOG_LEVEL", "COSTING_BASE_CURRENCY"} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "conf", "costing.yaml")

	cfg := DefaultConfig()
	cfg.Currency.Base = "EUR"
	cfg.Currency.Rates["GBP"] = 1.17
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "EUR", loaded.Currency.Base)
	assert.Equal(t, 1.17, loaded.Currency.Rates["GBP"])

	v, err := loaded.CurrencyConverter().ConvertToBase(10, "GBP")
	require.NoError(t, err)
	assert.InDelta(t, 11.7, v, 1e-9)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("database path", func(t *testing.T) {
		t.Setenv("COSTING_DB_PATH", "/tmp/bakery.db")
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, "/tmp/bakery.db", cfg.Database.Path)
	})

	t.Run("listen addr and level", func(t *testing.T) {
		t.Setenv("COSTING_LISTEN_ADDR", ":9000")
		t.Setenv("COSTING_LOG_LEVEL", "debug")
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, ":9000", cfg.Server.ListenAddr)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("empty values leave config alone", func(t *testing.T) {
		t.Setenv("COSTING_BASE_CURRENCY", "")
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, "GBP", cfg.Currency.Base)
	})
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("currency:\n  rates:\n    EUR: -1\n"), 0o644))
	_, err := Load(bad)
	assert.Error(t, err)

	level := filepath.Join(dir, "level.yaml")
	require.NoError(t, os.WriteFile(level, []byte("logging:\n  level: chatty\n"), 0o644))
	_, err = Load(level)
	assert.Error(t, err)

	garbage := filepath.Join(dir, "garbage.yaml")
	require.NoError(t, os.WriteFile(garbage, []byte("database: [unclosed"), 0o644))
	_, err = Load(garbage)
	assert.Error(t, err)
}
