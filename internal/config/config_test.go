package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, 100, cfg.Reasoner.BagLevel)
}

func TestLoadOverlaysJSONFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"storage":{"backend":"sqlite","dsn":"test.db"}}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "test.db", cfg.Storage.DSN)
	assert.Equal(t, 100, cfg.Reasoner.BagLevel) // untouched fields keep their defaults
}

func TestLoadOverlaysEnv(t *testing.T) {
	t.Setenv("NARS_BUDGET_THRESHOLD", "0.25")
	t.Setenv("NARS_DEBUG", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.InDelta(t, 0.25, cfg.Reasoner.BudgetThreshold, 1e-9)
	assert.True(t, cfg.Logging.Debug)
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = "carrier-pigeon"
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadHyperparameter(t *testing.T) {
	cfg := Default()
	cfg.Reasoner.BagLevel = 0
	assert.Error(t, cfg.Validate())
}
