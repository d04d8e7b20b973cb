package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureUserConfigSeedsDefaults(t *testing.T) {
	dir := t.TempDir()

	path, err := EnsureUserConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.yml"), path)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default().App.Port, cfg.App.Port)
	assert.Equal(t, Default().Polling.SnapshotSeconds, cfg.Polling.SnapshotSeconds)

	// Second call leaves the existing file alone.
	path2, err := EnsureUserConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, path, path2)
}

func TestLoadRoundTripsSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")

	cfg := Default()
	cfg.Backend.BaseURL = "https://backend.example.com/rest/v1"
	cfg.Backend.APIKeyAccount = "kiralet:backend:prod"
	require.NoError(t, SaveAtomic(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)

	// SaveAtomic keeps the previous file as .bak.
	cfg.App.Port = 40000
	require.NoError(t, SaveAtomic(path, cfg))
	_, err = os.Stat(path + ".bak")
	assert.NoError(t, err)
}

func TestNormalizeAndValidate(t *testing.T) {
	cfg := Default()
	cfg.Backend.BaseURL = "  https://backend.example.com/rest/v1/  "

	out, vr := NormalizeAndValidate(cfg)
	assert.True(t, vr.OK())
	assert.Equal(t, "https://backend.example.com/rest/v1", out.Backend.BaseURL)
}

func TestNormalizeAndValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.App.Port = 0
	cfg.Polling.SnapshotSeconds = -1
	cfg.Search.MaxResults = 0
	cfg.Backend.BaseURL = "not a url"

	_, vr := NormalizeAndValidate(cfg)
	assert.False(t, vr.OK())
	assert.Len(t, vr.Errors, 4)
}

func TestSaveAtomicRejectsInvalidConfig(t *testing.T) {
	cfg := Default()
	cfg.App.Port = -1
	err := SaveAtomic(filepath.Join(t.TempDir(), "config.yml"), cfg)
	assert.Error(t, err)
}
