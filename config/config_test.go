package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaultsWhenNoFileOrEnv(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "procon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_url: https://override.example.test\nworkers: 4\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://override.example.test", cfg.ServerURL)
	require.Equal(t, 4, cfg.Workers)
	require.Equal(t, Default().ReferenceDir, cfg.ReferenceDir)
}

func TestLoadMergesEnvOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "procon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("token: file-token\n"), 0o600))

	t.Setenv("PROCON_TOKEN", "env-token")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "env-token", cfg.Token)
}

func TestLoadIgnoresMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}
