package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MISPRICING_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "local", cfg.Provider.Mode)
	require.Equal(t, "http://127.0.0.1:5000", cfg.Provider.BaseURL)
	require.NotEmpty(t, cfg.Database.Path)
	require.Equal(t, "UTC", cfg.UI.Timezone)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[provider]
mode = "http"
base_url = "http://analysis.internal:8080"

[database]
path = "/tmp/mispricing-test.db"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("MISPRICING_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http", cfg.Provider.Mode)
	require.Equal(t, "http://analysis.internal:8080", cfg.Provider.BaseURL)
	require.Equal(t, "/tmp/mispricing-test.db", cfg.Database.Path)
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[provider]\nmode = \"carrier-pigeon\"\n"), 0o644))
	t.Setenv("MISPRICING_CONFIG", path)

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "provider.mode")
}

func TestResolveKeysFallBackToEnv(t *testing.T) {
	t.Setenv("MISPRICING_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("FMP_API_KEY", "fmp-from-env")
	t.Setenv("SEC_API_KEY", "sec-from-env")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "fmp-from-env", cfg.ResolveFMPKey())
	require.Equal(t, "sec-from-env", cfg.ResolveSECKey())

	cfg.Provider.FMPKey = "literal"
	require.Equal(t, "literal", cfg.ResolveFMPKey())
}
