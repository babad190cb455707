package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"sample size", func(c *Config) { c.Inference.SampleSize = 0 }, "sample_size"},
		{"match ratio", func(c *Config) { c.Inference.MatchRatio = 1.5 }, "match_ratio"},
		{"delimiters", func(c *Config) { c.Loader.Delimiters = nil }, "delimiters"},
		{"multi-char delimiter", func(c *Config) { c.Loader.Delimiters = []string{"||"} }, "single character"},
		{"compression", func(c *Config) { c.Export.Compression = "brotli" }, "compression"},
		{"store dsn", func(c *Config) { c.Store.Enabled = true; c.Store.DSN = "" }, "store.dsn"},
		{"sample rate", func(c *Config) { c.Observability.TracingSampleRate = 2 }, "tracing_sample_rate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadOverlaysDefaultsAndSubstitutesEnv(t *testing.T) {
	t.Setenv("TYPEINFER_TEST_DSN", "file:from-env.db")

	path := filepath.Join(t.TempDir(), "typeinfer.yaml")
	content := `
inference:
  sample_size: 250
export:
  compression: gzip
store:
  enabled: true
  dsn: ${TYPEINFER_TEST_DSN}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.Inference.SampleSize)
	assert.Equal(t, 0.8, cfg.Inference.MatchRatio)
	assert.Equal(t, "gzip", cfg.Export.Compression)
	assert.Equal(t, "sqlite", cfg.Store.Kind)
	assert.Equal(t, "file:from-env.db", cfg.Store.DSN)
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("inference:\n  sample_size: -1\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := Default()
	cfg.Export.Dir = "/tmp/out"
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Inference, loaded.Inference)
	assert.Equal(t, cfg.Export, loaded.Export)
	assert.Equal(t, cfg.Store, loaded.Store)
	assert.Equal(t, cfg.Loader.Delimiters, loaded.Loader.Delimiters)
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("A_VAR", "one")
	assert.Equal(t, "x=one y=", substituteEnvVars("x=${A_VAR} y=${UNSET_VAR_FOR_TEST}"))
	assert.Equal(t, "open ${brace", substituteEnvVars("open ${brace"))
}
