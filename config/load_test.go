package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.InDelta(t, 0.6, cfg.OpenAI.Temperature, 1e-9)
	assert.Equal(t, 3, cfg.OpenAI.MaxRetries)
	assert.Equal(t, 1500, cfg.OpenAI.RetryBackoffMs)
	assert.Equal(t, 250, cfg.Synth.ChunkSize)
	assert.Equal(t, "output", cfg.Synth.OutputDir)
	assert.Equal(t, "localhost", cfg.Export.Host)
	assert.Equal(t, 5432, cfg.Export.Port)
	assert.Equal(t, "hapi", cfg.Export.Database)
	assert.Equal(t, "disable", cfg.Export.SSLMode)
}

func TestLoadIsCached(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	first, err := Load()
	require.NoError(t, err)
	second, err := Load()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestEnvironmentOverrides(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	t.Setenv("OPENAI_API_KEY", "sk-test-123")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("QRFORGE_SYNTH_CHUNK_SIZE", "100")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-test-123", cfg.OpenAI.APIKey)
	assert.Equal(t, "db.internal", cfg.Export.Host)
	assert.Equal(t, 100, cfg.Synth.ChunkSize)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "qrforge.toml")
	content := `
[openai]
model = "local-llama"
base_url = "http://localhost:8080/v1"

[synth]
chunk_size = 50
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "local-llama", cfg.OpenAI.Model)
	assert.Equal(t, "http://localhost:8080/v1", cfg.OpenAI.BaseURL)
	assert.Equal(t, 50, cfg.Synth.ChunkSize)
	// Untouched keys keep their defaults.
	assert.Equal(t, 3, cfg.OpenAI.MaxRetries)

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := LoadFromFile(filepath.Join(dir, "absent.toml"))
		assert.Error(t, err)
	})
}
