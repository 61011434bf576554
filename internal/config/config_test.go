package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadConfig(context.Background())
	require.NoError(t, err)
	require.Equal(t, "gpt-4o-mini", cfg.Model)
	require.Equal(t, "https://api.openai.com/v1", cfg.APIBase)
	require.Equal(t, 3, cfg.Options)
	require.Equal(t, "alloy", cfg.Voice)
}

func TestLoadConfigMergesFileWithDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	dir := filepath.Join(home, "polyglot")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	data := []byte("model: gpt-4o\ntarget_language: Japanese\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0o644))

	cfg, err := LoadConfig(context.Background())
	require.NoError(t, err)
	require.Equal(t, "gpt-4o", cfg.Model)
	require.Equal(t, "Japanese", cfg.TargetLanguage)
	// Unset keys keep their defaults.
	require.Equal(t, "tts-1", cfg.SpeechModel)
	require.Equal(t, 3, cfg.Options)
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	dir := filepath.Join(home, "polyglot")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("model: [\n"), 0o644))

	_, err := LoadConfig(context.Background())
	require.Error(t, err)
}
