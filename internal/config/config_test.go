package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatianab/text-rpg/internal/engine"
	"github.com/tatianab/text-rpg/internal/llm"
)

// chdir moves into an empty directory so no stray .env is picked up.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"RPG_CONFIG", "RPG_PROVIDER", "RPG_MODEL", "RPG_API_KEY_ENV", "RPG_BASE_URL",
		"RPG_THINKING_BUDGET", "RPG_REASONING_EFFORT", "RPG_LOG_FILE", "RPG_LOG_LEVEL", "RPG_METRICS_ADDR",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t)
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, llm.ProviderGemini, cfg.Provider)
	assert.Equal(t, llm.DefaultGeminiModel, cfg.Model)
	assert.Equal(t, "GEMINI_API_KEY", cfg.APIKeyEnv)
	assert.Equal(t, engine.DefaultThinkingBudget, cfg.ThinkingBudget)
	assert.Equal(t, "game.log", cfg.LogFile)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	dir := chdir(t)
	clearEnv(t)

	path := filepath.Join(dir, "rpg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
provider: openai
base_url: https://openrouter.ai/api/v1
thinking_budget: 0
log_level: debug
`), 0o644))
	t.Setenv("RPG_CONFIG", path)
	t.Setenv("RPG_MODEL", "deepseek/deepseek-chat")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "deepseek/deepseek-chat", cfg.Model)
	assert.Equal(t, "OPENAI_API_KEY", cfg.APIKeyEnv)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.BaseURL)
	assert.Equal(t, 0, cfg.ThinkingBudget)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "game.log", cfg.LogFile, "unset keys keep their defaults")
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := chdir(t)
	clearEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("RPG_PROVIDER=ollama\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("RPG_PROVIDER") })

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "ollama", cfg.Provider)
	assert.Equal(t, "llama3.1", cfg.Model)
	assert.Empty(t, cfg.APIKeyEnv)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("unknown provider", func(t *testing.T) {
		chdir(t)
		clearEnv(t)
		t.Setenv("RPG_PROVIDER", "carrier-pigeon")

		_, err := LoadConfig()
		assert.ErrorContains(t, err, "unknown provider")
	})

	t.Run("bad thinking budget", func(t *testing.T) {
		chdir(t)
		clearEnv(t)
		t.Setenv("RPG_THINKING_BUDGET", "lots")

		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		chdir(t)
		clearEnv(t)
		t.Setenv("RPG_CONFIG", "does-not-exist.yaml")

		_, err := LoadConfig()
		assert.ErrorContains(t, err, "read config file")
	})
}
