package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/tatianab/text-rpg/internal/engine"
	"github.com/tatianab/text-rpg/internal/llm"
)

// EnvPrefix prefixes every environment override, e.g. RPG_PROVIDER.
const EnvPrefix = "RPG"

// Config holds the application configuration.
type Config struct {
	Provider        string `yaml:"provider" envconfig:"PROVIDER"`
	Model           string `yaml:"model" envconfig:"MODEL"`
	APIKeyEnv       string `yaml:"api_key_env" envconfig:"API_KEY_ENV"`
	BaseURL         string `yaml:"base_url" envconfig:"BASE_URL"`
	ThinkingBudget  int    `yaml:"thinking_budget" envconfig:"THINKING_BUDGET"`
	ReasoningEffort string `yaml:"reasoning_effort" envconfig:"REASONING_EFFORT"`

	LogFile     string `yaml:"log_file" envconfig:"LOG_FILE"`
	LogLevel    string `yaml:"log_level" envconfig:"LOG_LEVEL"`
	MetricsAddr string `yaml:"metrics_addr" envconfig:"METRICS_ADDR"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Provider:       llm.ProviderGemini,
		ThinkingBudget: engine.DefaultThinkingBudget,
		LogFile:        "game.log",
		LogLevel:       "info",
	}
}

var defaultModels = map[string]string{
	llm.ProviderGemini: llm.DefaultGeminiModel,
	llm.ProviderOpenAI: "gpt-4o-mini",
	llm.ProviderOllama: "llama3.1",
}

var defaultKeyEnvs = map[string]string{
	llm.ProviderGemini: "GEMINI_API_KEY",
	llm.ProviderOpenAI: "OPENAI_API_KEY",
}

// LoadConfig layers, lowest first: defaults, a .env file, the YAML file
// named by RPG_CONFIG, and RPG_* environment variables. The API key itself
// is not read here; backends read it from APIKeyEnv on each call.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path := os.Getenv(EnvPrefix + "_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) finalize() error {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	model, ok := defaultModels[c.Provider]
	if !ok {
		return fmt.Errorf("unknown provider %q (want gemini, openai or ollama)", c.Provider)
	}
	if c.Model == "" {
		c.Model = model
	}
	if c.APIKeyEnv == "" {
		c.APIKeyEnv = defaultKeyEnvs[c.Provider]
	}
	if c.ThinkingBudget < 0 {
		return fmt.Errorf("thinking budget must not be negative, got %d", c.ThinkingBudget)
	}
	return nil
}
