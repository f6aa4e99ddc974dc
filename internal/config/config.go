// Package config handles loading and validating adapter configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the top-level configuration for the geminibridge adapter.
type Config struct {
	Server ServerConfig `koanf:"server"`
	Gemini GeminiConfig `koanf:"gemini"`
	Cache  CacheConfig  `koanf:"cache"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

// GeminiConfig holds the provider credentials and model identifiers.
type GeminiConfig struct {
	APIKey         string `koanf:"api_key"`
	BaseURL        string `koanf:"base_url"`
	Model          string `koanf:"model"`
	EmbeddingModel string `koanf:"embedding_model"`
	Tokenizer      string `koanf:"tokenizer"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	// Backend is "memory" (default) or "redis".
	Backend   string        `koanf:"backend"`
	RedisAddr string        `koanf:"redis_addr"`
	TTL       time.Duration `koanf:"ttl"`
}

// Load reads configuration from a YAML file, layers environment
// variable overrides on top, and returns a fully populated Config.
// Any env var starting with GEMINIBRIDGE_ overrides a config value:
// GEMINIBRIDGE_SERVER_PORT → server.port.
func Load(path string) (*Config, error) {
	// Load .env into the process environment (ignored if not present).
	_ = godotenv.Load()

	k := koanf.New(".")

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("loading config file: %w", err)
	}

	if err := k.Load(env.Provider("GEMINIBRIDGE_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "GEMINIBRIDGE_")),
			"_", ".",
		)
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand a ${VAR_NAME} placeholder in the API key. koanf doesn't do
	// this automatically, so we resolve it against the environment.
	if strings.HasPrefix(cfg.Gemini.APIKey, "${") && strings.HasSuffix(cfg.Gemini.APIKey, "}") {
		cfg.Gemini.APIKey = os.Getenv(cfg.Gemini.APIKey[2 : len(cfg.Gemini.APIKey)-1])
	}

	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.Cache.Backend == "redis" && cfg.Cache.RedisAddr == "" {
		return nil, fmt.Errorf("cache.backend is redis but cache.redis_addr is empty")
	}

	return &cfg, nil
}
