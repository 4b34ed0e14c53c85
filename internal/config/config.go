// Package config handles process configuration: data paths and the
// selection of model backends for each pluggable capability.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Backend names the execution mode for model capabilities.
const (
	// BackendLocal runs generation and embedding against a local Ollama.
	BackendLocal = "local"

	// BackendRemote runs generation and embedding against an
	// OpenAI-compatible endpoint.
	BackendRemote = "remote"
)

// DefaultConfigFile is the conventional config filename.
const DefaultConfigFile = "paperchase.yml"

// Config is the process configuration. Pipeline code never branches on the
// backend value; concrete providers are constructed once at startup.
type Config struct {
	// Root is the data root holding data/processed/, index/, and cache/.
	Root string `yaml:"root"`

	// Backend selects local or remote model execution.
	Backend string `yaml:"backend"`

	Generation GenerationConfig `yaml:"generation"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Rerank     RerankConfig     `yaml:"rerank"`
	Server     ServerConfig     `yaml:"server"`
}

// GenerationConfig configures the text-generation capability.
type GenerationConfig struct {
	Model     string `yaml:"model"`
	Endpoint  string `yaml:"endpoint"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// EmbeddingConfig configures the embedding capability.
type EmbeddingConfig struct {
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	Endpoint   string `yaml:"endpoint"`
	APIKeyEnv  string `yaml:"api_key_env"`
}

// RerankConfig configures the cross-encoder scoring endpoint.
type RerankConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Root:    ".",
		Backend: BackendLocal,
		Rerank:  RerankConfig{Endpoint: "http://localhost:8090"},
		Server:  ServerConfig{Addr: ":8080"},
	}
}

// Load reads and validates the config file at path. A missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if cfg.Backend != BackendLocal && cfg.Backend != BackendRemote {
		return nil, fmt.Errorf("invalid backend %q (expected %q or %q)",
			cfg.Backend, BackendLocal, BackendRemote)
	}
	if cfg.Backend == BackendRemote && cfg.Generation.Endpoint == "" && cfg.Generation.APIKeyEnv == "" {
		return nil, fmt.Errorf("remote backend requires generation endpoint or api_key_env")
	}
	if cfg.Root == "" {
		cfg.Root = "."
	}

	return cfg, nil
}

// APIKey resolves the environment variable named by env, if any.
func APIKey(env string) string {
	if env == "" {
		return ""
	}
	return os.Getenv(env)
}

// CachePath returns the annotation cache path under root.
func (c *Config) CachePath() string {
	return filepath.Join(c.Root, "cache", "annotations.jsonl")
}
