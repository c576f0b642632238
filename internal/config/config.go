// Package config loads and saves the Inkwell YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mkarlin/inkwell/internal/doc"
	"github.com/mkarlin/inkwell/internal/llm"
	"github.com/mkarlin/inkwell/internal/search"
)

const configFileName = ".inkwell.yaml"

// Config is the root configuration document.
type Config struct {
	Relay     RelayConfig    `yaml:"relay,omitempty"`
	Search    SearchConfig   `yaml:"search,omitempty"`
	Fetch     FetchConfig    `yaml:"fetch,omitempty"`
	LLM       llm.Config     `yaml:"llm,omitempty"`
	ImageGen  ImageGenConfig `yaml:"imagegen,omitempty"`
	Store     StoreConfig    `yaml:"store,omitempty"`
	Templates []doc.Template `yaml:"templates,omitempty"`
}

// RelayConfig configures both ends of the research relay.
type RelayConfig struct {
	ListenAddr    string `yaml:"listen_addr,omitempty"`    // server side, default ":8532"
	ServerURL     string `yaml:"server_url,omitempty"`     // client side, default ws://localhost:8532/ws
	AllowedOrigin string `yaml:"allowed_origin,omitempty"` // CORS origin for control endpoints
}

// SearchConfig configures the search engines.
type SearchConfig struct {
	PrimaryEngine string                `yaml:"primary_engine,omitempty"`
	Engines       []search.EngineConfig `yaml:"engines,omitempty"`
}

// FetchConfig configures the URL fetcher.
type FetchConfig struct {
	EnableSSRFProtection bool `yaml:"enable_ssrf_protection"`
}

// ImageGenConfig configures the local image generation endpoint.
type ImageGenConfig struct {
	BaseURL string `yaml:"base_url,omitempty"`
}

// StoreConfig configures the draft/settings store.
type StoreConfig struct {
	Path          string `yaml:"path,omitempty"`
	RetentionDays int    `yaml:"retention_days,omitempty"` // 0 keeps drafts forever
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Relay: RelayConfig{
			ListenAddr: ":8532",
			ServerURL:  "ws://localhost:8532/ws",
		},
		Search: SearchConfig{
			PrimaryEngine: "tavily",
			Engines: []search.EngineConfig{
				{Name: "tavily", Type: "tavily", Enabled: false, Priority: 1},
			},
		},
		Fetch: FetchConfig{
			EnableSSRFProtection: true,
		},
		LLM: llm.Config{
			Provider: "openai",
			BaseURL:  "http://localhost:1234/v1",
			Model:    "local-model",
		},
		ImageGen: ImageGenConfig{
			BaseURL: "http://localhost:7860",
		},
		Store: StoreConfig{
			Path: defaultStorePath(),
		},
	}
}

// Path returns the config file location: $INKWELL_CONFIG when set,
// otherwise ~/.inkwell.yaml.
func Path() string {
	if p := os.Getenv("INKWELL_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return configFileName
	}
	return filepath.Join(home, configFileName)
}

// Load reads the config file, returning defaults when it is absent.
func Load() (*Config, error) {
	return LoadFromPath(Path())
}

// LoadFromPath reads a config file from an explicit location.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Save writes the config back to its default location.
func (c *Config) Save() error {
	return c.SaveToPath(Path())
}

// SaveToPath writes the config to an explicit location.
func (c *Config) SaveToPath(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".inkwell", "inkwell.db")
	}
	return filepath.Join(home, ".inkwell", "inkwell.db")
}
