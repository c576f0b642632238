// Package search provides pluggable web search providers behind a
// common Engine interface, with priority-ordered failover across the
// configured engines.
package search

import "context"

type Engine interface {
	Name() string
	Type() string
	Search(ctx context.Context, query string, limit int) (*Response, error)
	IsEnabled() bool
	Priority() int
}

type EngineFactory func(config EngineConfig) (Engine, error)

type EngineConfig struct {
	Name     string         `yaml:"name"`
	Type     string         `yaml:"type"`
	APIKey   string         `yaml:"api_key,omitempty"`
	BaseURL  string         `yaml:"base_url,omitempty"`
	Enabled  bool           `yaml:"enabled"`
	Priority int            `yaml:"priority"`
	Options  map[string]any `yaml:"options,omitempty"`
}
