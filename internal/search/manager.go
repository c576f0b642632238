package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mkarlin/inkwell/internal/relay"
)

// Manager owns the configured engines and answers queries with
// priority-ordered failover: the first enabled engine that returns
// results wins.
type Manager struct {
	registry      *Registry
	engines       map[string]Engine
	primaryEngine string
	mu            sync.RWMutex
}

func NewManager(primary string, configs []EngineConfig, registry *Registry) (*Manager, error) {
	m := &Manager{
		registry:      registry,
		engines:       make(map[string]Engine),
		primaryEngine: primary,
	}

	for _, cfg := range configs {
		if !cfg.Enabled {
			continue
		}
		engine, err := registry.CreateEngine(cfg)
		if err != nil {
			return nil, err
		}
		m.engines[cfg.Name] = engine
	}

	return m, nil
}

func (m *Manager) AddEngine(config EngineConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	engine, err := m.registry.CreateEngine(config)
	if err != nil {
		return err
	}

	m.engines[config.Name] = engine
	return nil
}

func (m *Manager) ListEngines() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.engines))
	for name := range m.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Search runs the query against the engines in priority order until one
// returns results. An empty query is rejected before any engine is
// consulted.
func (m *Manager) Search(ctx context.Context, query string, limit int) (*Response, error) {
	if strings.TrimSpace(query) == "" {
		return nil, relay.Errorf(relay.KindInvalidArgument, "query must not be empty")
	}
	if limit <= 0 {
		limit = 5
	}

	engines := m.orderedEngines()
	if len(engines) == 0 {
		return nil, fmt.Errorf("no search engine configured")
	}

	var lastErr error
	for _, engine := range engines {
		resp, err := engine.Search(ctx, query, limit)
		if err == nil && len(resp.Results) > 0 {
			return resp, nil
		}
		if err != nil {
			lastErr = err
		}
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, relay.Errorf(relay.KindFetch, "all search engines returned no results")
}

// SearchWithEngine runs the query against one named engine.
func (m *Manager) SearchWithEngine(ctx context.Context, engineName, query string, limit int) (*Response, error) {
	if strings.TrimSpace(query) == "" {
		return nil, relay.Errorf(relay.KindInvalidArgument, "query must not be empty")
	}

	m.mu.RLock()
	engine, ok := m.engines[engineName]
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("engine not found: %s", engineName)
	}

	return engine.Search(ctx, query, limit)
}

// orderedEngines returns the enabled engines sorted by priority, with
// the primary engine first among equals.
func (m *Manager) orderedEngines() []Engine {
	m.mu.RLock()
	defer m.mu.RUnlock()

	engines := make([]Engine, 0, len(m.engines))
	for _, e := range m.engines {
		if e.IsEnabled() {
			engines = append(engines, e)
		}
	}

	sort.SliceStable(engines, func(i, j int) bool {
		if engines[i].Priority() != engines[j].Priority() {
			return engines[i].Priority() < engines[j].Priority()
		}
		return engines[i].Name() == m.primaryEngine && engines[j].Name() != m.primaryEngine
	})
	return engines
}

// FormatResults renders a response as readable text for CLI output.
func FormatResults(resp *Response) string {
	if resp == nil || len(resp.Results) == 0 {
		return "No results found."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Search results (%s, %v)\n\n", resp.Engine, resp.Duration.Round(time.Millisecond)))

	for i, result := range resp.Results {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, result.Title))
		sb.WriteString(fmt.Sprintf("   %s\n", result.URL))
		if result.Snippet != "" {
			sb.WriteString(fmt.Sprintf("   %s\n", result.Snippet))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
