package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Relay.ListenAddr != ":8532" {
		t.Errorf("listen_addr = %q", cfg.Relay.ListenAddr)
	}
	if cfg.Relay.ServerURL != "ws://localhost:8532/ws" {
		t.Errorf("server_url = %q", cfg.Relay.ServerURL)
	}
	if !cfg.Fetch.EnableSSRFProtection {
		t.Error("ssrf protection disabled by default")
	}
	if cfg.Store.Path == "" {
		t.Error("store path empty")
	}
	if len(cfg.Search.Engines) == 0 {
		t.Fatal("no default engines")
	}
	if cfg.Search.Engines[0].Enabled {
		t.Error("tavily enabled by default without api key")
	}
}

func TestLoadFromPathMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Relay.ListenAddr != ":8532" {
		t.Errorf("missing file did not yield defaults: %+v", cfg.Relay)
	}
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inkwell.yaml")
	raw := `
relay:
  listen_addr: ":9000"
  server_url: "ws://relay.example:9000/ws"
  allowed_origin: "https://app.example.com"
search:
  primary_engine: docs
  engines:
    - name: docs
      type: custom
      base_url: "http://localhost:8080/search"
      enabled: true
      priority: 1
llm:
  provider: anthropic
  model: claude-sonnet-4-20250514
store:
  path: /tmp/inkwell-test.db
  retention_days: 30
templates:
  - name: memo
    description: Internal memo
    body: "To: {{to}}\n\n{{body}}"
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Relay.ListenAddr != ":9000" {
		t.Errorf("listen_addr = %q", cfg.Relay.ListenAddr)
	}
	if cfg.Relay.AllowedOrigin != "https://app.example.com" {
		t.Errorf("allowed_origin = %q", cfg.Relay.AllowedOrigin)
	}
	if cfg.Search.PrimaryEngine != "docs" {
		t.Errorf("primary_engine = %q", cfg.Search.PrimaryEngine)
	}
	if len(cfg.Search.Engines) != 1 || cfg.Search.Engines[0].Type != "custom" {
		t.Errorf("engines = %+v", cfg.Search.Engines)
	}
	if cfg.LLM.Provider != "anthropic" {
		t.Errorf("llm provider = %q", cfg.LLM.Provider)
	}
	if cfg.Store.RetentionDays != 30 {
		t.Errorf("retention_days = %d", cfg.Store.RetentionDays)
	}
	if len(cfg.Templates) != 1 || cfg.Templates[0].Name != "memo" {
		t.Errorf("templates = %+v", cfg.Templates)
	}
	// Sections absent from the file keep their defaults.
	if !cfg.Fetch.EnableSSRFProtection {
		t.Error("fetch defaults lost on partial config")
	}
	if cfg.ImageGen.BaseURL != "http://localhost:7860" {
		t.Errorf("imagegen base_url = %q", cfg.ImageGen.BaseURL)
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "inkwell.yaml")

	cfg := DefaultConfig()
	cfg.Relay.ListenAddr = ":7777"
	cfg.Store.RetentionDays = 14
	if err := cfg.SaveToPath(path); err != nil {
		t.Fatalf("SaveToPath failed: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if loaded.Relay.ListenAddr != ":7777" {
		t.Errorf("listen_addr = %q after reload", loaded.Relay.ListenAddr)
	}
	if loaded.Store.RetentionDays != 14 {
		t.Errorf("retention_days = %d after reload", loaded.Store.RetentionDays)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config file mode = %o, want 600", perm)
	}
}

func TestPathEnvOverride(t *testing.T) {
	t.Setenv("INKWELL_CONFIG", "/tmp/custom-inkwell.yaml")
	if got := Path(); got != "/tmp/custom-inkwell.yaml" {
		t.Errorf("Path() = %q", got)
	}
}
