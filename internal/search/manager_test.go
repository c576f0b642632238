package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mkarlin/inkwell/internal/relay"
)

type fakeEngine struct {
	name     string
	priority int
	enabled  bool
	results  []Result
	err      error
	calls    int
}

func (e *fakeEngine) Name() string    { return e.name }
func (e *fakeEngine) Type() string    { return "fake" }
func (e *fakeEngine) IsEnabled() bool { return e.enabled }
func (e *fakeEngine) Priority() int   { return e.priority }

func (e *fakeEngine) Search(_ context.Context, query string, _ int) (*Response, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return &Response{Query: query, Results: e.results, Engine: e.name}, nil
}

func newFakeManager(primary string, engines ...*fakeEngine) *Manager {
	m := &Manager{
		registry:      NewRegistry(),
		engines:       make(map[string]Engine),
		primaryEngine: primary,
	}
	for _, e := range engines {
		m.engines[e.name] = e
	}
	return m
}

func TestManagerRejectsEmptyQuery(t *testing.T) {
	engine := &fakeEngine{name: "a", enabled: true, results: []Result{{Title: "x"}}}
	m := newFakeManager("a", engine)

	for _, query := range []string{"", "   ", "\t\n"} {
		_, err := m.Search(context.Background(), query, 5)
		if !relay.IsKind(err, relay.KindInvalidArgument) {
			t.Errorf("Search(%q) error = %v, want invalid_argument", query, err)
		}
	}
	if engine.calls != 0 {
		t.Errorf("engine consulted %d times for empty queries, want 0", engine.calls)
	}
}

func TestManagerFailover(t *testing.T) {
	failing := &fakeEngine{name: "broken", priority: 1, enabled: true, err: errors.New("engine down")}
	working := &fakeEngine{name: "backup", priority: 2, enabled: true, results: []Result{{Title: "hit"}}}
	m := newFakeManager("broken", failing, working)

	resp, err := m.Search(context.Background(), "golang", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if resp.Engine != "backup" {
		t.Errorf("answered by %q, want backup", resp.Engine)
	}
	if failing.calls != 1 {
		t.Errorf("primary consulted %d times, want 1", failing.calls)
	}
}

func TestManagerPrimaryWinsAmongEqualPriority(t *testing.T) {
	a := &fakeEngine{name: "a", priority: 1, enabled: true, results: []Result{{Title: "from a"}}}
	b := &fakeEngine{name: "b", priority: 1, enabled: true, results: []Result{{Title: "from b"}}}
	m := newFakeManager("b", a, b)

	resp, err := m.Search(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if resp.Engine != "b" {
		t.Errorf("answered by %q, want primary b", resp.Engine)
	}
	if a.calls != 0 {
		t.Errorf("non-primary consulted before primary")
	}
}

func TestManagerSkipsDisabledEngines(t *testing.T) {
	disabled := &fakeEngine{name: "off", priority: 1, enabled: false, results: []Result{{Title: "nope"}}}
	enabled := &fakeEngine{name: "on", priority: 2, enabled: true, results: []Result{{Title: "yes"}}}
	m := newFakeManager("off", disabled, enabled)

	resp, err := m.Search(context.Background(), "q", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if resp.Engine != "on" {
		t.Errorf("answered by %q, want on", resp.Engine)
	}
	if disabled.calls != 0 {
		t.Errorf("disabled engine consulted")
	}
}

func TestManagerAllEnginesFail(t *testing.T) {
	sentinel := errors.New("engine down")
	m := newFakeManager("a",
		&fakeEngine{name: "a", enabled: true, err: sentinel},
		&fakeEngine{name: "b", enabled: true, err: sentinel},
	)

	_, err := m.Search(context.Background(), "q", 5)
	if !errors.Is(err, sentinel) {
		t.Fatalf("error = %v, want last engine error", err)
	}
}

func TestManagerNoEngines(t *testing.T) {
	m := newFakeManager("a")
	if _, err := m.Search(context.Background(), "q", 5); err == nil {
		t.Fatal("expected error with no engines configured")
	}
}

func TestSearchWithEngine(t *testing.T) {
	a := &fakeEngine{name: "a", enabled: true, results: []Result{{Title: "direct"}}}
	m := newFakeManager("a", a)

	resp, err := m.SearchWithEngine(context.Background(), "a", "q", 3)
	if err != nil {
		t.Fatalf("SearchWithEngine failed: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Title != "direct" {
		t.Errorf("unexpected results: %+v", resp.Results)
	}

	if _, err := m.SearchWithEngine(context.Background(), "missing", "q", 3); err == nil {
		t.Error("expected error for unknown engine")
	}
}

func TestNewManagerSkipsDisabledConfigs(t *testing.T) {
	m, err := NewManager("main", []EngineConfig{
		{Name: "main", Type: "tavily", Enabled: true},
		{Name: "spare", Type: "tavily", Enabled: false},
	}, NewRegistry())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	got := m.ListEngines()
	if len(got) != 1 || got[0] != "main" {
		t.Errorf("engines = %v, want [main]", got)
	}
}

func TestFormatResults(t *testing.T) {
	if got := FormatResults(nil); got != "No results found." {
		t.Errorf("FormatResults(nil) = %q", got)
	}

	resp := &Response{
		Engine: "test",
		Results: []Result{
			{Title: "First", URL: "https://a.example", Snippet: "snippet one"},
			{Title: "Second", URL: "https://b.example"},
		},
	}
	got := FormatResults(resp)
	for _, want := range []string{"1. First", "https://a.example", "snippet one", "2. Second"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatted output missing %q:\n%s", want, got)
		}
	}
}
