package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAICompatProviderComplete(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
			MaxTokens int `json:"max_tokens"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if req.Model != "local-model" {
			t.Errorf("model = %q", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("messages = %+v", req.Messages)
		}
		if req.MaxTokens != 1024 {
			t.Errorf("max_tokens = %d, want default 1024", req.MaxTokens)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "Drafted reply."}},
			},
		})
	}))
	defer ts.Close()

	p, err := NewOpenAICompatProvider(Config{Model: "local-model", BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("NewOpenAICompatProvider failed: %v", err)
	}

	out, err := p.Complete(context.Background(), CompletionRequest{
		System: "You help write documents.",
		Prompt: "Draft a reply.",
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if out != "Drafted reply." {
		t.Errorf("output = %q", out)
	}
}

func TestNewOpenAICompatProviderRequiresModel(t *testing.T) {
	if _, err := NewOpenAICompatProvider(Config{}); err == nil {
		t.Fatal("expected error for missing model")
	}
}
