package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerate(t *testing.T) {
	imageBytes := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sdapi/v1/txt2img" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if req.Prompt != "a lighthouse at dusk" {
			t.Errorf("prompt = %q", req.Prompt)
		}
		if req.Steps != defaultSteps || req.Width != defaultSize || req.Height != defaultSize {
			t.Errorf("defaults not applied: %+v", req)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"images": []string{base64.StdEncoding.EncodeToString(imageBytes)},
		})
	}))
	defer ts.Close()

	c := NewClient(ts.URL + "/")
	got, err := c.Generate(context.Background(), GenerateRequest{Prompt: "a lighthouse at dusk"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !bytes.Equal(got, imageBytes) {
		t.Errorf("image bytes = %v, want %v", got, imageBytes)
	}
}

func TestGenerateRejectsEmptyPrompt(t *testing.T) {
	c := NewClient("http://localhost:1")
	if _, err := c.Generate(context.Background(), GenerateRequest{Prompt: "  "}); err == nil {
		t.Fatal("expected error for empty prompt")
	}
}

func TestGenerateStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "out of memory", http.StatusInternalServerError)
	}))
	defer ts.Close()

	if _, err := NewClient(ts.URL).Generate(context.Background(), GenerateRequest{Prompt: "x"}); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestGenerateNoImages(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"images":[]}`))
	}))
	defer ts.Close()

	if _, err := NewClient(ts.URL).Generate(context.Background(), GenerateRequest{Prompt: "x"}); err == nil {
		t.Fatal("expected error for empty image list")
	}
}
