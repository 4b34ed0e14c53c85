package generate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewOllamaGenerator_Defaults(t *testing.T) {
	g := NewOllamaGenerator()

	if g.baseURL != DefaultOllamaURL {
		t.Errorf("baseURL = %s, want %s", g.baseURL, DefaultOllamaURL)
	}
	if g.model != DefaultOllamaModel {
		t.Errorf("model = %s, want %s", g.model, DefaultOllamaModel)
	}
	if g.client == nil {
		t.Error("client should not be nil")
	}
}

func TestNewOllamaGenerator_WithOptions(t *testing.T) {
	g := NewOllamaGenerator(
		WithBaseURL("http://custom:8080"),
		WithModel("custom-model"),
		WithTimeout(5*time.Second),
	)

	if g.baseURL != "http://custom:8080" {
		t.Errorf("baseURL = %s, want http://custom:8080", g.baseURL)
	}
	if g.ModelName() != "custom-model" {
		t.Errorf("ModelName() = %s, want custom-model", g.ModelName())
	}
	if g.client.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", g.client.Timeout)
	}
}

func TestOllamaGenerator_Generate(t *testing.T) {
	var gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != apiPathGenerate {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req ollamaGenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		gotPrompt = req.Prompt
		json.NewEncoder(w).Encode(ollamaGenerateResponse{Response: "transformers, attention"})
	}))
	defer server.Close()

	g := NewOllamaGenerator(WithBaseURL(server.URL))
	out, err := g.Generate(context.Background(), "Extract keywords")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "transformers, attention" {
		t.Errorf("Generate() = %q, want %q", out, "transformers, attention")
	}
	if gotPrompt != "Extract keywords" {
		t.Errorf("server received prompt %q", gotPrompt)
	}
}

func TestOllamaGenerator_GenerateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	g := NewOllamaGenerator(WithBaseURL(server.URL))
	_, err := g.Generate(context.Background(), "anything")
	if !errors.Is(err, ErrGeneration) {
		t.Errorf("expected ErrGeneration, got %v", err)
	}
}

func TestOllamaGenerator_GenerateUnreachable(t *testing.T) {
	g := NewOllamaGenerator(WithBaseURL("http://127.0.0.1:1"), WithTimeout(time.Second))
	_, err := g.Generate(context.Background(), "anything")
	if !errors.Is(err, ErrGeneration) {
		t.Errorf("expected ErrGeneration, got %v", err)
	}
}
