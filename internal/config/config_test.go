package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != BackendLocal {
		t.Errorf("backend = %q, want %q", cfg.Backend, BackendLocal)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("server addr = %q, want :8080", cfg.Server.Addr)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paperchase.yml")
	content := `root: /srv/papers
backend: remote
generation:
  model: gpt-4o-mini
  api_key_env: OPENAI_API_KEY
embedding:
  model: text-embedding-3-small
  dimensions: 1536
  api_key_env: OPENAI_API_KEY
rerank:
  endpoint: http://reranker:8090
server:
  addr: ":9000"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Root != "/srv/papers" {
		t.Errorf("root = %q", cfg.Root)
	}
	if cfg.Backend != BackendRemote {
		t.Errorf("backend = %q", cfg.Backend)
	}
	if cfg.Generation.Model != "gpt-4o-mini" {
		t.Errorf("generation model = %q", cfg.Generation.Model)
	}
	if cfg.Embedding.Dimensions != 1536 {
		t.Errorf("embedding dimensions = %d", cfg.Embedding.Dimensions)
	}
	if cfg.Rerank.Endpoint != "http://reranker:8090" {
		t.Errorf("rerank endpoint = %q", cfg.Rerank.Endpoint)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("server addr = %q", cfg.Server.Addr)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paperchase.yml")
	if err := os.WriteFile(path, []byte("backend: cloud\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestLoadRemoteRequiresCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paperchase.yml")
	if err := os.WriteFile(path, []byte("backend: remote\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for remote backend without credentials")
	}
}
