package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/paperchase/paperchase/internal/metrics"
)

const (
	// DefaultOllamaURL is the default Ollama API endpoint.
	DefaultOllamaURL = "http://localhost:11434"

	// DefaultOllamaModel is the default local generation model.
	DefaultOllamaModel = "llama3.2"

	// DefaultOllamaTimeout is the timeout for generation requests.
	DefaultOllamaTimeout = 120 * time.Second

	// apiPathGenerate is the Ollama API endpoint for text generation.
	apiPathGenerate = "/api/generate"
)

// OllamaGenerator generates text using a local Ollama server.
type OllamaGenerator struct {
	baseURL string
	model   string
	client  *http.Client
}

// OllamaOption configures an OllamaGenerator.
type OllamaOption func(*OllamaGenerator)

// WithBaseURL sets the Ollama API base URL.
func WithBaseURL(url string) OllamaOption {
	return func(g *OllamaGenerator) {
		g.baseURL = url
	}
}

// WithModel sets the generation model.
func WithModel(model string) OllamaOption {
	return func(g *OllamaGenerator) {
		g.model = model
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) OllamaOption {
	return func(g *OllamaGenerator) {
		g.client.Timeout = timeout
	}
}

// NewOllamaGenerator creates a new Ollama generation provider.
func NewOllamaGenerator(opts ...OllamaOption) *OllamaGenerator {
	g := &OllamaGenerator{
		baseURL: DefaultOllamaURL,
		model:   DefaultOllamaModel,
		client:  &http.Client{Timeout: DefaultOllamaTimeout},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
}

// Generate implements Generator.
func (g *OllamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := ollamaGenerateRequest{
		Model:  g.model,
		Prompt: prompt,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+apiPathGenerate, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues("ollama", g.model, "error").Inc()
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.GenerationRequestsTotal.WithLabelValues("ollama", g.model, "error").Inc()
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: ollama returned status %d: %s", ErrGeneration, resp.StatusCode, respBody)
	}

	var genResp ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues("ollama", g.model, "error").Inc()
		return "", fmt.Errorf("%w: decoding response: %v", ErrGeneration, err)
	}

	metrics.GenerationRequestsTotal.WithLabelValues("ollama", g.model, "success").Inc()
	metrics.GenerationRequestDuration.WithLabelValues("ollama", g.model).Observe(time.Since(start).Seconds())

	return genResp.Response, nil
}

// ModelName implements Generator.
func (g *OllamaGenerator) ModelName() string {
	return g.model
}
