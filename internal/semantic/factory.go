package semantic

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/chainscribe/concord/internal/config"
)

// NewClient builds the provider clients for the configured backend. An
// empty provider is valid and returns nil clients: the engine then runs
// lexical-only, which the matcher is specified to fall back to. Claude
// exposes no embedding endpoint, so it returns a nil Embedder.
func NewClient(ctx context.Context, cfg config.SemanticConfig) (Generator, Embedder, error) {
	switch strings.ToLower(cfg.Provider) {
	case "":
		return nil, nil, nil

	case "openai":
		c := NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.EmbeddingModel, cfg.BaseURL)
		return c, c, nil

	case "gemini":
		c, err := NewGeminiClient(ctx, cfg.APIKey, cfg.Model, cfg.EmbeddingModel)
		if err != nil {
			return nil, nil, err
		}
		return c, c, nil

	case "claude":
		c := NewClaudeClient(cfg.APIKey, cfg.Model, cfg.BaseURL)
		return c, nil, nil

	case "ollama":
		// Ollama speaks the OpenAI-compatible API; point the OpenAI client
		// at it. The key is ignored by Ollama but required by the client.
		baseURL := strings.TrimRight(cfg.BaseURL, "/")
		if !strings.HasSuffix(baseURL, "/v1") {
			baseURL = fmt.Sprintf("%s/v1", baseURL)
		}
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = "ollama"
		}
		c := NewOpenAIClient(apiKey, cfg.Model, cfg.EmbeddingModel, baseURL)
		return c, c, nil

	default:
		return nil, nil, errors.Newf("unsupported semantic provider: %s", cfg.Provider)
	}
}
