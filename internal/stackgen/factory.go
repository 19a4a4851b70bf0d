package stackgen

import (
	"context"
	"fmt"

	"github.com/BerylCAtieno/ai-stack-agent/internal/config"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// NewModel builds the completion backend selected by cfg.Provider. The
// returned close func releases any client resources.
func NewModel(ctx context.Context, cfg config.GenerationConfig) (Model, func() error, error) {
	switch cfg.Provider {
	case ProviderGemini, "":
		if cfg.GeminiAPIKey == "" {
			return nil, nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
		c, err := NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil

	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
		c := NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.Timeout)
		return c, func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported GENERATION_PROVIDER: %s (supported: gemini, openai)", cfg.Provider)
	}
}
