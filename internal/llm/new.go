package llm

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/segment-flow/internal/config"
)

// New builds the configured provider client wrapped in the process-wide limiter.
func New(ctx context.Context, cfg config.LLMConfig) (Client, error) {
	var (
		client Client
		err    error
	)

	provider := cfg.Provider
	if cfg.APIKey == MockAPIKey {
		provider = "mock"
	}

	switch provider {
	case "mock":
		client = NewMock()
	case "gemini", "":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini api key is not set (llm.api_key or GEMINI_API_KEY)")
		}
		client, err = NewGemini(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai api key is not set (llm.api_key or OPENAI_API_KEY)")
		}
		client = NewOpenAI(cfg.APIKey, cfg.BaseURL, cfg.Model)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", provider)
	}

	return NewLimited(client, cfg.MaxInFlight, cfg.RequestsPerMinute), nil
}
