package embedding

import (
	"fmt"
	"strings"

	"github.com/hubenschmidt/go-chromastore/core"
)

// New picks a provider for cfg.Model.
//
// "ollama/<name>" always routes to Ollama with the prefix stripped. Any other model goes to
// OpenAI when a key is configured and falls back to Ollama when only a URL is.
func New(cfg ClientConfig) (BatchEmbedder, error) {
	if model, ok := strings.CutPrefix(cfg.Model, "ollama/"); ok {
		if cfg.OllamaURL == "" {
			return nil, fmt.Errorf("%w: model %s needs an Ollama URL", core.ErrNoEmbedder, cfg.Model)
		}
		return NewOllamaEmbedder(cfg.OllamaURL, model), nil
	}

	if cfg.OpenAIKey != "" {
		return NewOpenAIEmbedderWithConfig(cfg), nil
	}

	if cfg.OllamaURL != "" {
		return NewOllamaEmbedder(cfg.OllamaURL, cfg.Model), nil
	}

	return nil, fmt.Errorf("%w: model %s", core.ErrNoEmbedder, cfg.Model)
}
