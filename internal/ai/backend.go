// Package ai builds the annotation and embedding collaborators from configuration.
package ai

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/skillgap/internal/ai/gemini"
	"github.com/spigell/skillgap/internal/annotation"
	"github.com/spigell/skillgap/internal/logger"
	"github.com/spigell/skillgap/internal/similarity"
)

const ProviderGemini = "gemini"

type GeminiConfig struct {
	APIKey         string `mapstructure:"-" json:"-"`
	APIKeyFile     string `mapstructure:"api-key-file"`
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding-model"`
	MaxRetries     int    `mapstructure:"max-retries"`
	MaxLogLength   int    `mapstructure:"max-log-length"`
}

type Config struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

// Backend bundles the collaborators served by one provider.
type Backend struct {
	Provider  string
	Model     string
	Annotator annotation.Annotator
	Embedder  similarity.Embedder
}

// New creates the backend for the configured provider. The API key must
// already be resolved into cfg.
func New(ctx context.Context, cfg *Config, log *zap.Logger) (*Backend, error) {
	if cfg == nil {
		return nil, fmt.Errorf("ai configuration is required")
	}

	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = ProviderGemini
	}

	switch provider {
	case ProviderGemini:
		gc := cfg.Gemini
		if gc == nil {
			gc = &GeminiConfig{}
		}

		generator, err := gemini.NewGenerator(ctx, gemini.Config{
			APIKey:         gc.APIKey,
			Model:          gc.Model,
			EmbeddingModel: gc.EmbeddingModel,
			MaxRetries:     gc.MaxRetries,
		}, logger.WithCommonFields(log, provider, gc.Model))
		if err != nil {
			return nil, fmt.Errorf("initialize gemini: %w", err)
		}

		aiLogger := logger.WithCommonFields(log, provider, generator.Model())
		return &Backend{
			Provider:  provider,
			Model:     generator.Model(),
			Annotator: gemini.NewAnnotator(generator, aiLogger, gc.MaxLogLength),
			Embedder:  generator,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported ai provider %q", cfg.Provider)
	}
}
