package gemini

import (
	"go.uber.org/zap"

	"github.com/phishhook/phishhook/internal/config"
	"github.com/phishhook/phishhook/internal/core"
)

// Factory creates new instances of GeminiClient.
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new factory for GeminiClient instances.
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateClient creates a new GeminiClient from configuration.
func (f *Factory) CreateClient() (core.NarrativeClient, error) {
	geminiCfg := f.cfg.GetGemini()
	return NewGeminiClient(
		geminiCfg.APIKey,
		geminiCfg.ModelName,
		geminiCfg.MaxTokens,
		geminiCfg.Temperature,
		geminiCfg.TopP,
		f.logger,
	)
}
