package openai

import (
	"go.uber.org/zap"

	"github.com/phishhook/phishhook/internal/config"
	"github.com/phishhook/phishhook/internal/core"
)

// Factory creates new instances of OpenAIClient.
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new factory for OpenAIClient instances.
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateClient creates a new OpenAIClient from configuration.
func (f *Factory) CreateClient() (core.NarrativeClient, error) {
	openaiCfg := f.cfg.GetOpenAI()
	return NewOpenAIClient(
		openaiCfg.APIKey,
		openaiCfg.ModelName,
		openaiCfg.MaxTokens,
		openaiCfg.Temperature,
		openaiCfg.TopP,
		f.logger,
	), nil
}
