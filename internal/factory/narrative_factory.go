package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/phishhook/phishhook/internal/adapters/bedrock"
	"github.com/phishhook/phishhook/internal/adapters/gemini"
	"github.com/phishhook/phishhook/internal/adapters/openai"
	"github.com/phishhook/phishhook/internal/config"
	"github.com/phishhook/phishhook/internal/core"
)

// NarrativeFactory creates narrative clients.
type NarrativeFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewNarrativeFactory creates a new narrative factory.
func NewNarrativeFactory(cfg *config.Config, logger *zap.Logger) *NarrativeFactory {
	return &NarrativeFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateNarrativeClient creates a narrative client based on the
// configured provider. A nil client with a nil error means no provider
// is configured; the pipeline then runs with the capability disabled
// instead of failing startup.
func (f *NarrativeFactory) CreateNarrativeClient() (core.NarrativeClient, error) {
	narrativeCfg := f.cfg.GetNarrative()

	switch narrativeCfg.Provider {
	case "", "none":
		f.logger.Warn("No narrative provider configured, scans will use heuristic scoring only")
		return nil, nil
	case "gemini":
		if f.cfg.GetGemini().APIKey == "" {
			f.logger.Warn("Gemini selected but no API key configured, scans will use heuristic scoring only")
			return nil, nil
		}
		return gemini.NewFactory(f.cfg, f.logger).CreateClient()
	case "openai":
		if f.cfg.GetOpenAI().APIKey == "" {
			f.logger.Warn("OpenAI selected but no API key configured, scans will use heuristic scoring only")
			return nil, nil
		}
		return openai.NewFactory(f.cfg, f.logger).CreateClient()
	case "bedrock":
		return bedrock.NewFactory(f.cfg, f.logger).CreateClient()
	default:
		return nil, fmt.Errorf("unsupported narrative provider: %s", narrativeCfg.Provider)
	}
}
