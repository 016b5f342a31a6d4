package factory

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/phishhook/phishhook/internal/adapters/virustotal"
	"github.com/phishhook/phishhook/internal/config"
	"github.com/phishhook/phishhook/internal/core"
)

// ReputationFactory creates reputation clients.
type ReputationFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewReputationFactory creates a new reputation factory.
func NewReputationFactory(cfg *config.Config, logger *zap.Logger) *ReputationFactory {
	return &ReputationFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateReputationClient creates the VirusTotal client when an API key
// is configured. A nil client with a nil error means the reputation
// capability is disabled; scans then run with degraded coverage.
func (f *ReputationFactory) CreateReputationClient() (core.ReputationClient, error) {
	vtCfg := f.cfg.GetVirusTotal()
	if vtCfg.APIKey == "" {
		f.logger.Warn("No VirusTotal API key configured, link reputation will be unavailable")
		return nil, nil
	}

	timeout, err := f.cfg.GetDuration("virustotal.timeout")
	if err != nil {
		return nil, fmt.Errorf("invalid virustotal timeout: %w", err)
	}

	return virustotal.NewClient(vtCfg.APIKey, vtCfg.BaseURL, timeout, f.logger), nil
}

// GetPollDelay returns the configured post-submission poll delay.
func (f *ReputationFactory) GetPollDelay() (time.Duration, error) {
	return f.cfg.GetDuration("virustotal.poll_delay")
}

// GetMaxWorkers returns the configured resolver worker cap.
func (f *ReputationFactory) GetMaxWorkers() int {
	return f.cfg.GetVirusTotal().MaxWorkers
}
