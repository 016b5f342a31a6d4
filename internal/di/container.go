package di

import (
	"fmt"
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/phishhook/phishhook/internal/adapters/httpapi"
	"github.com/phishhook/phishhook/internal/adapters/intake"
	"github.com/phishhook/phishhook/internal/config"
	"github.com/phishhook/phishhook/internal/core"
	"github.com/phishhook/phishhook/internal/factory"
	"github.com/phishhook/phishhook/internal/logging"
	"github.com/phishhook/phishhook/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewNarrativeFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewReputationFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register reputation client and cache
	if err := container.Provide(func(f *factory.ReputationFactory) (core.ReputationClient, error) {
		return f.CreateReputationClient()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.CacheFactory) (core.ReputationCache, error) {
		return f.CreateReputationCache()
	}); err != nil {
		return nil, err
	}

	// Register reputation resolver
	if err := container.Provide(func(
		client core.ReputationClient,
		cache core.ReputationCache,
		f *factory.ReputationFactory,
		logger *zap.Logger,
	) (*core.ReputationResolver, error) {
		pollDelay, err := f.GetPollDelay()
		if err != nil {
			return nil, fmt.Errorf("invalid poll delay: %w", err)
		}
		return core.NewReputationResolver(client, cache, client != nil, f.GetMaxWorkers(), pollDelay, logger), nil
	}); err != nil {
		return nil, err
	}

	// Register narrative client and adapter
	if err := container.Provide(func(f *factory.NarrativeFactory) (core.NarrativeClient, error) {
		return f.CreateNarrativeClient()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(
		client core.NarrativeClient,
		cfg *config.Config,
		textProcessor *utils.TextProcessor,
		logger *zap.Logger,
	) *core.NarrativeAdapter {
		return core.NewNarrativeAdapter(client, client != nil, cfg.GetNarrative().MaxBodySize, textProcessor, logger)
	}); err != nil {
		return nil, err
	}

	// Register scan service
	if err := container.Provide(core.NewScanService); err != nil {
		return nil, err
	}

	// Register API server
	if err := container.Provide(func(
		service *core.ScanService,
		cfg *config.Config,
		logger *zap.Logger,
	) (*httpapi.Server, error) {
		requestTimeout, err := cfg.GetDuration("server.request_timeout")
		if err != nil {
			return nil, fmt.Errorf("invalid request timeout: %w", err)
		}
		return httpapi.NewServer(
			service,
			logger,
			cfg.GetString("server.listen_address"),
			cfg.GetStringSlice("server.allowed_origins"),
			requestTimeout,
		), nil
	}); err != nil {
		return nil, err
	}

	// Register mail intake (nil when disabled)
	if err := container.Provide(func(
		service *core.ScanService,
		cfg *config.Config,
		logger *zap.Logger,
	) (*intake.Intake, error) {
		if !cfg.GetBool("intake.enabled") {
			return nil, nil
		}
		requestTimeout, err := cfg.GetDuration("server.request_timeout")
		if err != nil {
			requestTimeout = 90 * time.Second
		}
		return intake.NewIntake(
			service,
			logger,
			cfg.GetString("intake.listen_address"),
			cfg.GetString("intake.domain"),
			requestTimeout,
		), nil
	}); err != nil {
		return nil, err
	}

	return container, nil
}
