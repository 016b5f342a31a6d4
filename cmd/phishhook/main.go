package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/phishhook/phishhook/internal/adapters/httpapi"
	"github.com/phishhook/phishhook/internal/adapters/intake"
	"github.com/phishhook/phishhook/internal/core"
	"github.com/phishhook/phishhook/internal/di"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	apiServer *httpapi.Server,
	mailIntake *intake.Intake,
	narrativeClient core.NarrativeClient,
	reputationCache core.ReputationCache,
) error {
	defer logger.Sync()

	// Start the API server
	if err := apiServer.Start(); err != nil {
		logger.Fatal("Failed to start API server", zap.Error(err))
		return err
	}

	// Start the mail intake when configured
	if mailIntake != nil {
		if err := mailIntake.Start(); err != nil {
			logger.Fatal("Failed to start mail intake", zap.Error(err))
			return err
		}
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	if err := apiServer.Stop(); err != nil {
		logger.Error("Failed to stop API server", zap.Error(err))
	}
	if mailIntake != nil {
		if err := mailIntake.Stop(); err != nil {
			logger.Error("Failed to stop mail intake", zap.Error(err))
		}
	}

	// Close any resources that need closing
	if closer, ok := narrativeClient.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close narrative client", zap.Error(err))
		}
	}

	// Stop the cache if needed
	if stopper, ok := reputationCache.(interface{ Stop() }); ok {
		stopper.Stop()
	}

	logger.Info("Shutdown complete")
	return nil
}
