package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/mail"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/phishhook/phishhook/internal/adapters/intake"
	"github.com/phishhook/phishhook/internal/config"
	"github.com/phishhook/phishhook/internal/core"
	"github.com/phishhook/phishhook/internal/factory"
	"github.com/phishhook/phishhook/internal/logging"
)

var (
	// Narrative provider flags
	provider    = flag.String("provider", "gemini", "Narrative provider (gemini, openai, bedrock, none)")
	maxTokens   = flag.Int("max-tokens", 1000, "Maximum tokens for the narrative reply")
	temperature = flag.Float64("temperature", 0.1, "Temperature for narrative generation")
	topP        = flag.Float64("top-p", 0.9, "Top-p for narrative generation")
	maxBodySize = flag.Int("max-body-size", 8192, "Maximum email body size to embed in the prompt")

	// Gemini flags
	geminiAPIKey    = flag.String("gemini-api-key", "", "API key for Google Gemini")
	geminiModelName = flag.String("gemini-model", "gemini-2.0-flash", "Gemini model name")

	// OpenAI flags
	openaiAPIKey    = flag.String("openai-api-key", "", "API key for OpenAI")
	openaiModelName = flag.String("openai-model", "gpt-4", "OpenAI model name")

	// Bedrock flags
	bedrockRegion  = flag.String("bedrock-region", "us-east-1", "AWS region for Bedrock")
	bedrockModelID = flag.String("bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	// Reputation flags
	vtAPIKey  = flag.String("vt-api-key", "", "API key for VirusTotal")
	vtPoll    = flag.Duration("vt-poll-delay", 15*time.Second, "Delay before the post-submission reputation poll")
	vtWorkers = flag.Int("vt-workers", 4, "Concurrent reputation lookups")

	// Input flags
	inputFile  = flag.String("file", "", "Input email file (use stdin if not specified)")
	jsonOut    = flag.Bool("json", false, "Print the verdict as JSON")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile = flag.String("config", "", "Path to config file (overrides command line flags)")
	timeout    = flag.Duration("timeout", 90*time.Second, "Overall scan timeout")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var cfg *config.Config
	if *configFile != "" {
		v := config.NewEmptyViper()
		v.SetConfigFile(*configFile)
		if err := v.ReadInConfig(); err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err), zap.String("file", *configFile))
		}
		cfg = config.NewFromViper(v)
		logger.Info("Loaded configuration from file", zap.String("file", *configFile))
	} else {
		cfg = createConfigFromFlags()
	}

	service := buildScanService(cfg, logger)

	// Read email from file or stdin
	var emailReader io.Reader
	if *inputFile != "" {
		file, err := os.Open(*inputFile)
		if err != nil {
			logger.Fatal("Failed to open input file", zap.Error(err), zap.String("file", *inputFile))
		}
		defer file.Close()
		emailReader = file
		logger.Info("Reading email from file", zap.String("file", *inputFile))
	} else {
		emailReader = os.Stdin
		logger.Info("Reading email from stdin")
	}

	msg, err := mail.ReadMessage(bufio.NewReader(emailReader))
	if err != nil {
		logger.Fatal("Failed to parse email", zap.Error(err))
	}

	sub, err := intake.ExtractSubmission(msg)
	if err != nil {
		logger.Fatal("Failed to extract email content", zap.Error(err))
	}

	fmt.Printf("\n=== Email Summary ===\n")
	fmt.Printf("Sender: %s <%s>\n", sub.Sender, sub.SenderEmail)
	fmt.Printf("Subject: %s\n", sub.Subject)
	fmt.Printf("Body length: %d bytes\n", len(sub.Text))
	fmt.Printf("Links found: %d\n", len(sub.Links))
	fmt.Printf("\n=== Analysis ===\n")
	fmt.Printf("Narrative provider: %s\n", cfg.GetString("narrative.provider"))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	startTime := time.Now()
	verdict := service.Scan(ctx, sub)
	duration := time.Since(startTime)

	if *jsonOut {
		encoded, err := json.MarshalIndent(verdict, "", "  ")
		if err != nil {
			logger.Fatal("Failed to encode verdict", zap.Error(err))
		}
		fmt.Printf("\n%s\n", encoded)
		return
	}

	fmt.Printf("\n=== Verdict ===\n")
	fmt.Printf("Score: %d/100\n", verdict.Score)
	fmt.Printf("Digest: %s\n", verdict.Digest)
	fmt.Printf("Reasons:\n")
	for _, reason := range verdict.Reasons {
		fmt.Printf("  - %s\n", reason)
	}
	fmt.Printf("%s\n", verdict.Explain)
	fmt.Printf("Processing time: %v\n", duration)
}

// buildScanService wires the pipeline directly from factories; the CLI
// skips the dig container the daemon uses.
func buildScanService(cfg *config.Config, logger *zap.Logger) *core.ScanService {
	textProcessor := factory.NewTextProcessorFactory(logger).CreateTextProcessor()

	reputationFactory := factory.NewReputationFactory(cfg, logger)
	reputationClient, err := reputationFactory.CreateReputationClient()
	if err != nil {
		logger.Fatal("Failed to create reputation client", zap.Error(err))
	}
	pollDelay, err := reputationFactory.GetPollDelay()
	if err != nil {
		logger.Fatal("Invalid poll delay", zap.Error(err))
	}
	// The one-shot CLI has no use for a cross-request cache.
	resolver := core.NewReputationResolver(
		reputationClient,
		nil,
		reputationClient != nil,
		reputationFactory.GetMaxWorkers(),
		pollDelay,
		logger,
	)

	narrativeClient, err := factory.NewNarrativeFactory(cfg, logger).CreateNarrativeClient()
	if err != nil {
		logger.Fatal("Failed to create narrative client", zap.Error(err))
	}
	adapter := core.NewNarrativeAdapter(narrativeClient, narrativeClient != nil, cfg.GetNarrative().MaxBodySize, textProcessor, logger)

	return core.NewScanService(resolver, adapter, textProcessor, logger)
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	v.Set("narrative.provider", *provider)
	v.Set("narrative.max_body_size", *maxBodySize)

	switch *provider {
	case "gemini":
		v.Set("gemini.api_key", *geminiAPIKey)
		v.Set("gemini.model_name", *geminiModelName)
		v.Set("gemini.max_tokens", *maxTokens)
		v.Set("gemini.temperature", *temperature)
		v.Set("gemini.top_p", *topP)
	case "openai":
		v.Set("openai.api_key", *openaiAPIKey)
		v.Set("openai.model_name", *openaiModelName)
		v.Set("openai.max_tokens", *maxTokens)
		v.Set("openai.temperature", *temperature)
		v.Set("openai.top_p", *topP)
	case "bedrock":
		v.Set("bedrock.region", *bedrockRegion)
		v.Set("bedrock.model_id", *bedrockModelID)
		v.Set("bedrock.max_tokens", *maxTokens)
		v.Set("bedrock.temperature", *temperature)
		v.Set("bedrock.top_p", *topP)
	}

	v.Set("virustotal.api_key", *vtAPIKey)
	v.Set("virustotal.poll_delay", vtPoll.String())
	v.Set("virustotal.max_workers", *vtWorkers)

	return config.NewFromViper(v)
}
