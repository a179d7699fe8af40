package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"catch-guard/contract"
	"catch-guard/gateway"
	"catch-guard/internal"
	"catch-guard/moderation"
	"catch-guard/observability"
	"catch-guard/providers"
	"catch-guard/repositories"
	"catch-guard/runtime"
	"catch-guard/runtime/workers"
	"catch-guard/sink"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Moderator terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the pipeline lifecycle, and centralizes error reporting.
// This pattern is preferred over calling os.Exit or panic directly because:
// 1. It ensures all 'defer' statements (like database cleanup) are executed before the program exits.
// 2. It improves testability by decoupling the initialization logic from the main entry point.
// 3. It provides a structured way to handle graceful shutdowns for the background workers.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()

	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)

	ctx := context.Background()

	// 2. Databases (BadgerDB for records, Bluge for the audit index)
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		// Defer ensures the database lock is released and buffers are flushed before the function returns.
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		logger.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	// 3. Providers & Gateway
	registry, err := buildRegistry(config, logger)
	if err != nil {
		return exitConfig, err
	}

	var limiter contract.RateLimiter = gateway.NewUnlimited()
	if config.RateLimitEnabled {
		limiter = gateway.NewSlidingLimiter(
			config.MaxRequestsPerMinute,
			config.MaxRequestsPerHour,
			config.MaxRequestsPerDay,
		)
	}

	var cache contract.ResultCache = gateway.NewNopCache()
	if config.CacheEnabled {
		cache = gateway.NewVerdictCache(config.CacheCapacity, config.CacheTTL)
	}

	monitor := observability.NewMonitor()
	gw := gateway.NewGateway(
		registry, limiter, cache, monitor, logger,
		config.ProviderTimeout, config.RetryAttempts, config.RetryDelay,
	)

	// 4. Repositories & Sinks
	contentRepository := repositories.NewContentRepository(db, logger)
	auditRepository := repositories.NewAuditRepository(db, blugeWriter, logger, 10)
	defer func() {
		_ = auditRepository.Flush()
	}()

	operator, admin, err := buildNotifiers(config, logger)
	if err != nil {
		return exitConfig, err
	}

	thresholds := moderation.Thresholds{
		AutoApprove:  config.AutoApproveConfidence,
		AutoReject:   config.AutoRejectConfidence,
		ManualReview: config.ManualReviewConfidence,
	}

	orchestrator := runtime.NewOrchestrator(
		logger,
		workers.NewSupervisor(logger),
		gw,
		contentRepository,
		auditRepository,
		operator, admin,
		thresholds,
		monitor,
		config.NumberOfWorkers, config.BufferSize,
		config.MetricInterval,
		config.Enabled,
	)

	// 5. Context & Signals
	// NotifyContext captures OS signals and cancels the context to trigger a shutdown.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting orchestrator...")
		if err := orchestrator.Start(ctx); err != nil {
			errChan <- fmt.Errorf("orchestrator error: %w", err)
		}
	}()

	// 6. Wait for Stop or Error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return exitRuntime, err
	}

	// 7. Final Cleanup (Graceful Shutdown)
	logger.Info("Shutting down gracefully...")
	orchestrator.Stop()
	logger.Info("Program stopped cleanly")

	return exitOK, nil
}

// buildRegistry registers every provider whose credentials are configured.
// The embedded wordlist provider is always available so the pipeline can
// run without any external backend.
func buildRegistry(config internal.Config, logger *slog.Logger) (*providers.Registry, error) {
	wordlist, err := providers.NewDefaultWordlistProvider()
	if err != nil {
		return nil, fmt.Errorf("wordlist provider: %w", err)
	}
	available := []contract.Provider{wordlist}

	if config.AnthropicAPIKey != "" {
		available = append(available, providers.NewAnthropicProvider(
			config.AnthropicAPIKey, config.AnthropicModel, config.Temperature, config.MaxTokens))
	}
	if config.OpenAIAPIKey != "" {
		available = append(available, providers.NewOpenAIProvider(
			config.OpenAIAPIKey, config.OpenAIModel, config.Temperature, config.MaxTokens))
	}
	if config.MistralAPIKey != "" {
		available = append(available, providers.NewMistralProvider(
			config.MistralAPIKey, config.MistralModel, config.Temperature, config.MaxTokens))
	}
	if config.GrokAPIKey != "" {
		available = append(available, providers.NewGrokProvider(
			config.GrokAPIKey, config.GrokModel, config.Temperature, config.MaxTokens))
	}

	overrides, err := config.ProviderOverrides()
	if err != nil {
		return nil, err
	}

	logger.Info("Provider registry", "count", len(available), "default", config.DefaultProvider)
	return providers.NewRegistry(config.DefaultProvider, available, overrides, config.DisabledTypes())
}

func buildNotifiers(config internal.Config, logger *slog.Logger) (operator, admin contract.Notifier, err error) {
	if !config.NotificationsEnabled {
		return nil, nil, nil
	}
	if config.TelegramNotifications {
		telegram, err := sink.NewTelegramSink(config.TelegramBotToken, config.TelegramChatID, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("telegram sink: %w", err)
		}
		operator = telegram
	}
	if config.NotifyAdmins {
		admin = sink.NewAdminSink(logger)
	}
	return operator, admin, nil
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG).
			WithBypassLockGuard(true)
	} else {
		options = options.WithLoggingLevel(badger.INFO)
	}

	return options
}
