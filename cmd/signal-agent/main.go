package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/lumee/lumee-platform/internal/profile"
	"github.com/lumee/lumee-platform/internal/schedule"
	"github.com/lumee/lumee-platform/internal/signal"
	"github.com/lumee/lumee-platform/internal/weather"
	"github.com/lumee/lumee-platform/pkg/config"
	"github.com/lumee/lumee-platform/pkg/devices"
	"github.com/lumee/lumee-platform/pkg/health"
	"github.com/lumee/lumee-platform/pkg/llm"
	"github.com/lumee/lumee-platform/pkg/mqtt"
	"github.com/lumee/lumee-platform/pkg/postgres"
	"github.com/lumee/lumee-platform/pkg/redis"
)

func main() {
	// Load configuration with hierarchy: defaults → env → flags
	cfg := config.NewConfig()
	cfg.ServiceName = "signal-agent"
	cfg.LoadFromEnv()
	cfg.LoadFromFlags()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Set up structured logging
	logLevel := parseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting Lumee Signal Agent",
		"version", "1.0",
		"service_name", cfg.ServiceName,
		"mqtt_broker", cfg.MQTTAddress(),
		"redis_host", cfg.RedisAddress(),
		"log_level", cfg.LogLevel)

	// Set up context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	ossignal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Initialize MQTT client
	mqttClient := mqtt.NewClient(cfg, logger)

	// Initialize Redis client
	redisClient := redis.NewClient(cfg, logger)

	// Initialize PostgreSQL client for user profiles
	pgClient := postgres.NewClient(cfg, logger)
	if err := pgClient.Connect(ctx); err != nil {
		logger.Error("Failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer pgClient.Disconnect()

	// Load indicator device registry
	registry, err := loadRegistry(cfg, logger)
	if err != nil {
		logger.Error("Failed to load device registry", "error", err)
		os.Exit(1)
	}

	// Build the environmental reading pipeline
	providerTimeout := time.Duration(cfg.ProviderTimeoutSec) * time.Second
	weatherClient := weather.NewClient(cfg.OpenWeatherAPIKey, providerTimeout, logger)
	pollenClient := weather.NewPollenClient(cfg.PollenAPIKey, providerTimeout, logger)
	fetcher := weather.NewFetcher(weatherClient, pollenClient, logger)

	// Profile store with guest fallback
	profiles := profile.NewPostgresStore(pgClient, logger)

	// Schedule location enrichment (optional, requires a reachable Ollama)
	var llmClient llm.Client
	var extractor *schedule.Extractor
	if cfg.LLMEndpoint != "" {
		llmClient = llm.NewOllamaClient(cfg.LLMEndpoint, logger)
		extractor = schedule.NewExtractor(llmClient, cfg.LLMModel, logger)
	} else {
		logger.Info("No LLM endpoint configured, schedule locations stay unresolved")
	}

	// Create signal agent
	agent := signal.NewAgent(mqttClient, redisClient, fetcher, profiles, registry, extractor, cfg, logger)

	// Start health check server
	healthChecker := health.NewChecker(mqttClient, redisClient, pgClient, llmClient, logger)
	httpServer := startHealthServer(cfg.HealthPort, healthChecker, logger)

	// Start agent in a goroutine
	agentErr := make(chan error, 1)
	go func() {
		if err := agent.Start(ctx); err != nil {
			logger.Error("Agent error", "error", err)
			agentErr <- err
		}
	}()

	// Wait for shutdown signal or agent error
	select {
	case <-sigChan:
		logger.Info("Shutdown signal received (SIGTERM/SIGINT)")
	case err := <-agentErr:
		logger.Error("Agent failed", "error", err)
	}

	// Graceful shutdown
	logger.Info("Initiating graceful shutdown")
	cancel()

	if err := agent.Stop(); err != nil {
		logger.Error("Error stopping agent", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down health server", "error", err)
	}

	logger.Info("Signal agent shutdown complete")
}

func loadRegistry(cfg *config.Config, logger *slog.Logger) (*devices.Registry, error) {
	if cfg.DevicesFile == "" {
		logger.Info("No devices file configured, using default registry")
		return devices.DefaultRegistry(), nil
	}

	registry, err := devices.Load(cfg.DevicesFile)
	if err != nil {
		return nil, err
	}

	logger.Info("Loaded device registry",
		"file", cfg.DevicesFile,
		"devices", len(registry.Devices))

	return registry, nil
}

func startHealthServer(port int, checker *health.Checker, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", checker.HandlerFunc())
	mux.HandleFunc("/health/details", checker.DetailedHandlerFunc())

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		logger.Info("Starting health check server", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Health server error", "error", err)
		}
	}()

	return server
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
