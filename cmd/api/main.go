package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/tonymach/neuro-narrator/internal/config"
	"github.com/tonymach/neuro-narrator/internal/engine"
	"github.com/tonymach/neuro-narrator/internal/handlers"
	"github.com/tonymach/neuro-narrator/internal/logger"
	"github.com/tonymach/neuro-narrator/internal/middleware"
	"github.com/tonymach/neuro-narrator/internal/services"
	"github.com/tonymach/neuro-narrator/internal/storage"
	"github.com/tonymach/neuro-narrator/internal/worker"
	"github.com/tonymach/neuro-narrator/pkg/world"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Neuro Narrator API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"llm_provider", cfg.LLMProvider,
		"model_name", cfg.ModelName)

	var llmService services.LLMService
	switch strings.ToLower(cfg.LLMProvider) {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			log.Error("OpenAI API key is required when using openai provider")
			os.Exit(1)
		}
		llmService = services.NewOpenAIService(cfg.OpenAIAPIKey, cfg.ModelName)
		log.Info("Using OpenAI LLM provider")
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			log.Error("Anthropic API key is required when using anthropic provider")
			os.Exit(1)
		}
		llmService = services.NewAnthropicService(cfg.AnthropicAPIKey, cfg.ModelName)
		log.Info("Using Anthropic LLM provider")
	default:
		log.Error("Invalid LLM provider specified", "provider", cfg.LLMProvider, "supported", []string{"openai", "anthropic"})
		os.Exit(1)
	}

	store := connectStorage(cfg, log)

	initCtx, initCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer initCancel()
	if err := llmService.InitModel(initCtx, cfg.ModelName); err != nil {
		log.Error("Failed to initialize LLM model", "error", err, "model", cfg.ModelName)
		os.Exit(1)
	}

	// The world starts fresh on every boot; storage holds the running
	// mirror for inspection, not a checkpoint to resume from.
	gameWorld := world.NewState()
	gameEngine := engine.New(llmService, store, gameWorld, log)

	consolidator := worker.New(store, gameWorld, cfg.ConsolidationInterval, log)
	consolidator.Start()

	mux := http.NewServeMux()
	mux.Handle("/", handlers.NewStaticHandler(cfg.StaticDir, log))
	mux.Handle("/game-action", handlers.NewGameActionHandler(gameEngine, log))
	mux.Handle("/game-state", handlers.NewGameStateHandler(gameEngine, log))
	mux.Handle("/health", handlers.NewHealthHandler(store, log))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      middleware.Logger(log, mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	consolidator.Stop()

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}

func connectStorage(cfg *config.Config, log *slog.Logger) *storage.RedisStorage {
	store := storage.NewRedisStorage(cfg.RedisURL, log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := store.WaitForConnection(ctx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")
	return store
}
