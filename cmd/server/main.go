package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/agenthands/rollcall/internal/acquire"
	"github.com/agenthands/rollcall/internal/config"
	"github.com/agenthands/rollcall/internal/core"
	"github.com/agenthands/rollcall/internal/core/aiextract"
	"github.com/agenthands/rollcall/internal/core/parse"
	"github.com/agenthands/rollcall/internal/core/tracker"
	"github.com/agenthands/rollcall/internal/llm"
	"github.com/agenthands/rollcall/internal/server"
)

func main() {
	setupLogging()
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using defaults")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfgPath).Msg("Failed to load configuration")
	}
	cfg.ApplyEnv()

	// Default to Ollama if provider is empty
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "ollama"
		cfg.LLM.Model = "gpt-oss:latest"
		cfg.LLM.BaseURL = "http://localhost:11434"
	}

	ctx := context.Background()
	primary, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize LLM client")
	}

	var secondary llm.Client
	if cfg.FallbackLLM.Provider != "" {
		secondary, err = llm.NewClient(ctx, cfg.FallbackLLM)
		if err != nil {
			log.Warn().Err(err).Msg("Fallback LLM unavailable, continuing with the primary only")
			secondary = nil
		}
	}

	source, err := acquire.New(cfg.Source, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize document source")
	}

	ai := aiextract.New(primary, secondary, cfg.Extraction.MaxPromptChars, log.Logger)
	pipeline := &core.Pipeline{
		Source:  source,
		Parser:  parse.New(ai, cfg.Extraction.FallbackThreshold, log.Logger),
		Tracker: tracker.New(log.Logger),
		Workers: cfg.Extraction.Workers,
		Log:     log.Logger,
	}

	srv := server.NewServer(pipeline, log.Logger)
	r := srv.SetupRouter()

	log.Info().Str("port", cfg.Server.Port).Str("source", cfg.Source.Name).Msg("Starting server")
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

func setupLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("LOG_FORMAT") != "json" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	if level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && level != zerolog.NoLevel {
		zerolog.SetGlobalLevel(level)
	}
}
