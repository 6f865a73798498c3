// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campus-chat/internal/config"
	"campus-chat/internal/domain/ports/adapter"
	aiAdapters "campus-chat/internal/infra/adapters/ai"
	lookupAdapters "campus-chat/internal/infra/adapters/lookup"
	"campus-chat/internal/infra/db/sqlite"
	"campus-chat/internal/infra/logging"
	"campus-chat/internal/infra/metrics"
	"campus-chat/internal/infra/web"
	"campus-chat/internal/infra/worker"
	"campus-chat/internal/infra/ws"
	"campus-chat/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (relaxed config, canned AI replies)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] enabled")
	}

	metrics.MustRegister()

	// ---- SQLite accounts ----
	db, err := sqlite.Open(cfg.Auth.DBPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Auth.DBPath).Msg("open account database")
	}
	defer db.Close()
	accountRepo := sqlite.NewAccountRepo(db)

	// ---- Use cases ----
	accountUC := usecase.NewAccountUseCase(accountRepo, logger)
	presence := usecase.NewPresenceRegistry(logger)
	history := usecase.NewHistoryBuffer(cfg.Room.HistorySize)
	rooms := usecase.NewRoomBroadcaster(presence, history, logger)

	// ---- AI adapter (OpenAI-compatible -> Gemini -> canned) ----
	var ai adapter.CompletionStreamAdapter
	if cfg.Features.AIEnabled() {
		var chain []adapter.CompletionStreamAdapter
		if cfg.AI.APIKey != "" {
			oa, err := aiAdapters.NewOpenAIStreamAdapter(cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.Model)
			if err != nil {
				logger.Fatal().Err(err).Msg("openai-compatible adapter")
			}
			chain = append(chain, oa)
			logger.Info().Str("base", cfg.AI.BaseURL).Str("model", cfg.AI.Model).Msg("AI provider: OpenAI compatible")
		}
		if cfg.AI.GeminiKey != "" {
			ga, err := aiAdapters.NewGeminiStreamAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.GeminiModel)
			if err != nil {
				logger.Fatal().Err(err).Msg("gemini adapter")
			}
			chain = append(chain, ga)
			logger.Info().Str("model", cfg.AI.GeminiModel).Msg("AI provider: Gemini")
		}
		switch len(chain) {
		case 0:
			if !cfg.Runtime.Dev {
				logger.Fatal().Msg("ai enabled but no provider key: set ai.api_key or ai.gemini_key")
			}
			ai = aiAdapters.NewNoopStreamAdapter()
			logger.Warn().Msg("AI provider: canned replies (dev)")
		case 1:
			ai = chain[0]
		default:
			ai = aiAdapters.NewMultiStreamAdapter(chain...)
		}
	}

	// ---- Lookup adapters; nil means the command reports it is disabled ----
	var weather adapter.WeatherAdapter
	if cfg.Features.WeatherEnabled() {
		wchain := []adapter.WeatherAdapter{lookupAdapters.NewWttrAdapter(cfg.APIs.Weather.WttrURL)}
		if qw, err := lookupAdapters.NewQWeatherAdapter(cfg.APIs.Weather.QWeatherKey, cfg.APIs.Weather.QWeatherURL); err == nil {
			wchain = append(wchain, qw)
		}
		weather = lookupAdapters.NewMultiWeatherAdapter(wchain...)
	}
	var news adapter.NewsAdapter
	if cfg.Features.NewsEnabled() {
		if na, err := lookupAdapters.NewALAPINewsAdapter(cfg.APIs.News.Token, cfg.APIs.News.URL); err == nil {
			news = na
		} else {
			logger.Warn().Err(err).Msg("news lookup disabled")
		}
	}
	var music adapter.MusicAdapter
	if cfg.Features.MusicEnabled() {
		if ma, err := lookupAdapters.NewALAPIMusicAdapter(cfg.APIs.Music.Token, cfg.APIs.Music.SearchURL, cfg.APIs.Music.URLAPI); err == nil {
			music = ma
		} else {
			logger.Warn().Err(err).Msg("music lookup disabled")
		}
	}

	// ---- Background pool + responder + dispatcher + gateway ----
	pool := worker.NewPool(cfg.Room.Workers, logger)
	pool.Start(ctx)
	defer pool.Stop()

	responder := usecase.NewStreamingResponder(ai, rooms, pool, cfg.Room.BotName, cfg.AI.SystemPrompt, cfg.Room.ChunkInterval, logger)
	dispatcher := usecase.NewCommandDispatcher(rooms, responder, weather, news, music, logger)
	gateway := usecase.NewConnectionGateway(presence, history, rooms, dispatcher, logger)

	// ---- HTTP + websocket ----
	auth := web.NewAuthManager(cfg.Auth.JWTSecret, !cfg.Runtime.Dev, cfg.Auth.TTL)
	wsHandler := ws.NewHandler(gateway, cfg.Server.AllowedOrigins, logger)
	server := web.NewServer(cfg, accountUC, presence, auth, wsHandler, logger)

	go func() {
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
			cancel()
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigc:
		logger.Info().Msg("shutdown requested")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}
