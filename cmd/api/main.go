package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"sketchgen/internal/http/handlers"
	httpapi "sketchgen/internal/http/httpapi"
	"sketchgen/internal/infra"
	"sketchgen/internal/providers/image"
	"sketchgen/internal/providers/magichour"
	"sketchgen/internal/providers/prompt"
	"sketchgen/internal/sketch"
	"sketchgen/internal/storage"
)

func main() {
	// .env is optional
	_ = godotenv.Load(".env", ".env.local")

	logger := infra.NewLogger(os.Getenv("APP_ENV"))

	cfg, err := infra.LoadConfig()
	if err != nil {
		var cfgErr *infra.ConfigError
		if errors.As(err, &cfgErr) {
			logger.Fatal().Str("key", cfgErr.Key).Msg(cfgErr.Message)
		}
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	logger = infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gemini, err := prompt.NewGeminiGenerator(ctx, prompt.GeminiOptions{
		APIKey:          cfg.GoogleAPIKey,
		Model:           cfg.GeminiModel,
		Temperature:     cfg.GeminiTemperature,
		TopP:            cfg.GeminiTopP,
		TopK:            cfg.GeminiTopK,
		MaxOutputTokens: cfg.GeminiMaxOutputTokens,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create gemini client")
	}
	defer gemini.Close()

	enhancer := prompt.NewSketchEnhancer(prompt.Options{
		Generator: gemini,
		Logger:    &logger,
		OnFallback: func(reason string, err error) {
			logger.Warn().Str("reason", reason).Err(err).Msg("prompt enhancement fell back to description")
		},
	})

	mh, err := magichour.NewClient(magichour.Options{
		APIKey:         cfg.MagicHourAPIKey,
		BaseURL:        cfg.MagicHourBaseURL,
		Logger:         &logger,
		RequestTimeout: cfg.MagicHourTimeout,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create magic hour client")
	}

	store, err := storage.NewFileStore(cfg.StagingDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare staging directory")
	}
	defer store.Close()

	svc := sketch.NewService(sketch.Deps{
		Enhancer: enhancer,
		Submitter: image.NewSubmitter(mh, image.ParamOptions{
			OrientationEnabled: cfg.OrientationEnabled,
			ImageCount:         cfg.ImageCount,
		}, &logger),
		Poller: image.NewPoller(mh, image.PollerOptions{
			Interval:    cfg.PollInterval,
			MaxAttempts: cfg.PollMaxAttempts,
			Logger:      &logger,
		}),
		Fetcher:    mh,
		Stager:     store,
		CostFrames: cfg.SketchCostFrames,
		StageTTL:   cfg.StageTTL,
		Logger:     &logger,
	})

	app := handlers.NewApp(svc, logger, cfg.OrientationEnabled)
	router := httpapi.NewRouter(app, httpapi.Options{RateLimitPerMin: cfg.RateLimitPerMin})
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().
			Str("model", gemini.Model()).
			Str("staging_dir", store.BasePath()).
			Msgf("sketch generator listening on %s", server.Addr())
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
