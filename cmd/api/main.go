package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"studio/internal/adapter/repo"
	"studio/internal/export"
	"studio/internal/http/handlers"
	"studio/internal/http/httpapi"
	"studio/internal/infra"
	"studio/internal/infra/geoip"
	"studio/internal/orchestrator"
	"studio/internal/providers/caption"
	"studio/internal/providers/image"
	"studio/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	runner := infra.NewSQLRunner(dbpool, logger)

	users := repo.NewUserRepository(runner)
	projects := repo.NewProjectRepository(runner)
	creatives := repo.NewCreativeRepository(runner)
	usage := repo.NewUsageRepository(runner)
	stats := repo.NewStatsRepository(runner)

	providerClient := &http.Client{Timeout: cfg.ProviderTimeout}
	registry := image.NewRegistry(cfg.ImageProvider)
	registry.Register("stability", image.NewStabilityGenerator(image.StabilityOptions{
		APIKey:     cfg.ImageAPIKey,
		APIHost:    cfg.StabilityAPIHost,
		HTTPClient: providerClient,
	}))
	registry.Register("dall-e", image.NewDallEGenerator(image.DallEOptions{
		APIKey:     cfg.ImageAPIKey,
		HTTPClient: providerClient,
	}))

	var captioner caption.Captioner = caption.NewStaticCaptioner()
	if cfg.CaptionProvider == "openai" && cfg.CaptionAPIKey != "" {
		captioner = caption.NewOpenAICaptioner(caption.OpenAIOptions{
			APIKey:     cfg.CaptionAPIKey,
			Model:      cfg.CaptionModel,
			BaseURL:    cfg.CaptionBaseURL,
			HTTPClient: providerClient,
		})
	}

	orch := orchestrator.New(orchestrator.Options{
		Registry:    registry,
		Captioner:   captioner,
		Users:       users,
		Projects:    projects,
		Creatives:   creatives,
		Usage:       usage,
		Logger:      logger,
		CreditCost:  cfg.CreditCostPerBatch,
		MaxQuantity: cfg.MaxBatchQuantity,
		Concurrency: cfg.GenerationConcurrent,
	})

	uploads, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize upload storage")
	}

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	if resolver != nil {
		defer resolver.Close()
	}

	app := &handlers.App{
		Config:       cfg,
		Logger:       logger,
		Users:        users,
		Projects:     projects,
		Creatives:    creatives,
		Usage:        usage,
		Stats:        stats,
		Orchestrator: orch,
		Exporter:     export.New(logger),
		Uploads:      uploads,
	}
	if resolver != nil {
		app.GeoIP = resolver
	}

	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
