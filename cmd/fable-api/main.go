// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fable/internal/cache"
	"fable/internal/config"
	"fable/internal/geocode"
	httptransport "fable/internal/http"
	"fable/internal/infra"
	"fable/internal/logging"
	"fable/internal/poi"
	"fable/internal/routing"
	"fable/internal/story"
	"fable/internal/trip"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run() error {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var storyStore *story.Store
	if cfg.DB.DSN != "" {
		pool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			return fmt.Errorf("db init: %w", err)
		}
		defer pool.Close()
		storyStore = story.NewStore(pool)
	}

	var lookupCache *cache.Cache
	if cfg.Redis.Addr != "" {
		lookupCache = cache.New(infra.NewRedis(cfg.Redis.Addr), 24*time.Hour)
	}

	geocoder := geocode.NewService(
		cfg.Geocode.BaseURL,
		cfg.Geocode.UserAgent,
		time.Duration(cfg.Geocode.TimeoutSeconds)*time.Second,
		lookupCache,
	)
	finder := poi.NewService(cfg.POI.BaseURL, time.Duration(cfg.POI.TimeoutSeconds)*time.Second, lookupCache)
	router := routing.NewService(cfg.Routing.BaseURL, time.Duration(cfg.Routing.TimeoutSeconds)*time.Second)

	provider, err := storyProvider(cfg)
	if err != nil {
		return err
	}
	storySvc := story.NewService(provider, storyStore, cfg.Story.MaxWords)

	registry := trip.NewRegistry(time.Duration(cfg.Session.TTLMinutes) * time.Minute)
	orchestrator := trip.NewOrchestrator(registry, geocoder, finder, router, storySvc, cfg.POI.RadiusMeters)

	go registry.RunSweeper(ctx)

	server := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: httptransport.NewRouter(orchestrator, geocoder),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", cfg.HTTP.Addr, "story_provider", provider.Name())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func storyProvider(cfg config.Config) (story.Provider, error) {
	switch cfg.Story.Provider {
	case "gemini":
		return story.NewGeminiProvider(cfg.Story.GeminiKey, cfg.Story.GeminiModel), nil
	case "anthropic":
		return story.NewAnthropicProvider(cfg.Story.AnthropicKey, cfg.Story.AnthropicModel), nil
	default:
		return nil, fmt.Errorf("unknown story provider %q", cfg.Story.Provider)
	}
}
