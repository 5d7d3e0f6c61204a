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
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/teamkit/roster/internal/api"
	"github.com/teamkit/roster/internal/config"
	"github.com/teamkit/roster/internal/events"
	"github.com/teamkit/roster/internal/live"
	"github.com/teamkit/roster/internal/migrate"
	"github.com/teamkit/roster/internal/roster"
	"github.com/teamkit/roster/internal/storage"
)

func main() {
	// .env is optional; absent outside development.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}
	log := setupLogger(cfg)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	store, closeStore, err := setupStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up storage")
	}
	defer closeStore()
	log.Info().Str("backend", cfg.Storage.Backend).Msg("storage ready")

	// Legacy-shape migrations run on every startup; they are idempotent.
	if err := migrate.NewRunner(store, log).Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	clock := clockwork.NewRealClock()
	rosterRepo := roster.NewRepository(store, log)
	rosterApp := roster.NewApp(rosterRepo, clock, log)
	eventsRepo := events.NewRepository(store, log)
	eventsApp := events.NewApp(eventsRepo, rosterRepo, clock, log)

	hub := live.NewHub(log)
	handler := api.NewHandler(rosterApp, eventsApp, hub, log)
	server := api.NewServer(cfg.Server.Port, handler, hub, log)

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
	log.Info().Msg("server stopped")
}

func setupLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var log zerolog.Logger
	if cfg.Log.Pretty {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		log = zerolog.New(os.Stderr)
	}
	return log.Level(level).With().Timestamp().Logger()
}

// setupStorage builds the configured blob store and returns it with its
// cleanup function.
func setupStorage(ctx context.Context, cfg *config.Config) (storage.Store, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendBolt:
		s, err := storage.NewBolt(cfg.Storage.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	case config.BackendMemory:
		return storage.NewMemory(), func() {}, nil
	case config.BackendPostgres:
		s, err := storage.NewPostgres(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.BackendRemote:
		return storage.NewRemote(cfg.Remote.BaseURL, cfg.Remote.GroupID), func() {}, nil
	default:
		return nil, nil, errors.New("unknown storage backend " + cfg.Storage.Backend)
	}
}
