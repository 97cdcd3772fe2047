package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/starweb/starweb/config"
	"github.com/starweb/starweb/events"
	"github.com/starweb/starweb/game"
	"github.com/starweb/starweb/server"
	"github.com/starweb/starweb/store"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (optional)")
	port := flag.Int("port", 0, "Server port (overrides config)")
	seed := flag.Int64("seed", 0, "Map generation seed for a fresh game (0 = time-based)")
	flag.Parse()

	log := newLogger()

	cfg, err := config.Load(*configPath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("configuration load failed")
	}
	log = loggerFor(cfg.Logging)
	if *port != 0 {
		cfg.Server.Port = *port
	}

	st, err := store.NewStore(cfg.Server.DataDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("data directory unavailable")
	}

	gs, err := loadOrCreateState(cfg, st, *seed, log)
	if err != nil {
		log.Fatal().Err(err).Msg("game state unavailable")
	}

	bus := events.NewBus(log)
	gameServer := server.NewServer(cfg, gs, st, bus, log)

	ctx, cancel := context.WithCancel(context.Background())
	engineDone := make(chan struct{})
	go func() {
		defer close(engineDone)
		gameServer.Run(ctx)
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gameServer.HandleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown error")
	}

	// Stop the engine after the listener so no new connection races the
	// final save.
	cancel()
	select {
	case <-engineDone:
	case <-time.After(5 * time.Second):
		log.Error().Msg("engine did not stop in time")
	}

	log.Info().Msg("server stopped")
}

// loadOrCreateState restores the saved game or generates a fresh map.
func loadOrCreateState(cfg *config.Config, st *store.Store, seed int64, log zerolog.Logger) (*game.GameState, error) {
	snap, err := st.LoadState()
	if err != nil {
		return nil, err
	}
	if snap != nil {
		gs, err := game.LoadSnapshot(cfg, snap)
		if err != nil {
			return nil, fmt.Errorf("%w; run starwebctl restore", err)
		}
		log.Info().Int("turn", gs.Turn).Msg("game state restored")
		return gs, nil
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gs := game.NewGameState(cfg, seed)
	gs.GenerateMap(log)
	log.Info().Int64("seed", seed).Int("worlds", len(gs.Worlds)).Msg("new game generated")
	return gs, nil
}

func newLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
}

func loggerFor(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := newLogger()
	if cfg.Format == "json" {
		log = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	return log.Level(level)
}
