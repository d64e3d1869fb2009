// cmd/alfred/main.go
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/mhoffman/alfred/internal/assistant"
	"github.com/mhoffman/alfred/internal/cache"
	"github.com/mhoffman/alfred/internal/config"
	"github.com/mhoffman/alfred/internal/server"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if err := run(logger); err != nil {
		logger.Fatal().Err(err).Msg("alfred failed")
	}
}

func run(logger zerolog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := cache.Open(cfg.CachePath)
	if err != nil {
		return err
	}
	defer store.Close()

	passcode := server.NewPasscode(cfg.Passcode)

	// The real AI, Notion and calendar clients plug in here. Until
	// they are wired, every domain endpoint reports its backend as
	// unconfigured while the web UI and admin endpoints keep working.
	backend := assistant.Unconfigured{}
	service := assistant.New(assistant.Options{
		Brain:    backend,
		Notion:   backend,
		Calendar: backend,
		Agent:    backend,
		Configs:  backend,
		Cache:    store,
		Passcode: passcode,
		Logger:   logger,
	})

	router := server.NewRouter()
	service.Register(router)

	srv := server.New(server.Options{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Router:       router,
		Passcode:     passcode,
		Logger:       logger,
		WebDir:       cfg.WebDir,
		ConnDeadline: cfg.ConnDeadline,
		MaxConns:     cfg.MaxConns,
	})
	if err := srv.Start(); err != nil {
		return err
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	srv.Stop()
	return nil
}
