package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"listkit/internal/config"
	httpx "listkit/internal/http"
	"listkit/internal/services/directory"
	"listkit/internal/store/postgres"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := postgres.MustOpen(ctx, cfg.DB.DSN)
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	dir := directory.NewService(
		postgres.NewWorkerRepository(pool),
		postgres.NewLocationRepository(pool),
		directory.Limits{Default: cfg.List.DefaultLimit, Max: cfg.List.MaxLimit},
	)

	r := httpx.NewRouter(httpx.RouterDependencies{Config: cfg, Directory: dir})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("env", cfg.App.Env).Msgf("listkit API listening on :%s", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	cancel()
	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	log.Info().Msg("server stopped")
}
