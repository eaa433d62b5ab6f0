package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"placescout/internal/browserpool"
	"placescout/internal/config"
	"placescout/internal/httpapi"
	"placescout/internal/progressstream"
	"placescout/internal/queue"
	"placescout/internal/workerfleet"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
	})
	defer rdb.Close()

	store := queue.NewStore(rdb, queue.Config{
		MaxAttempts:     cfg.MaxAttempts,
		BackoffBase:     cfg.BackoffBase,
		StallInterval:   cfg.StallInterval,
		RetainCompleted: cfg.RetainCompleted,
		RetainFailed:    cfg.RetainFailed,
	})

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store.StartStallReclaimer(rootCtx)

	var fleet *workerfleet.Fleet
	var pool *browserpool.Pool

	runWorker := cfg.AppMode == config.ModeWorker || cfg.AppMode == config.ModeBoth
	runAPI := cfg.AppMode == config.ModeAPI || cfg.AppMode == config.ModeBoth

	if runWorker {
		pool = browserpool.New(browserpool.Options{
			Min:         0,
			Max:         cfg.MaxBrowserInstances,
			MaxUses:     50,
			IdleTimeout: cfg.BrowserTimeout,
		})
		fleet = workerfleet.New(store, pool, cfg.WorkerConcurrency, cfg.BrowserTimeout, logger)
		go fleet.Run(rootCtx)
	}

	if runAPI {
		stream := progressstream.New(store, cfg.StreamPollInterval)
		srv := httpapi.NewServer(cfg.Port, httpapi.Deps{
			Queue:  store,
			Reader: store,
			Stream: stream,
			Logger: logger,
		})

		go func() {
			<-rootCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("http server shutdown failed", "error", err)
			}
		}()

		logger.Info("placescout starting", "mode", cfg.AppMode, "port", cfg.Port)
		if err := srv.Listen(); err != nil {
			log.Fatalf("server failed: %v", err)
		}
	} else {
		logger.Info("placescout starting", "mode", cfg.AppMode)
		<-rootCtx.Done()
	}

	if pool != nil {
		pool.Shutdown()
	}
	drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Drain(drainCtx, 10*time.Second); err != nil {
		logger.Error("queue drain failed", "error", err)
	}
}
