package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/reelsbot/reels/internal/alignment"
	"github.com/reelsbot/reels/internal/api"
	"github.com/reelsbot/reels/internal/assets"
	"github.com/reelsbot/reels/internal/cache"
	"github.com/reelsbot/reels/internal/config"
	"github.com/reelsbot/reels/internal/db"
	"github.com/reelsbot/reels/internal/media"
	"github.com/reelsbot/reels/internal/music"
	"github.com/reelsbot/reels/internal/storage"
	"github.com/reelsbot/reels/internal/worker"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.Info("starting reels assembly worker")

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("failed to load config")
	}

	database, err := db.New(cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}
	defer database.Close()
	logger.Info("connected to database")

	// Alignment cache is optional: without Redis we still align, we just
	// pay for every transcription.
	var wordCache alignment.WordCache
	if c, err := cache.New(cfg.RedisURL); err != nil {
		logger.WithError(err).Warn("alignment cache unavailable, continuing without it")
	} else {
		defer c.Close()
		wordCache = c
		logger.Info("connected to alignment cache")
	}

	stor := storage.New(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseStorageBucket, logger)

	aligner := alignment.New(cfg.OpenAIKey, wordCache, logger)
	if aligner == nil {
		logger.Warn("no OpenAI key set, captions will use beat-apportioned timing")
	}

	musicLib, err := music.Load(cfg.MusicManifestPath)
	if err != nil {
		logger.WithError(err).Fatal("failed to load music library")
	}
	if musicLib.Len() > 0 {
		logger.WithField("tracks", musicLib.Len()).Info("loaded music library")
	}

	encoder := media.NewFFmpeg()

	deps := worker.Deps{
		Jobs:      database,
		Videos:    database,
		Fetcher:   assets.NewFetcher(logger),
		Encoder:   encoder,
		Assembler: media.NewAssembler(encoder, logger),
		Uploader:  stor,
		Music:     musicLib,
	}
	if aligner != nil {
		deps.Aligner = aligner
	}
	w := worker.New(deps, cfg, logger)

	handler := api.NewHandler(database, database.DB, logger)
	router := api.NewRouter(handler, api.RouterConfig{
		CorsAllowedOrigins: cfg.CorsAllowedOrigins,
	})
	server := &http.Server{
		Addr:    ":" + cfg.OpsPort,
		Handler: router,
	}

	go func() {
		logger.WithField("port", cfg.OpsPort).Info("ops server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("ops server error")
		}
	}()

	workerCtx, workerCancel := context.WithCancel(context.Background())
	workerDone := make(chan error, 1)
	go func() {
		workerDone <- w.Run(workerCtx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("shutdown signal received")
		workerCancel()
		<-workerDone
	case err := <-workerDone:
		// Job mode or a capped run finished on its own.
		if err != nil && err != context.Canceled {
			logger.WithError(err).Error("worker exited with error")
		}
		workerCancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("ops server forced to shut down")
	}

	logger.Info("worker exited")
}
