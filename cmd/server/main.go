package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dkellerny/Fire-Watch-GUI/internal/api/twelvedata"
	"github.com/dkellerny/Fire-Watch-GUI/internal/auth"
	"github.com/dkellerny/Fire-Watch-GUI/internal/config"
	"github.com/dkellerny/Fire-Watch-GUI/internal/database"
	"github.com/dkellerny/Fire-Watch-GUI/internal/news"
	"github.com/dkellerny/Fire-Watch-GUI/internal/server"
	"github.com/dkellerny/Fire-Watch-GUI/internal/watchlist"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl)

	if cfg.TwelveAPIKey == "" {
		log.Fatal().Msg("TWELVE_API_KEY is required")
	}

	db, err := database.New(database.ConnectionParams{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	dataClient := twelvedata.NewClient(twelvedata.ClientOptions{
		APIKey:         cfg.TwelveAPIKey,
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
		RequestsPerSec: cfg.RequestsPerSec,
	})

	newsClient := news.NewClient(news.ClientOptions{
		APIKey:         cfg.NewsAPIKey,
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
		RequestsPerSec: cfg.RequestsPerSec,
	})
	if !newsClient.Enabled() {
		log.Warn().Msg("NEWS_API_KEY not set, news lookups disabled")
	}

	authSvc := auth.NewService(db, cfg.SessionTTL)
	wlSvc := watchlist.NewService(db, dataClient, cfg.WatchlistLimit, cfg.BatchAddLimit)
	newsSvc := news.NewService(newsClient, cfg.NewsCacheTTL, 20)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.New(cfg, authSvc, wlSvc, newsSvc, dataClient).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Expired sessions get pruned in the background
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := db.DeleteExpiredSessions(context.Background()); err != nil {
				log.Warn().Err(err).Msg("Session cleanup failed")
			}
		}
	}()

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info().Msg("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Shutdown failed")
	}
}
