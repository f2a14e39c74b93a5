// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nashgetch/rg-ahaz-be-sub001/engine"
	"github.com/nashgetch/rg-ahaz-be-sub001/internal/auth"
	"github.com/nashgetch/rg-ahaz-be-sub001/internal/cache"
	"github.com/nashgetch/rg-ahaz-be-sub001/internal/config"
	"github.com/nashgetch/rg-ahaz-be-sub001/internal/database"
	"github.com/nashgetch/rg-ahaz-be-sub001/internal/game"
	"github.com/nashgetch/rg-ahaz-be-sub001/internal/handlers"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.StandardLogger()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Invalid configuration.")
	}
	log.SetLevel(cfg.LogLevel)
	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Redis.")
	}
	defer rdb.Close()
	store := cache.NewStore(rdb, cfg.StateTTL)

	deps := game.RoomDeps{Store: store, Actions: store, Logger: log}
	if cfg.DatabaseURL != "" {
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to Postgres.")
		}
		defer pool.Close()
		results := database.NewResults(pool)
		if err := results.EnsureSchema(ctx); err != nil {
			log.WithError(err).Fatal("Failed to prepare results schema.")
		}
		deps.Results = results
	} else {
		log.Warn("DATABASE_URL not set, round results will not be stored.")
	}

	rules := engine.DefaultHouseRules()
	rules.CardsPerPlayer = cfg.CardsPerPlayer
	rules.PenalizeInvalidDrops = cfg.PenalizeInvalidDrops

	hub := handlers.NewHub(log)
	manager := game.NewManager(rules, deps, hub)
	verifier := auth.NewVerifier([]byte(cfg.JWTSecret), cfg.JWTIssuer)

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: handlers.NewRouter(
			&handlers.Rooms{Manager: manager, Verifier: verifier, Log: log},
			&handlers.RoomSocket{Manager: manager, Hub: hub, Verifier: verifier, ExposeAudit: cfg.ExposeAudit, Log: log},
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("Listening.")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("HTTP server failed.")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down.")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed.")
	}
}
