package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AdamBeresnev/tournament-scheduler/internal/config"
	"github.com/AdamBeresnev/tournament-scheduler/internal/db"
	"github.com/AdamBeresnev/tournament-scheduler/internal/service"
	"github.com/AdamBeresnev/tournament-scheduler/internal/store"
	"github.com/jmoiron/sqlx"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg.LogFormat))

	database, err := db.Open(cfg)
	if err != nil {
		slog.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      newRouter(newServices(database, cfg), routerOptions{allowedOrigins: cfg.AllowedOrigins, writeRateLimit: cfg.WriteRateLimit}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  time.Minute,
		ErrorLog:     slog.NewLogLogger(slog.Default().Handler(), slog.LevelError),
	}

	shutdownErr := make(chan error, 1)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit
		slog.Info("Shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		shutdownErr <- srv.Shutdown(ctx)
	}()

	slog.Info("Server starting", "addr", srv.Addr, "driver", cfg.DBDriver)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
	if err := <-shutdownErr; err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}

func newLogger(format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func newServices(database *sqlx.DB, cfg *config.Config) *services {
	tournamentStore := store.NewTournamentStore(database)
	playerStore := store.NewPlayerStore(database)
	courtStore := store.NewCourtStore(database)
	matchStore := store.NewMatchStore(database)

	return &services{
		tournaments: service.NewTournamentService(database, tournamentStore, playerStore, courtStore, matchStore),
		entries:     service.NewEntryService(database, tournamentStore, playerStore),
		generation:  service.NewGenerationService(database, tournamentStore, courtStore, matchStore),
		rounds:      service.NewRoundService(database, tournamentStore, courtStore, matchStore),
		matches:     service.NewMatchService(database, matchStore, tournamentStore, playerStore, courtStore),
		courts:      service.NewCourtService(database, courtStore, tournamentStore, matchStore, cfg.MatchDuration),
		players:     service.NewPlayerService(database, playerStore, tournamentStore, courtStore, matchStore, cfg.MatchDuration),
	}
}
