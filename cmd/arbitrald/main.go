package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"github.com/gondimadv/arbitral/internal/common"
	"github.com/gondimadv/arbitral/internal/prints"
	"github.com/gondimadv/arbitral/internal/repository"
	"github.com/gondimadv/arbitral/internal/server"
	"github.com/gondimadv/arbitral/internal/template"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.SetupDirectories(); err != nil {
		logger.Error("failed to create storage layout", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := repository.Open(ctx, cfg.Database.DSN, cfg.Database.DialTimeout, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	jobs, err := repository.NewJobRepository(ctx, db, logger)
	if err != nil {
		logger.Error("failed to prepare job store", "error", err)
		os.Exit(1)
	}

	srv, err := server.NewServer(cfg,
		template.NewStore(cfg.Storage.TemplatesDir, logger),
		prints.NewStore(cfg.Storage.PrintsDir, logger),
		jobs, logger)
	if err != nil {
		logger.Error("failed to build server", "error", err)
		os.Exit(1)
	}

	httpSrv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Handler(),
	}
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve failed", "error", err)
			stop()
		}
	}()
	logger.Info("http.serving", "addr", cfg.Server.Addr)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
