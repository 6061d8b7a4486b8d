package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"github.com/bomi-coder/liar-game/internal/app"
	"github.com/bomi-coder/liar-game/internal/config"
	httpTransport "github.com/bomi-coder/liar-game/internal/transport/http"
)

func main() {
	cfg := config.Load()

	level := parseLogLevel(cfg.Logging.Level)
	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = tint.NewHandler(os.Stdout, &tint.Options{Level: level})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	logger.Info("starting liar game server",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"rounds", cfg.Game.TotalRounds,
	)

	hub := app.NewRoomHub(cfg.Settings(), cfg.Game.HostCode, logger)
	defer hub.Close()

	server := httpTransport.NewServer(cfg, hub, logger)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
