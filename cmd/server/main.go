package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"carteira/internal/api"
	"carteira/internal/config"
	"carteira/internal/logging"
	"carteira/pkg/carteira"
)

func main() {
	var host string
	var port int
	var dbPath string
	var webDir string

	flag.StringVar(&host, "host", "", "Host to bind the server to (overrides CARTEIRA_HOST)")
	flag.IntVar(&port, "port", 0, "Port to run the server on (overrides CARTEIRA_PORT)")
	flag.StringVar(&dbPath, "db", "", "Path to the SQLite database (overrides CARTEIRA_DB_PATH)")
	flag.StringVar(&webDir, "web-dir", "", "Directory for SPA static files (optional)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}
	if host != "" {
		cfg.Host = host
	}
	if port > 0 {
		cfg.Port = port
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if webDir != "" {
		cfg.WebDir = webDir
	}

	logger, writer, err := logging.NewLogger(cfg.LogDir(), slog.LevelInfo)
	if err != nil {
		slog.Error("failed to initialize logger", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := writer.Close(); err != nil {
			logger.Error("failed to close log writer", "err", err)
		}
	}()

	core, err := carteira.OpenWithOptions(carteira.Options{DBPath: cfg.DBPath, Logger: logger})
	if err != nil {
		logger.Error("failed to initialize core", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := core.Close(); err != nil {
			logger.Error("failed to close core", "err", err)
		}
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	handler := api.NewRouter(api.Options{
		Core:         core,
		Logger:       logger,
		GeminiAPIKey: cfg.GeminiAPIKey,
	})
	if cfg.WebDir != "" && dirExists(cfg.WebDir) {
		logger.Info("serving SPA", "web_dir", cfg.WebDir)
		handler = api.WithSPA(handler, cfg.WebDir)
	}
	handler = middleware.Compress(5)(handler)

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("server starting", "addr", addr, "db", core.DBPath())
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	<-stop

	logger.Info("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "err", err)
	}
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
