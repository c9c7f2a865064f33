// Package main - Entry point for the Gapminder dashboard server
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"gapminder/api"
	"gapminder/internal/app"
	"gapminder/internal/config"
	"gapminder/internal/logging"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file (json, yaml or hcl)")
	addr := flag.String("addr", "", "Server address (overrides config)")
	uiPath := flag.String("ui", "", "Path to UI files (overrides config)")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *uiPath != "" {
		cfg.Server.UIPath = *uiPath
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	if err := run(cfg, logging.Named("server")); err != nil {
		logging.Error("server stopped", zap.Error(err))
		logging.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	handle := app.NewHandle(cfg, logging.Logger)
	if cfg.Server.EagerBuild {
		ds, err := handle.Get(context.Background())
		if err != nil {
			return err
		}
		logging.Info("dataset ready before serving", zap.String("build_id", ds.ID.String()))
	}

	apiServer := api.NewServer(app.Version, handle, app.NewRenderer(cfg), logging.Named("api"))
	if cfg.Server.UIPath != "" {
		if _, err := os.Stat(cfg.Server.UIPath); err != nil {
			logging.Warn("ui path unavailable, static files will 404", zap.String("path", cfg.Server.UIPath), zap.Error(err))
		}
		apiServer.MountUI(cfg.Server.UIPath)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           apiServer,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("addr", cfg.Server.Addr),
			zap.String("version", app.Version),
			zap.String("ui", cfg.Server.UIPath),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
