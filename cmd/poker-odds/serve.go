package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/lox/pokerequity/equity"
	"github.com/lox/pokerequity/internal/config"
	"github.com/lox/pokerequity/internal/server"
)

// ServeCmd exposes the calculator over a WebSocket endpoint.
type ServeCmd struct {
	Addr string `help:"Listen address (overrides the server block in config)"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := setupLogger(os.Stderr, cfg.LogLevel, g.Debug)

	addr := c.Addr
	if addr == "" {
		addr = cfg.ServerAddress()
	}

	calc := equity.New(equity.Config{
		Iterations:           cfg.Iterations,
		ConcurrencyThreshold: cfg.ConcurrencyThreshold,
		Workers:              cfg.Workers,
		Logger:               logger,
	})
	srv := server.NewServer(addr, calc, cfg.Server.MaxIterations, logger)

	ctx := setupSignalHandler(logger)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
		logger.Info("Server stopped")
		return nil
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	}
}
