package main

import (
	"context"
	"log"
	"net"
	"os"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/wunderfrucht/jobsuche/internal/config"
	"github.com/wunderfrucht/jobsuche/internal/mcp"
	"github.com/wunderfrucht/jobsuche/internal/scheduler"
	"github.com/wunderfrucht/jobsuche/pkg/logging"
	"github.com/wunderfrucht/jobsuche/pkg/shutdown"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	res, err := mcp.LoadResources(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build resources", "err", err)
		os.Exit(1)
	}

	srv, err := mcp.NewServer(logger, cfg, res)
	if err != nil {
		logger.Error("failed to create MCP server", "err", err)
		_ = res.Shutdown(ctx)
		os.Exit(1)
	}

	// The HTTP server stops first, then the scheduler, then the Neo4j driver.
	stoppables := []shutdown.Stoppable{srv}
	if cfg.Watch.Schedule != "" {
		sched := scheduler.New(res.JobService, cfg.Watch, logger)
		if err := sched.Start(ctx); err != nil {
			logger.Error("failed to start watch scheduler", "err", err)
			_ = res.Shutdown(ctx)
			os.Exit(1)
		}
		stoppables = append(stoppables, sched)
	}
	stoppables = append(stoppables, res)

	done := make(chan struct{})
	go func() {
		defer close(done)
		shutdown.Graceful(
			[]os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP},
			10*time.Second,
			logger,
			stoppables...,
		)
	}()

	logger.Info("MCP server initialized and starting", "addr", net.JoinHostPort(cfg.Host, cfg.Port))

	if err := srv.Run(); err != nil {
		logger.Error("MCP server exited with error", "err", err)
		_ = shutdown.Stop(ctx, stoppables[1:]...)
		os.Exit(1)
	}

	<-done
	logger.Info("MCP server stopped")
}
