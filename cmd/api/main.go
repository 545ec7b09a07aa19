// Command api runs the Badddy backend service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/regi-gouale/badddy/internal/config"
	"github.com/regi-gouale/badddy/internal/logger"
	"github.com/regi-gouale/badddy/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env file is fine; the real environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.LoadAPI()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(ctx, cfg, log)
	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	select {
	case err := <-errc:
		if err != nil {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			log.Error("shutdown failed", "error", err)
			os.Exit(1)
		}
	}
}
