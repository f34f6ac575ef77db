package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/minerdev/codenames-api/config"
	"github.com/minerdev/codenames-api/internal/container"
	"github.com/minerdev/codenames-api/internal/server"
	"github.com/minerdev/codenames-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)

	deps := container.New(cfg, logger)
	defer func() { _ = deps.Close() }()

	srv, err := server.New(deps)
	if err != nil {
		logger.Fatalf("configure server: %v", err)
	}
	if err := srv.Start(); err != nil {
		logger.Fatalf("start server: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-srv.Done():
		if err != nil {
			logger.Fatalf("serve: %v", err)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
		return
	}
	<-srv.Done()
	logger.Info("server exited properly")
}
