package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/preston-bernstein/nba-improvement-service/internal/config"
	"github.com/preston-bernstein/nba-improvement-service/internal/logging"
	"github.com/preston-bernstein/nba-improvement-service/internal/server"
)

const (
	appName    = "nba-improvement-service"
	appVersion = "dev"
)

func main() {
	if os.Getenv("SKIP_SERVER_RUN") == "1" {
		return
	}
	os.Exit(run())
}

func run() int {
	bootLogger := logging.NewLogger(logging.Config{Service: appName, Version: appVersion})
	if err := loadDotEnv(os.Getenv("ENV_FILE")); err != nil {
		logging.Error(bootLogger, "failed to load env file", err)
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error(bootLogger, "invalid configuration", err)
		return 1
	}
	logger := logging.NewLogger(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: appName,
		Version: appVersion,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, logger)
	srv.Run(ctx, stop)
	return 0
}

// loadDotEnv reads KEY=VALUE pairs without overriding the real environment. A missing
// default .env is fine; a missing explicit ENV_FILE is not.
func loadDotEnv(path string) error {
	if path != "" {
		return godotenv.Load(path)
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
