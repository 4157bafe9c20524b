package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"presswatch/config"
	"presswatch/core/appbootstrap"
	"presswatch/core/utils"
)

func main() {
	configPath := flag.String("config", "", "path to yaml config (environment variables apply either way)")
	flag.Parse()

	logger := utils.NewLogger()
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Errorf("load config: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := appbootstrap.Run(ctx, cfg, logger); err != nil {
		logger.Errorf("server exited: %v", err)
		os.Exit(1)
	}
}
