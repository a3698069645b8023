package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/medkeeper/internal/buildinfo"
	"github.com/dmitrijs2005/medkeeper/internal/client/cli"
	"github.com/dmitrijs2005/medkeeper/internal/client/config"
	"github.com/dmitrijs2005/medkeeper/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.NewText(os.Stderr, slog.LevelInfo)
	cfg := config.LoadConfig()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "starting client", "error", err)
		os.Exit(1)
	}

	app.Run(ctx)
}
