package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/medkeeper/internal/buildinfo"
	"github.com/dmitrijs2005/medkeeper/internal/server"
	"github.com/dmitrijs2005/medkeeper/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(ctx, cfg, nil)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
