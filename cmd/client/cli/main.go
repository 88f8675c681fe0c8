package main

import (
	"context"
	"os"

	"github.com/dzaky3022/wincal/internal/client/cli"
	"github.com/dzaky3022/wincal/internal/client/config"
	"github.com/dzaky3022/wincal/internal/logging"
)

func main() {
	ctx := context.Background()

	cfg := config.LoadConfig()
	log := logging.NewDefault()

	app, err := cli.NewApp(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to start", "error", err)
		os.Exit(1)
	}

	app.Run(ctx)
}
