package main

import (
	"context"

	"github.com/ehealth/portal/internal/client/cli"
	"github.com/ehealth/portal/internal/client/config"
	"github.com/ehealth/portal/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.Init(logging.Options{Level: cfg.LogLevel, Pretty: true})

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("startup failed")
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("portal exited with error")
	}
}
