package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ehealth/portal/internal/logging"
	"github.com/ehealth/portal/internal/stub"
)

func main() {

	addr := flag.String("addr", ":8000", "listen address")
	secret := flag.String("secret", "dev-secret", "JWT signing secret")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	logger := logging.Init(logging.Options{Level: *level})

	srv := stub.New(*secret, logger)

	go func() {
		logger.Info().Str("addr", *addr).Msg("stub backend listening")
		if err := srv.Start(*addr); err != nil {
			logger.Error().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown failed")
	}
}
