package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"innkeep/config"
	"innkeep/di"
	"innkeep/helper"
	"innkeep/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Innkeep API
// @version 1.0
// @description Hotel reservation and room inventory service.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.Configure(cfg)

	if err := helper.AutoMigrate(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := di.InitializeApplication()

	var wg sync.WaitGroup

	wg.Add(2)

	go func() {
		defer wg.Done()
		app.Sweeper.Run(ctx)
	}()

	go func() {
		defer wg.Done()
		app.Payments.Run(ctx)
	}()

	if err := app.HTTP.Serve(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server stopped")
		stop()
	}

	wg.Wait()

	if err := app.Kafka.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close kafka client")
	}

	log.Info().Msg("Shutdown complete")
}
