package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"fraudeda/internal"
	"fraudeda/internal/api"
	"fraudeda/internal/config"
	"fraudeda/internal/errors"
	"fraudeda/internal/model"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	if err := run(config.Load()); err != nil {
		log.Fatalf("Fraud detection API failed: %v", err)
	}
}

// run serves predictions until SIGINT/SIGTERM, then drains within the shutdown timeout
func run(appConfig *config.Config) error {
	if err := appConfig.ValidateServer(); err != nil {
		return err
	}

	logger, err := internal.NewFileLogger(internal.ParseLogLevel(appConfig.Log.Level), appConfig.Log.File)
	if err != nil {
		return errors.Wrapf(err, "opening log file %s", appConfig.Log.File)
	}
	defer logger.Close()

	predictor, err := model.Load(appConfig.Model.Path)
	if err != nil {
		return err
	}
	logger.Info("Loaded logistic model from %s (%d features)", appConfig.Model.Path, predictor.NumFeatures())

	server := api.NewServer(appConfig.Server, predictor, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), appConfig.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "graceful shutdown failed")
	}
	return <-errCh
}
