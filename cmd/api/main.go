package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"towerdb/internal/app"
	"towerdb/internal/server"
	"towerdb/pkg/logger"
)

const SHUTDOWN_TIMEOUT = 10 * time.Second

func main() {
	log := logger.New("main")

	if err := run(log); err != nil {
		log.Er("towerdb api exited with error", err)
		os.Exit(1)
	}
	log.Info("Graceful shutdown complete")
}

// run serves until SIGINT/SIGTERM or a listener failure, then drains
// in-flight requests before closing the scheduler, event bus and databases.
func run(log logger.Logger) (err error) {
	log = log.Function("run")

	application, err := app.New()
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, application.Close())
	}()

	srv, err := server.New(application)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- srv.Listen(application.Config.ServerPort)
	}()

	select {
	case err := <-listenErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down, press Ctrl+C again to force")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
	defer cancel()
	if err := srv.FiberApp.ShutdownWithContext(shutdownCtx); err != nil {
		return log.Err("server forced to shutdown", err)
	}
	return nil
}
