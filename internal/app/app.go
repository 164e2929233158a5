// Package app wires configuration, the computation engine and the REST
// controller into one runnable service.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/skyasground/truenorth/internal/controllers/restserver"
	"github.com/skyasground/truenorth/internal/log"
	"github.com/skyasground/truenorth/pkg/chart"
	"github.com/skyasground/truenorth/pkg/config"
	"github.com/skyasground/truenorth/pkg/ephemeris"
	"github.com/skyasground/truenorth/pkg/rectify"
	"github.com/skyasground/truenorth/pkg/zodiac"
	"go.uber.org/zap"
)

// App represents the main application
type App struct {
	configProvider config.ConfigProvider
	logger         *zap.SugaredLogger
}

// New creates a new application instance
func New(configProvider config.ConfigProvider, logger *zap.SugaredLogger) *App {
	return &App{
		configProvider: configProvider,
		logger:         logger,
	}
}

// Run starts the application and blocks until shutdown
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := a.configProvider.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	// Assemble the computation engine: the calibrated arc table, the
	// analytic ephemeris, and the services layered on them.
	zod := zodiac.Default()
	provider := ephemeris.NewMeeus()
	builder := chart.NewBuilder(provider, zod)

	scanner, err := rectify.New(provider, zod, cfg.Scanner.Workers)
	if err != nil {
		return fmt.Errorf("error creating rectification scanner: %w", err)
	}

	engine := restserver.Engine{
		Zodiac:  zod,
		Builder: builder,
		Scanner: scanner,
	}

	rest, err := restserver.NewController(ctx, &wg, a.configProvider, cfg.HTTP, engine, a.logger)
	if err != nil {
		return fmt.Errorf("error creating REST controller: %w", err)
	}
	if err := rest.StartController(); err != nil {
		return err
	}

	log.Info("Application started successfully")

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	}

	// Cancel context to signal all goroutines to stop
	cancel()

	// Wait for all workers to terminate
	log.Info("waiting for all workers to terminate...")
	wg.Wait()
	log.Info("shutdown complete")

	return nil
}
