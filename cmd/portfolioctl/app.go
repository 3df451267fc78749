package main

import (
	"context"
	"fmt"
	"os"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/config"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/di"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/quotes"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/refresh"
	"github.com/heisenbergtrx/portfolio-dashboard/pkg/logger"
	"github.com/rs/zerolog"
)

// app holds what every subcommand needs
type app struct {
	cfg       *config.Config
	log       zerolog.Logger
	container *di.Container
	jobs      *di.JobInstances
}

// commonFlags are shared by commands that run a refresh
type commonFlags struct {
	market  string
	verbose bool
}

func newApp(ctx context.Context, verbose bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	// Commands print tables to stdout, so logs go to stderr
	level := "warn"
	if verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Level: level, Pretty: true, Output: os.Stderr})

	container, jobs, err := di.Wire(ctx, cfg, nil, log)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, log: log, container: container, jobs: jobs}, nil
}

func (a *app) Close() {
	if err := a.container.Close(); err != nil {
		a.log.Warn().Err(err).Msg("Failed to close database")
	}
}

// refresh runs one refresh, reading market data from marketFile when set
func (a *app) refresh(ctx context.Context, marketFile string) (*refresh.Result, error) {
	var source quotes.Source
	if marketFile != "" {
		source = quotes.NewFileSource(marketFile, a.log)
	}

	result, err := a.container.RefreshService.Refresh(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("refresh failed: %w", err)
	}
	return result, nil
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

// baseCurrency reads the base currency from the holdings file, TRY when it cannot be read
func (a *app) baseCurrency() string {
	p, err := a.container.HoldingsLoader.Load()
	if err != nil {
		a.log.Debug().Err(err).Msg("Holdings unreadable, using default base currency")
		return "TRY"
	}
	return p.Settings.BaseCurrency
}
