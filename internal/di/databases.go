package di

import (
	"fmt"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/config"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/database"
	"github.com/rs/zerolog"
)

// InitializeDatabases opens the snapshot database and applies its schema
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	// portfolio.db - Weekly snapshot history; append-only, so it gets the ledger profile
	portfolioDB, err := database.New(database.Config{
		Path:    cfg.DatabasePath(),
		Profile: database.ProfileLedger,
		Name:    "portfolio",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize portfolio database: %w", err)
	}
	container.PortfolioDB = portfolioDB

	if err := portfolioDB.Migrate(); err != nil {
		portfolioDB.Close()
		return nil, fmt.Errorf("failed to apply schema to %s: %w", portfolioDB.Name(), err)
	}

	log.Info().Str("path", portfolioDB.Path()).Msg("Database initialized and schema applied")

	return container, nil
}
