// Package di provides dependency injection type definitions.
package di

import (
	"github.com/heisenbergtrx/portfolio-dashboard/internal/database"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/events"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/charts"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/holdings"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/quotes"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/refresh"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/snapshots"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/reliability"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/scheduler"
)

// Container holds all dependencies for the application.
// It is created by Wire() and passed to the server and CLI.
type Container struct {
	// Database
	PortfolioDB *database.DB // Snapshot history

	// Repositories
	SnapshotRepo *snapshots.Repository

	// Inputs
	HoldingsLoader holdings.FileLoader
	MarketSource   *quotes.FileSource

	// Services
	EventBus       *events.Bus
	RefreshService *refresh.Service
	ChartsService  *charts.Service
	BackupService  *reliability.BackupService // nil when backups are disabled
}

// JobInstances holds the scheduled jobs for manual triggering
type JobInstances struct {
	Refresh       *scheduler.RefreshJob
	Backup        *scheduler.BackupJob // nil when backups are disabled
	CheckDatabase *scheduler.CheckDatabaseJob
}

// Close releases the container's resources
func (c *Container) Close() error {
	if c == nil || c.PortfolioDB == nil {
		return nil
	}
	return c.PortfolioDB.Close()
}
