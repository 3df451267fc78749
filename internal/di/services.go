package di

import (
	"context"
	"fmt"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/config"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/events"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/charts"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/holdings"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/quotes"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/refresh"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/risk"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/snapshots"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/reliability"
	"github.com/rs/zerolog"
)

// InitializeRepositories creates the data access layer
func InitializeRepositories(container *Container, log zerolog.Logger) error {
	if container.PortfolioDB == nil {
		return fmt.Errorf("portfolio database not initialized")
	}
	container.SnapshotRepo = snapshots.NewRepository(container.PortfolioDB.Conn(), log)
	return nil
}

// InitializeServices creates the business logic layer
func InitializeServices(ctx context.Context, container *Container, cfg *config.Config, log zerolog.Logger) error {
	policy, err := snapshots.NewPolicy(cfg.SnapshotWeekday)
	if err != nil {
		return fmt.Errorf("failed to build snapshot policy: %w", err)
	}

	container.EventBus = events.NewBus(log)
	container.HoldingsLoader = holdings.FileLoader{Path: cfg.HoldingsFile}
	container.MarketSource = quotes.NewFileSource(cfg.MarketDataFile, log)
	container.ChartsService = charts.NewService(log)

	container.RefreshService = refresh.NewService(
		refresh.Config{
			FallbackFXRate: cfg.FallbackFXRate,
			HistoryLimit:   cfg.SnapshotHistoryLimit,
			FetchTimeout:   cfg.FetchTimeout,
		},
		container.HoldingsLoader,
		container.MarketSource,
		container.SnapshotRepo,
		policy,
		refresh.NewPipeline(risk.DefaultConfig(), log),
		container.EventBus,
		log,
	)

	if !cfg.Backup.Enabled() {
		log.Info().Msg("S3_BUCKET not set, backups disabled")
		return nil
	}

	s3Client, err := reliability.NewS3Client(ctx, reliability.S3Config{
		Bucket:          cfg.Backup.Bucket,
		Endpoint:        cfg.Backup.Endpoint,
		Region:          cfg.Backup.Region,
		AccessKeyID:     cfg.Backup.AccessKeyID,
		SecretAccessKey: cfg.Backup.SecretAccessKey,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to create s3 client: %w", err)
	}
	container.BackupService = reliability.NewBackupService(
		container.PortfolioDB,
		s3Client,
		cfg.Backup.Prefix,
		container.EventBus,
		log,
	)

	return nil
}
