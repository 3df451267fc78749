package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/domain"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/quotes"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/refresh"
	"github.com/rs/zerolog"
)

// Refresher runs a portfolio refresh
type Refresher interface {
	Refresh(ctx context.Context, source quotes.Source) (*refresh.Result, error)
}

// RefreshJob refreshes the portfolio from the configured market data source
type RefreshJob struct {
	refresher Refresher
	timeout   time.Duration
	log       zerolog.Logger
}

// NewRefreshJob creates a new RefreshJob
func NewRefreshJob(refresher Refresher, timeout time.Duration) *RefreshJob {
	return &RefreshJob{
		refresher: refresher,
		timeout:   timeout,
		log:       zerolog.Nop(),
	}
}

// SetLogger sets the logger for the job
func (j *RefreshJob) SetLogger(log zerolog.Logger) {
	j.log = log.With().Str("job", j.Name()).Logger()
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "refresh_portfolio"
}

// Run executes the refresh. A refresh already in progress is not an error.
func (j *RefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	result, err := j.refresher.Refresh(ctx, nil)
	if errors.Is(err, domain.ErrRefreshInProgress) {
		j.log.Info().Msg("Refresh already in progress, skipping")
		return nil
	}
	if err != nil {
		return fmt.Errorf("scheduled refresh failed: %w", err)
	}

	event := j.log.Info().
		Str("run_id", result.RunID).
		Float64("total_value_base", result.Metrics.TotalValueBase)
	if result.Snapshot != nil {
		event = event.Str("snapshot_id", result.Snapshot.ID)
	}
	event.Msg("Scheduled refresh completed")

	return nil
}
