package di

import (
	"fmt"
	"time"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/config"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/scheduler"
	"github.com/rs/zerolog"
)

const (
	refreshJobTimeout     = 5 * time.Minute
	backupJobTimeout      = 10 * time.Minute
	checkDatabaseSchedule = "@daily"
)

// RegisterJobs creates the jobs and registers the scheduled ones with sched.
// sched may be nil, in which case jobs are only created for manual use.
func RegisterJobs(container *Container, cfg *config.Config, sched *scheduler.Scheduler, log zerolog.Logger) (*JobInstances, error) {
	instances := &JobInstances{}

	instances.Refresh = scheduler.NewRefreshJob(container.RefreshService, refreshJobTimeout)
	instances.Refresh.SetLogger(log)

	instances.CheckDatabase = scheduler.NewCheckDatabaseJob(container.PortfolioDB)
	instances.CheckDatabase.SetLogger(log)

	if container.BackupService != nil {
		instances.Backup = scheduler.NewBackupJob(container.BackupService, backupJobTimeout)
		instances.Backup.SetLogger(log)
	}

	if sched == nil {
		return instances, nil
	}

	if cfg.RefreshSchedule != "" {
		if err := sched.AddJob(cfg.RefreshSchedule, instances.Refresh); err != nil {
			return nil, fmt.Errorf("failed to register refresh job: %w", err)
		}
	}
	if instances.Backup != nil && cfg.Backup.Schedule != "" {
		if err := sched.AddJob(cfg.Backup.Schedule, instances.Backup); err != nil {
			return nil, fmt.Errorf("failed to register backup job: %w", err)
		}
	}
	if err := sched.AddJob(checkDatabaseSchedule, instances.CheckDatabase); err != nil {
		return nil, fmt.Errorf("failed to register database check job: %w", err)
	}

	log.Info().Int("jobs", sched.JobCount()).Msg("Jobs registered")
	return instances, nil
}
