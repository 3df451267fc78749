package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/reliability"
	"github.com/rs/zerolog"
)

// Backuper uploads a database backup
type Backuper interface {
	Backup(ctx context.Context) (*reliability.BackupResult, error)
}

// BackupJob uploads a backup of the snapshot database
type BackupJob struct {
	backuper Backuper
	timeout  time.Duration
	log      zerolog.Logger
}

// NewBackupJob creates a new BackupJob
func NewBackupJob(backuper Backuper, timeout time.Duration) *BackupJob {
	return &BackupJob{
		backuper: backuper,
		timeout:  timeout,
		log:      zerolog.Nop(),
	}
}

// SetLogger sets the logger for the job
func (j *BackupJob) SetLogger(log zerolog.Logger) {
	j.log = log.With().Str("job", j.Name()).Logger()
}

// Name returns the job name
func (j *BackupJob) Name() string {
	return "backup_database"
}

// Run executes the backup
func (j *BackupJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	result, err := j.backuper.Backup(ctx)
	if err != nil {
		return fmt.Errorf("scheduled backup failed: %w", err)
	}

	j.log.Info().
		Str("key", result.Key).
		Int64("size_bytes", result.SizeBytes).
		Msg("Scheduled backup completed")
	return nil
}
