// Package reliability provides database backups to object storage.
package reliability

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/events"
	"github.com/rs/zerolog"
)

// ErrBackupDisabled is returned when no bucket is configured
var ErrBackupDisabled = errors.New("backups are disabled: S3_BUCKET is not set")

const (
	backupKeyPrefix  = "snapshots-"
	backupKeySuffix  = ".db"
	backupTimeLayout = "20060102T150405Z"
	minBackupsToKeep = 3
)

// Snapshotter writes a consistent copy of a database to a new file
type Snapshotter interface {
	BackupTo(ctx context.Context, path string) error
}

// BackupResult describes one uploaded backup
type BackupResult struct {
	Bucket    string        `json:"bucket"`
	Key       string        `json:"key"`
	SizeBytes int64         `json:"size_bytes"`
	Checksum  string        `json:"checksum"`
	Duration  time.Duration `json:"duration"`
}

// BackupInfo represents a backup stored in the bucket
type BackupInfo struct {
	Key       string    `json:"key"`
	Timestamp time.Time `json:"timestamp"`
	SizeBytes int64     `json:"size_bytes"`
	AgeHours  int64     `json:"age_hours"`
}

// BackupService copies the snapshot database and uploads it to object storage
type BackupService struct {
	db     Snapshotter
	store  ObjectStore
	bus    *events.Bus
	prefix string
	now    func() time.Time
	log    zerolog.Logger
}

// NewBackupService creates a new backup service. bus may be nil.
func NewBackupService(db Snapshotter, store ObjectStore, prefix string, bus *events.Bus, log zerolog.Logger) *BackupService {
	return &BackupService{
		db:     db,
		store:  store,
		bus:    bus,
		prefix: prefix,
		now:    time.Now,
		log:    log.With().Str("service", "backup").Logger(),
	}
}

// Backup copies the database with VACUUM INTO and uploads it under
// <prefix>snapshots-<UTC timestamp>.db
func (s *BackupService) Backup(ctx context.Context) (*BackupResult, error) {
	start := s.now()
	s.log.Info().Msg("Starting database backup")

	stagingDir, err := os.MkdirTemp("", "portfolio-backup-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(stagingDir)

	stagingPath := filepath.Join(stagingDir, "snapshots.db")
	if err := s.db.BackupTo(ctx, stagingPath); err != nil {
		return nil, err
	}

	info, err := os.Stat(stagingPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat backup: %w", err)
	}

	checksum, err := calculateChecksum(stagingPath)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate checksum: %w", err)
	}

	file, err := os.Open(stagingPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open backup: %w", err)
	}
	defer file.Close()

	key := s.keyFor(start)
	if err := s.store.Upload(ctx, key, file); err != nil {
		return nil, err
	}

	result := &BackupResult{
		Bucket:    s.store.Bucket(),
		Key:       key,
		SizeBytes: info.Size(),
		Checksum:  checksum,
		Duration:  s.now().Sub(start),
	}

	s.log.Info().
		Str("key", key).
		Int64("size_bytes", result.SizeBytes).
		Str("checksum", checksum).
		Dur("duration_ms", result.Duration).
		Msg("Database backup uploaded")

	if s.bus != nil {
		s.bus.Emit("backup", &events.BackupCompletedData{
			Bucket:    result.Bucket,
			Key:       result.Key,
			SizeBytes: result.SizeBytes,
		})
	}

	return result, nil
}

// ListBackups lists backups under the prefix, newest first
func (s *BackupService) ListBackups(ctx context.Context) ([]BackupInfo, error) {
	objects, err := s.store.List(ctx, s.prefix+backupKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	now := s.now()
	backups := make([]BackupInfo, 0, len(objects))
	for _, obj := range objects {
		ts, ok := s.parseKey(obj.Key)
		if !ok {
			s.log.Warn().Str("key", obj.Key).Msg("Failed to parse timestamp from backup key")
			continue
		}
		backups = append(backups, BackupInfo{
			Key:       obj.Key,
			Timestamp: ts,
			SizeBytes: obj.SizeBytes,
			AgeHours:  int64(now.Sub(ts).Hours()),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})

	return backups, nil
}

// RotateOldBackups deletes backups older than retentionDays and returns how many were removed.
// The newest three backups are always kept; retentionDays <= 0 keeps everything.
func (s *BackupService) RotateOldBackups(ctx context.Context, retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	backups, err := s.ListBackups(ctx)
	if err != nil {
		return 0, err
	}
	if len(backups) <= minBackupsToKeep {
		return 0, nil
	}

	cutoff := s.now().AddDate(0, 0, -retentionDays)
	deleted := 0
	for _, backup := range backups[minBackupsToKeep:] {
		if !backup.Timestamp.Before(cutoff) {
			continue
		}
		if err := s.store.Delete(ctx, backup.Key); err != nil {
			s.log.Error().Err(err).Str("key", backup.Key).Msg("Failed to delete old backup")
			continue
		}
		deleted++
	}

	s.log.Info().
		Int("deleted", deleted).
		Int("remaining", len(backups)-deleted).
		Msg("Backup rotation completed")

	return deleted, nil
}

func (s *BackupService) keyFor(t time.Time) string {
	return s.prefix + backupKeyPrefix + t.UTC().Format(backupTimeLayout) + backupKeySuffix
}

func (s *BackupService) parseKey(key string) (time.Time, bool) {
	name := strings.TrimPrefix(key, s.prefix)
	if !strings.HasPrefix(name, backupKeyPrefix) || !strings.HasSuffix(name, backupKeySuffix) {
		return time.Time{}, false
	}
	name = strings.TrimSuffix(strings.TrimPrefix(name, backupKeyPrefix), backupKeySuffix)

	ts, err := time.Parse(backupTimeLayout, name)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// calculateChecksum calculates SHA256 checksum of a file
func calculateChecksum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", hash.Sum(nil)), nil
}
