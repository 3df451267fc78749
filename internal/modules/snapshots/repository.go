// Package snapshots persists weekly portfolio valuation snapshots and decides when one is due.
package snapshots

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/database"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/domain"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// DefaultHistoryLimit is the number of snapshots handed to the risk engine (one year of weeks)
const DefaultHistoryLimit = 52

// Store is the append-only snapshot persistence contract
type Store interface {
	Append(ctx context.Context, snapshot domain.PortfolioSnapshot) (domain.PortfolioSnapshot, error)
	ListRecent(ctx context.Context, limit int) ([]domain.PortfolioSnapshot, error)
	Latest(ctx context.Context) (*domain.PortfolioSnapshot, error)
}

// Repository stores snapshots in the portfolio database.
// There is no update or delete: history is append-only.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new snapshot repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "snapshots").Logger(),
	}
}

// Append stores a snapshot. The timestamp is truncated to whole seconds in UTC.
//
// It returns ErrSnapshotOutOfOrder when the timestamp is not after the latest stored
// snapshot and ErrSnapshotPeriodTaken when the ISO week already has one.
func (r *Repository) Append(ctx context.Context, snapshot domain.PortfolioSnapshot) (domain.PortfolioSnapshot, error) {
	if !(snapshot.TotalValueBase > 0) {
		return domain.PortfolioSnapshot{}, &domain.RangeError{Field: "total_value_base", Code: "snapshot", Value: snapshot.TotalValueBase}
	}

	snapshot.Timestamp = snapshot.Timestamp.UTC().Truncate(time.Second)
	if snapshot.ID == "" {
		snapshot.ID = uuid.New().String()
	}
	year, week := snapshot.Period()

	breakdown, err := msgpack.Marshal(snapshot.Breakdown)
	if err != nil {
		return domain.PortfolioSnapshot{}, fmt.Errorf("failed to encode snapshot breakdown: %w", err)
	}

	err = database.WithTransaction(r.db, func(tx *sql.Tx) error {
		var latest sql.NullInt64
		if err := tx.QueryRowContext(ctx, "SELECT MAX(taken_at) FROM portfolio_snapshots").Scan(&latest); err != nil {
			return fmt.Errorf("failed to read latest snapshot: %w", err)
		}
		if latest.Valid && snapshot.Timestamp.Unix() <= latest.Int64 {
			return domain.ErrSnapshotOutOfOrder
		}

		var taken int
		err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM portfolio_snapshots WHERE iso_year = ? AND iso_week = ?",
			year, week,
		).Scan(&taken)
		if err != nil {
			return fmt.Errorf("failed to check snapshot period: %w", err)
		}
		if taken > 0 {
			return domain.ErrSnapshotPeriodTaken
		}

		_, err = tx.ExecContext(ctx, `INSERT INTO portfolio_snapshots
			(id, taken_at, iso_year, iso_week, total_value_base, breakdown, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			snapshot.ID,
			snapshot.Timestamp.Unix(),
			year,
			week,
			snapshot.TotalValueBase,
			breakdown,
			time.Now().Unix(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.PortfolioSnapshot{}, err
	}

	r.log.Info().
		Str("id", snapshot.ID).
		Int("iso_year", year).
		Int("iso_week", week).
		Float64("total_value_base", snapshot.TotalValueBase).
		Msg("Snapshot stored")

	return snapshot, nil
}

// ListRecent returns the latest limit snapshots in ascending time order.
// A non-positive limit returns the whole history.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]domain.PortfolioSnapshot, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id, taken_at, total_value_base, breakdown FROM (
			SELECT id, taken_at, total_value_base, breakdown
			FROM portfolio_snapshots
			ORDER BY taken_at DESC
			LIMIT ?
		) ORDER BY taken_at ASC`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make([]domain.PortfolioSnapshot, 0)
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return snapshots, nil
}

// Latest returns the most recent snapshot, or nil when none exists
func (r *Repository) Latest(ctx context.Context) (*domain.PortfolioSnapshot, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, taken_at, total_value_base, breakdown
		FROM portfolio_snapshots ORDER BY taken_at DESC LIMIT 1`)

	s, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Count returns the number of stored snapshots
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM portfolio_snapshots").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count snapshots: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSnapshot(row scanner) (domain.PortfolioSnapshot, error) {
	var (
		s         domain.PortfolioSnapshot
		takenAt   int64
		breakdown []byte
	)
	if err := row.Scan(&s.ID, &takenAt, &s.TotalValueBase, &breakdown); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s, err
		}
		return s, fmt.Errorf("failed to scan snapshot: %w", err)
	}

	s.Timestamp = time.Unix(takenAt, 0).UTC()
	if len(breakdown) > 0 {
		if err := msgpack.Unmarshal(breakdown, &s.Breakdown); err != nil {
			return s, fmt.Errorf("failed to decode breakdown of snapshot %s: %w", s.ID, err)
		}
	}
	return s, nil
}
