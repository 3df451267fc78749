package refresh

import (
	"context"
	"errors"
	"sync"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/domain"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/holdings"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/quotes"
)

// memoryStore is an in-memory snapshots.Store with the repository's ordering rules
type memoryStore struct {
	mu        sync.Mutex
	snapshots []domain.PortfolioSnapshot
	err       error
}

func (m *memoryStore) Append(_ context.Context, s domain.PortfolioSnapshot) (domain.PortfolioSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return domain.PortfolioSnapshot{}, m.err
	}
	if n := len(m.snapshots); n > 0 {
		last := m.snapshots[n-1]
		if !s.Timestamp.After(last.Timestamp) {
			return domain.PortfolioSnapshot{}, domain.ErrSnapshotOutOfOrder
		}
		if domain.SamePeriod(s.Timestamp, last.Timestamp) {
			return domain.PortfolioSnapshot{}, domain.ErrSnapshotPeriodTaken
		}
	}
	if s.ID == "" {
		s.ID = "snap-" + s.Timestamp.Format("20060102")
	}
	m.snapshots = append(m.snapshots, s)
	return s, nil
}

func (m *memoryStore) ListRecent(_ context.Context, limit int) ([]domain.PortfolioSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	start := 0
	if limit > 0 && len(m.snapshots) > limit {
		start = len(m.snapshots) - limit
	}
	out := make([]domain.PortfolioSnapshot, len(m.snapshots[start:]))
	copy(out, m.snapshots[start:])
	return out, nil
}

func (m *memoryStore) Latest(_ context.Context) (*domain.PortfolioSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	if len(m.snapshots) == 0 {
		return nil, nil
	}
	last := m.snapshots[len(m.snapshots)-1]
	return &last, nil
}

type staticLoader struct {
	portfolio *holdings.Portfolio
	err       error
}

func (l staticLoader) Load() (*holdings.Portfolio, error) {
	return l.portfolio, l.err
}

// blockingSource waits for release before returning its data
type blockingSource struct {
	data    *quotes.MarketData
	started chan struct{}
	release chan struct{}
}

func (s *blockingSource) Name() string { return "blocking" }

func (s *blockingSource) Fetch(ctx context.Context) (*quotes.MarketData, error) {
	close(s.started)
	select {
	case <-s.release:
		return s.data, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type failingSource struct{}

func (failingSource) Name() string { return "failing" }

func (failingSource) Fetch(context.Context) (*quotes.MarketData, error) {
	return nil, errors.New("provider unavailable")
}
