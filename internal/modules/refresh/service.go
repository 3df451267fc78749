package refresh

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/domain"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/events"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/holdings"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/quotes"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/snapshots"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/utils"
	"github.com/rs/zerolog"
)

const moduleName = "refresh"

// PortfolioLoader supplies the holdings configuration for each refresh
type PortfolioLoader interface {
	Load() (*holdings.Portfolio, error)
}

// Config holds the refresh service settings
type Config struct {
	FallbackFXRate float64
	HistoryLimit   int           // snapshots handed to the risk engine
	FetchTimeout   time.Duration // bound on Source.Fetch
}

// Status is the observable state of the refresh lifecycle
type Status struct {
	State           State      `json:"state"`
	RunID           string     `json:"run_id,omitempty"`
	UpdatedAt       time.Time  `json:"updated_at"`
	LastError       string     `json:"last_error,omitempty"`
	ConfigError     bool       `json:"config_error"`
	LastCompletedAt *time.Time `json:"last_completed_at,omitempty"`
}

// Service owns the refresh state machine and the latest successful result.
// One refresh runs at a time; a concurrent trigger gets ErrRefreshInProgress.
type Service struct {
	cfg      Config
	loader   PortfolioLoader
	source   quotes.Source
	store    snapshots.Store
	policy   snapshots.Policy
	pipeline *Pipeline
	bus      *events.Bus
	now      func() time.Time
	log      zerolog.Logger

	mu      sync.RWMutex
	running bool
	machine machine
	status  Status
	latest  *Result
}

// NewService creates a refresh service. source is the default market data source.
func NewService(
	cfg Config,
	loader PortfolioLoader,
	source quotes.Source,
	store snapshots.Store,
	policy snapshots.Policy,
	pipeline *Pipeline,
	bus *events.Bus,
	log zerolog.Logger,
) *Service {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = snapshots.DefaultHistoryLimit
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	return &Service{
		cfg:      cfg,
		loader:   loader,
		source:   source,
		store:    store,
		policy:   policy,
		pipeline: pipeline,
		bus:      bus,
		now:      time.Now,
		machine:  machine{state: StateIdle},
		status:   Status{State: StateIdle, UpdatedAt: time.Now()},
		log:      log.With().Str("service", "refresh").Logger(),
	}
}

// SetClock replaces the clock used for snapshot timestamps
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Refresh runs one full refresh. A nil source uses the default one.
//
// On success the result becomes the latest and, when the snapshot policy says one is
// due, a snapshot is stored. On failure the previous result is kept and the error is
// returned; ConfigError and RangeError are distinguishable with domain.IsFatal.
func (s *Service) Refresh(ctx context.Context, source quotes.Source) (*Result, error) {
	if source == nil {
		source = s.source
	}

	runID, err := s.begin()
	if err != nil {
		return nil, err
	}
	defer s.end()

	stopTimer := utils.OperationTimer("refresh", s.log)
	s.emit(&events.RefreshStartedData{RunID: runID, Source: source.Name()})

	result, stage, err := s.run(ctx, runID, source)
	if err != nil {
		s.fail(runID, stage, err)
		return nil, fmt.Errorf("refresh failed during %s: %w", stage, err)
	}

	result.RunID = runID
	result.ComputedAt = s.now()
	result.Snapshot = s.maybeSnapshot(ctx, result)

	duration := stopTimer()

	s.mu.Lock()
	_ = s.moveLocked(runID, StateReady)
	s.latest = result
	completed := result.ComputedAt
	s.status.LastCompletedAt = &completed
	s.status.LastError = ""
	s.status.ConfigError = false
	s.mu.Unlock()

	s.emit(&events.RefreshCompletedData{
		RunID:           runID,
		TotalValueBase:  result.Metrics.TotalValueBase,
		WeeklyReturnPct: result.Metrics.WeeklyReturnPct,
		Warnings:        result.Metrics.Warnings,
		DurationMs:      duration.Milliseconds(),
		SnapshotTaken:   result.Snapshot != nil,
	})

	s.log.Info().
		Str("run_id", runID).
		Str("source", source.Name()).
		Float64("total_value_base", result.Metrics.TotalValueBase).
		Int("warnings", len(result.Metrics.Warnings)).
		Dur("duration", duration).
		Msg("Refresh completed")

	return result, nil
}

func (s *Service) run(ctx context.Context, runID string, source quotes.Source) (*Result, State, error) {
	s.move(runID, StateFetching)

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	md, err := source.Fetch(fetchCtx)
	if err != nil {
		return nil, StateFetching, fmt.Errorf("failed to fetch market data: %w", err)
	}

	pf, err := s.loader.Load()
	if err != nil {
		return nil, StateFetching, fmt.Errorf("failed to load holdings: %w", err)
	}

	resolved, err := quotes.Resolve(md, pf.Holdings, s.cfg.FallbackFXRate)
	if err != nil {
		return nil, StateFetching, fmt.Errorf("failed to resolve market data: %w", err)
	}

	history, err := s.store.ListRecent(ctx, s.cfg.HistoryLimit)
	if err != nil {
		return nil, StateFetching, fmt.Errorf("failed to load snapshots: %w", err)
	}

	result, err := s.pipeline.Compute(Inputs{
		Portfolio: pf,
		Market:    resolved,
		Snapshots: history,
	}, func(st State) { s.move(runID, st) })
	if err != nil {
		var stageErr *StageError
		if errors.As(err, &stageErr) {
			return nil, stageErr.Stage, stageErr.Err
		}
		return nil, s.State(), err
	}
	return result, "", nil
}

// maybeSnapshot stores a snapshot when the policy says one is due. Persistence
// failures are logged and noted; they do not fail the refresh.
func (s *Service) maybeSnapshot(ctx context.Context, result *Result) *domain.PortfolioSnapshot {
	now := s.now()

	latest, err := s.store.Latest(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to read latest snapshot")
		result.Metrics.Notes = append(result.Metrics.Notes, "Snapshot skipped: snapshot history unavailable")
		return nil
	}
	if !s.policy.Due(now, result.Metrics.TotalValueBase, latest) {
		return nil
	}

	snap, err := s.store.Append(ctx, domain.PortfolioSnapshot{
		Timestamp:      now,
		TotalValueBase: result.Metrics.TotalValueBase,
		Breakdown:      domain.BreakdownFrom(result.Holdings),
	})
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to store snapshot")
		result.Metrics.Notes = append(result.Metrics.Notes, "Snapshot skipped: "+err.Error())
		return nil
	}

	s.emitSnapshot(snap)
	return &snap
}

// TakeSnapshot stores a snapshot of the latest result outside the weekday schedule.
// The one-per-ISO-week rule still applies, and the result must have been computed
// in the current period.
func (s *Service) TakeSnapshot(ctx context.Context) (*domain.PortfolioSnapshot, error) {
	result, err := s.Latest()
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !domain.SamePeriod(result.ComputedAt, now) {
		return nil, domain.ErrStaleResult
	}

	latest, err := s.store.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read latest snapshot: %w", err)
	}

	if err := s.policy.Check(now, result.Metrics.TotalValueBase, latest); err != nil {
		return nil, err
	}

	snap, err := s.store.Append(ctx, domain.PortfolioSnapshot{
		Timestamp:      now,
		TotalValueBase: result.Metrics.TotalValueBase,
		Breakdown:      domain.BreakdownFrom(result.Holdings),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store snapshot: %w", err)
	}

	s.emitSnapshot(snap)
	return &snap, nil
}

// Latest returns the result of the last successful refresh
func (s *Service) Latest() (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == nil {
		return nil, domain.ErrNoResult
	}
	return s.latest, nil
}

// Status returns the current lifecycle status
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// State returns the current lifecycle state
func (s *Service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.machine.state
}

func (s *Service) begin() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return "", domain.ErrRefreshInProgress
	}
	s.running = true

	runID := uuid.New().String()
	if s.machine.state.Terminal() {
		_ = s.moveLocked(runID, StateIdle)
	}
	s.status.RunID = runID
	return runID, nil
}

func (s *Service) end() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

func (s *Service) fail(runID string, stage State, err error) {
	s.mu.Lock()
	_ = s.moveLocked(runID, StateFailed)
	s.status.LastError = err.Error()
	s.status.ConfigError = domain.IsFatal(err)
	s.mu.Unlock()

	s.emit(&events.RefreshFailedData{
		RunID:       runID,
		Stage:       string(stage),
		Error:       err.Error(),
		ConfigError: domain.IsFatal(err),
	})

	s.log.Error().
		Err(err).
		Str("run_id", runID).
		Str("stage", string(stage)).
		Bool("config_error", domain.IsFatal(err)).
		Msg("Refresh failed")
}

func (s *Service) move(runID string, to State) {
	s.mu.Lock()
	err := s.moveLocked(runID, to)
	s.mu.Unlock()
	if err != nil {
		s.log.Warn().Err(err).Str("run_id", runID).Msg("Ignoring refresh transition")
	}
}

// moveLocked transitions the machine and emits StateChanged. s.mu must be held.
func (s *Service) moveLocked(runID string, to State) error {
	from := s.machine.state
	if err := s.machine.move(to); err != nil {
		return err
	}
	s.status.State = to
	s.status.UpdatedAt = time.Now()

	// Bus handlers must not call back into the service
	s.emit(&events.StateChangedData{RunID: runID, From: string(from), To: string(to)})
	return nil
}

func (s *Service) emitSnapshot(snap domain.PortfolioSnapshot) {
	year, week := snap.Period()
	s.emit(&events.SnapshotCreatedData{
		ID:             snap.ID,
		TotalValueBase: snap.TotalValueBase,
		ISOYear:        year,
		ISOWeek:        week,
	})
}

func (s *Service) emit(data events.EventData) {
	if s.bus != nil {
		s.bus.Emit(moduleName, data)
	}
}
