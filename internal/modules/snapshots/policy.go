package snapshots

import (
	"fmt"
	"strings"
	"time"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/domain"
)

// Policy decides whether a refresh should record a snapshot.
// At most one snapshot exists per ISO week (UTC). Scheduled refreshes additionally
// only snapshot on Weekday; a nil Weekday accepts any day.
type Policy struct {
	Weekday *time.Weekday
}

// NewPolicy builds a policy from a weekday name ("friday") or "any"
func NewPolicy(weekday string) (Policy, error) {
	wd, err := ParseWeekday(weekday)
	if err != nil {
		return Policy{}, err
	}
	return Policy{Weekday: wd}, nil
}

// ParseWeekday parses an English weekday name. "any" and "" return nil.
func ParseWeekday(s string) (*time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "any" {
		return nil, nil
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return &d, nil
		}
	}
	return nil, fmt.Errorf("unknown weekday %q", s)
}

// Check reports why no snapshot may be taken at now, or nil when one may.
// It enforces the value and one-per-period rules but not the weekday rule.
func (p Policy) Check(now time.Time, totalValueBase float64, latest *domain.PortfolioSnapshot) error {
	if !(totalValueBase > 0) {
		return &domain.RangeError{Field: "total_value_base", Code: "snapshot", Value: totalValueBase}
	}
	if latest == nil {
		return nil
	}
	if !now.After(latest.Timestamp) {
		return domain.ErrSnapshotOutOfOrder
	}
	if domain.SamePeriod(now, latest.Timestamp) {
		return domain.ErrSnapshotPeriodTaken
	}
	return nil
}

// Due reports whether a scheduled refresh at now should record a snapshot
func (p Policy) Due(now time.Time, totalValueBase float64, latest *domain.PortfolioSnapshot) bool {
	if p.Weekday != nil && now.UTC().Weekday() != *p.Weekday {
		return false
	}
	return p.Check(now, totalValueBase, latest) == nil
}
