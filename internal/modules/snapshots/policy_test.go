package snapshots

import (
	"testing"
	"time"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeekday(t *testing.T) {
	wd, err := ParseWeekday("Friday")
	require.NoError(t, err)
	require.NotNil(t, wd)
	assert.Equal(t, time.Friday, *wd)

	wd, err = ParseWeekday("mon")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, *wd)

	wd, err = ParseWeekday("any")
	require.NoError(t, err)
	assert.Nil(t, wd)

	_, err = ParseWeekday("someday")
	assert.Error(t, err)
}

func TestPolicy_Due(t *testing.T) {
	policy, err := NewPolicy("friday")
	require.NoError(t, err)

	prev := &domain.PortfolioSnapshot{Timestamp: friday.AddDate(0, 0, -7), TotalValueBase: 900}

	tests := []struct {
		name   string
		now    time.Time
		total  float64
		latest *domain.PortfolioSnapshot
		want   bool
	}{
		{"first snapshot on friday", friday, 1000, nil, true},
		{"next week friday", friday, 1000, prev, true},
		{"wrong weekday", friday.AddDate(0, 0, -1), 1000, prev, false},
		{"same week", friday, 1000, &domain.PortfolioSnapshot{Timestamp: friday.AddDate(0, 0, -3)}, false},
		{"empty portfolio", friday, 0, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.Due(tt.now, tt.total, tt.latest))
		})
	}
}

func TestPolicy_CheckIgnoresWeekday(t *testing.T) {
	policy, err := NewPolicy("friday")
	require.NoError(t, err)

	tuesday := friday.AddDate(0, 0, 4)
	assert.NoError(t, policy.Check(tuesday, 1000, &domain.PortfolioSnapshot{Timestamp: friday}))

	err = policy.Check(friday.Add(time.Hour), 1000, &domain.PortfolioSnapshot{Timestamp: friday})
	assert.ErrorIs(t, err, domain.ErrSnapshotPeriodTaken)

	err = policy.Check(friday.Add(-time.Hour), 1000, &domain.PortfolioSnapshot{Timestamp: friday})
	assert.ErrorIs(t, err, domain.ErrSnapshotOutOfOrder)
}
