package holdings

import (
	"errors"
	"testing"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_YAML(t *testing.T) {
	p, err := LoadFile("testdata/holdings.yaml")
	require.NoError(t, err)

	require.Len(t, p.Holdings, 5)
	assert.Equal(t, []string{"TTE", "DLY", "AAPL", "BTC/USDT", "USD"}, p.Codes())

	assert.Equal(t, domain.Fund{FundCode: "DLY", Shares: 3000, TargetWeight: 10, Reserve: true}, p.Holdings[1])
	assert.Equal(t, domain.Cash{CashCode: "USD", Amount: 500, Reserve: true}, p.Holdings[4])
	assert.False(t, p.Holdings[2].CashReserve())

	assert.Equal(t, "TRY", p.Settings.BaseCurrency)
	assert.Equal(t, 0.40, p.Settings.RiskFreeRate)
	assert.Equal(t, "SPY", p.Settings.Reference)

	assert.Equal(t, -5.0, p.Thresholds.WeeklyLossPct)
	assert.Equal(t, 0.8, p.Thresholds.HighCorrelation)
	assert.Equal(t, 7.0, p.Thresholds.WeeklyGainPct, "unset thresholds keep their defaults")
}

func TestLoadFile_TOML(t *testing.T) {
	p, err := LoadFile("testdata/holdings.toml")
	require.NoError(t, err)

	require.Len(t, p.Holdings, 2)
	assert.True(t, p.Holdings[0].CashReserve())
	assert.Equal(t, domain.AssetClassEquity, p.Holdings[1].Class())
	assert.Equal(t, "TRY", p.Settings.BaseCurrency)
	assert.Equal(t, 0.35, p.Settings.RiskFreeRate)
	assert.Equal(t, domain.DefaultThresholds(), p.Thresholds)
}

func TestParse_JSON(t *testing.T) {
	p, err := Parse([]byte(`{"crypto":[{"symbol":"ETH/USDT","amount":1.5,"target_weight":5}]}`), FormatJSON)
	require.NoError(t, err)
	require.Len(t, p.Holdings, 1)
	assert.Equal(t, 1.5, p.Holdings[0].Quantity())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{"missing shares", "equities:\n  - ticker: AAPL\n", "shares"},
		{"missing code", "funds:\n  - shares: 10\n", "code"},
		{"negative amount", "cash:\n  - code: USD\n    amount: -5\n", "quantity"},
		{"duplicate code", "funds:\n  - code: X\n    shares: 1\nequities:\n  - ticker: X\n    shares: 1\n", "code"},
		{"unknown reserve code", "cash_reserve: [NOPE]\ncash:\n  - code: USD\n    amount: 1\n", "cash_reserve"},
		{"bad correlation threshold", "thresholds:\n  high_correlation_threshold: 1.5\n", "high_correlation_threshold"},
		{"bad risk free rate", "settings:\n  risk_free_rate: 50\n", "risk_free_rate"},
		{"unknown field", "stocks:\n  - ticker: AAPL\n", "document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), FormatYAML)
			require.Error(t, err)

			var cfgErr *domain.ConfigError
			require.True(t, errors.As(err, &cfgErr), "expected ConfigError, got %v", err)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("config/holdings.YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = FormatFromPath("holdings.ini")
	assert.Error(t, err)
}
