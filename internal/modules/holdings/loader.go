// Package holdings loads the user's holdings file and validates it into domain holdings.
package holdings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/domain"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a holdings file encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

const (
	defaultBaseCurrency = "TRY"
	defaultRiskFreeRate = 0.35
	defaultReference    = "SPY"
)

// Settings are the global portfolio settings
type Settings struct {
	BaseCurrency string  `json:"base_currency"`
	RiskFreeRate float64 `json:"risk_free_rate"` // annual, as a fraction
	Reference    string  `json:"reference"`      // benchmark code used for beta
}

// Portfolio is a validated holdings configuration
type Portfolio struct {
	Holdings   []domain.Holding
	Settings   Settings
	Thresholds domain.Thresholds
}

// Codes returns the instrument codes in declaration order
func (p *Portfolio) Codes() []string {
	codes := make([]string, 0, len(p.Holdings))
	for _, h := range p.Holdings {
		codes = append(codes, h.Code())
	}
	return codes
}

// FormatFromPath picks the decoder from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported holdings file extension %q", filepath.Ext(path))
	}
}

// LoadFile reads and validates a holdings file
func LoadFile(path string) (*Portfolio, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read holdings file: %w", err)
	}

	return Parse(data, format)
}

// FileLoader reloads the holdings file on every call, so edits apply to the next refresh
type FileLoader struct {
	Path string
}

// Load reads and validates the holdings file
func (l FileLoader) Load() (*Portfolio, error) {
	return LoadFile(l.Path)
}

// Parse decodes and validates a holdings document
func Parse(data []byte, format Format) (*Portfolio, error) {
	var doc document
	if err := decode(data, format, &doc); err != nil {
		return nil, &domain.ConfigError{Field: "document", Reason: err.Error()}
	}
	return build(doc)
}

func decode(data []byte, format Format, doc *document) error {
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		return dec.Decode(doc)
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(doc)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(doc)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func build(doc document) (*Portfolio, error) {
	reserve := make(map[string]bool, len(doc.CashReserve))
	for _, code := range doc.CashReserve {
		reserve[strings.TrimSpace(code)] = true
	}

	p := &Portfolio{}

	for _, f := range doc.Funds {
		if f.Shares == nil {
			return nil, missingQuantity(f.Code, "shares")
		}
		p.Holdings = append(p.Holdings, domain.Fund{
			FundCode: strings.TrimSpace(f.Code), Shares: *f.Shares, TargetWeight: f.TargetWeight,
			Reserve: reserve[strings.TrimSpace(f.Code)],
		})
	}
	for _, e := range doc.Equities {
		if e.Shares == nil {
			return nil, missingQuantity(e.Ticker, "shares")
		}
		p.Holdings = append(p.Holdings, domain.Equity{
			Ticker: strings.TrimSpace(e.Ticker), Shares: *e.Shares, TargetWeight: e.TargetWeight,
			Reserve: reserve[strings.TrimSpace(e.Ticker)],
		})
	}
	for _, c := range doc.Crypto {
		if c.Amount == nil {
			return nil, missingQuantity(c.Symbol, "amount")
		}
		p.Holdings = append(p.Holdings, domain.Crypto{
			Symbol: strings.TrimSpace(c.Symbol), Amount: *c.Amount, TargetWeight: c.TargetWeight,
			Reserve: reserve[strings.TrimSpace(c.Symbol)],
		})
	}
	for _, c := range doc.Cash {
		if c.Amount == nil {
			return nil, missingQuantity(c.Code, "amount")
		}
		p.Holdings = append(p.Holdings, domain.Cash{
			CashCode: strings.TrimSpace(c.Code), Amount: *c.Amount,
			Reserve: reserve[strings.TrimSpace(c.Code)],
		})
	}

	if err := validateHoldings(p.Holdings, reserve); err != nil {
		return nil, err
	}

	settings, err := buildSettings(doc.Settings)
	if err != nil {
		return nil, err
	}
	p.Settings = settings

	thresholds, err := buildThresholds(doc.Thresholds)
	if err != nil {
		return nil, err
	}
	p.Thresholds = thresholds

	return p, nil
}

func validateHoldings(holdings []domain.Holding, reserve map[string]bool) error {
	seen := make(map[string]domain.AssetClass, len(holdings))
	for _, h := range holdings {
		if err := domain.ValidateHolding(h); err != nil {
			return err
		}
		if class, dup := seen[h.Code()]; dup {
			return &domain.ConfigError{
				Field:  "code",
				Code:   h.Code(),
				Reason: fmt.Sprintf("is declared twice (%s and %s)", class, h.Class()),
			}
		}
		seen[h.Code()] = h.Class()
	}

	for code := range reserve {
		if _, ok := seen[code]; !ok {
			return &domain.ConfigError{Field: "cash_reserve", Code: code, Reason: "does not match any holding"}
		}
	}
	return nil
}

func buildSettings(doc settingsDoc) (Settings, error) {
	s := Settings{
		BaseCurrency: strings.ToUpper(strings.TrimSpace(doc.BaseCurrency)),
		RiskFreeRate: defaultRiskFreeRate,
		Reference:    strings.TrimSpace(doc.Reference),
	}
	if s.BaseCurrency == "" {
		s.BaseCurrency = defaultBaseCurrency
	}
	if s.Reference == "" {
		s.Reference = defaultReference
	}
	if doc.RiskFreeRate != nil {
		s.RiskFreeRate = *doc.RiskFreeRate
	}
	if math.IsNaN(s.RiskFreeRate) || s.RiskFreeRate < -1 || s.RiskFreeRate > 10 {
		return Settings{}, &domain.ConfigError{Field: "risk_free_rate", Reason: "must be an annual fraction between -1 and 10"}
	}
	return s, nil
}

func buildThresholds(doc thresholdsDoc) (domain.Thresholds, error) {
	t := domain.DefaultThresholds()
	override(&t.WeeklyLossPct, doc.WeeklyLoss)
	override(&t.WeeklyGainPct, doc.WeeklyGain)
	override(&t.WeightDeviationPct, doc.WeightDeviation)
	override(&t.HighVolatilityPct, doc.HighVolatility)
	override(&t.HighCorrelation, doc.HighCorrelation)
	override(&t.MaxPositionWeightPct, doc.MaxPositionWeight)

	switch {
	case !(t.WeightDeviationPct > 0):
		return t, &domain.ConfigError{Field: "weight_deviation_threshold", Reason: "must be positive"}
	case !(t.HighVolatilityPct > 0):
		return t, &domain.ConfigError{Field: "high_volatility_threshold", Reason: "must be positive"}
	case !(t.HighCorrelation > 0 && t.HighCorrelation <= 1):
		return t, &domain.ConfigError{Field: "high_correlation_threshold", Reason: "must be in (0, 1]"}
	case !(t.MaxPositionWeightPct > 0 && t.MaxPositionWeightPct <= 100):
		return t, &domain.ConfigError{Field: "max_position_weight", Reason: "must be in (0, 100]"}
	case math.IsNaN(t.WeeklyLossPct) || math.IsNaN(t.WeeklyGainPct):
		return t, &domain.ConfigError{Field: "weekly thresholds", Reason: "must be numbers"}
	}
	return t, nil
}

func override(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func missingQuantity(code, field string) error {
	return &domain.ConfigError{Field: field, Code: strings.TrimSpace(code), Reason: "is missing"}
}
