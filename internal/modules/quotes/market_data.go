package quotes

import (
	"fmt"
	"sort"
	"time"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/domain"
)

const (
	// HistoryWindowDays is the trailing calendar window handed to the risk engine
	HistoryWindowDays = 30

	dateLayout = "2006-01-02"
)

// RawClose is one daily close in the market data document
type RawClose struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Close float64 `json:"close"`
}

// MarketData is everything the fetch layer resolved for one refresh
type MarketData struct {
	FetchedAt  time.Time             `json:"fetched_at"`
	FXRate     *float64              `json:"fx_rate"`
	Quotes     map[string]RawQuote   `json:"quotes"`
	History    map[string][]RawClose `json:"history"`
	Reference  []RawClose            `json:"reference"`
	Benchmarks map[string][]RawClose `json:"benchmarks"`
}

// Resolved holds normalized refresh inputs
type Resolved struct {
	Quotes     Table
	FXRate     float64
	History    map[string][]domain.DailyClose
	Reference  []domain.DailyClose
	Benchmarks map[string][]domain.DailyClose
	Notes      []string
}

// Resolve normalizes market data for the holdings. A missing or non-positive FX rate
// is replaced by fallbackFX and noted.
func Resolve(md *MarketData, holdings []domain.Holding, fallbackFX float64) (*Resolved, error) {
	if md == nil {
		md = &MarketData{}
	}

	table, err := Normalize(holdings, md.Quotes)
	if err != nil {
		return nil, err
	}

	out := &Resolved{
		Quotes:     table,
		History:    make(map[string][]domain.DailyClose, len(holdings)),
		Benchmarks: make(map[string][]domain.DailyClose, len(md.Benchmarks)),
	}

	if md.FXRate != nil && *md.FXRate > 0 {
		out.FXRate = *md.FXRate
	} else {
		out.FXRate = fallbackFX
		out.Notes = append(out.Notes, fmt.Sprintf("FX rate unavailable, using fallback %.2f", fallbackFX))
	}

	for _, h := range holdings {
		raw, ok := md.History[h.Code()]
		if !ok {
			continue
		}
		series, err := ParseSeries(h.Code(), raw)
		if err != nil {
			return nil, err
		}
		out.History[h.Code()] = TrailingWindow(series, HistoryWindowDays)
	}

	if out.Reference, err = ParseSeries("reference", md.Reference); err != nil {
		return nil, err
	}

	for code, raw := range md.Benchmarks {
		series, err := ParseSeries(code, raw)
		if err != nil {
			return nil, err
		}
		out.Benchmarks[code] = series
	}

	return out, nil
}

// ParseSeries parses and sorts a raw close series. Duplicate dates keep the last close.
func ParseSeries(code string, raw []RawClose) ([]domain.DailyClose, error) {
	byDate := make(map[time.Time]float64, len(raw))
	for _, r := range raw {
		d, err := time.Parse(dateLayout, r.Date)
		if err != nil {
			return nil, &domain.ConfigError{Field: "history.date", Code: code, Reason: fmt.Sprintf("%q is not YYYY-MM-DD", r.Date)}
		}
		byDate[d] = r.Close
	}

	series := make([]domain.DailyClose, 0, len(byDate))
	for d, c := range byDate {
		series = append(series, domain.DailyClose{Date: d, Close: c})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	return series, nil
}

// TrailingWindow keeps the closes within days calendar days of the latest close
func TrailingWindow(series []domain.DailyClose, days int) []domain.DailyClose {
	if len(series) == 0 {
		return series
	}

	cutoff := series[len(series)-1].Date.AddDate(0, 0, -days)
	start := sort.Search(len(series), func(i int) bool { return !series[i].Date.Before(cutoff) })
	return series[start:]
}
