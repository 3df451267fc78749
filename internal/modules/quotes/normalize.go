// Package quotes turns raw market data into the normalized inputs of a refresh.
package quotes

import (
	"fmt"
	"strings"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/domain"
)

// RawQuote is a quote as delivered by the fetch layer
type RawQuote struct {
	DisplayName  string   `json:"name"`
	CurrentPrice *float64 `json:"current_price"`
	PriorPrice   *float64 `json:"prior_price"`
	Currency     string   `json:"currency,omitempty"`
}

// Table is a quote lookup keyed by instrument code
type Table map[string]domain.PriceQuote

// Lookup returns the quote for code
func (t Table) Lookup(code string) (domain.PriceQuote, bool) {
	q, ok := t[code]
	return q, ok
}

// Normalize builds the quote table for the given holdings.
// A null current price becomes 0 so the holding is carried as invalid; holdings
// without any raw quote are left out of the table.
func Normalize(holdings []domain.Holding, raw map[string]RawQuote) (Table, error) {
	table := make(Table, len(holdings))

	for _, h := range holdings {
		code := h.Code()
		r, ok := raw[code]
		if !ok {
			continue
		}

		q := domain.PriceQuote{
			DisplayName: strings.TrimSpace(r.DisplayName),
			Currency:    domain.DefaultQuoteCurrency(h.Class()),
		}
		if q.DisplayName == "" {
			q.DisplayName = domain.DisplayCode(code)
		}

		if r.Currency != "" {
			cur := domain.QuoteCurrency(strings.ToUpper(strings.TrimSpace(r.Currency)))
			if !cur.Valid() {
				return nil, &domain.ConfigError{Field: "currency", Code: code, Reason: fmt.Sprintf("%q is not supported", r.Currency)}
			}
			q.Currency = cur
		}

		if r.CurrentPrice != nil {
			if *r.CurrentPrice < 0 {
				return nil, &domain.RangeError{Field: "current_price", Code: code, Value: *r.CurrentPrice}
			}
			q.CurrentPrice = *r.CurrentPrice
		}
		if r.PriorPrice != nil {
			if *r.PriorPrice < 0 {
				return nil, &domain.RangeError{Field: "prior_price", Code: code, Value: *r.PriorPrice}
			}
			prior := *r.PriorPrice
			q.PriorPrice = &prior
		}

		table[code] = q
	}

	return table, nil
}
