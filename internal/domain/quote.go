package domain

import "time"

// QuoteCurrency is the currency a price quote is denominated in
type QuoteCurrency string

const (
	CurrencyBase QuoteCurrency = "BASE"
	CurrencyUSD  QuoteCurrency = "USD"
	CurrencyUSDT QuoteCurrency = "USDT"
)

// Valid reports whether c is one of the supported quote currencies
func (c QuoteCurrency) Valid() bool {
	switch c {
	case CurrencyBase, CurrencyUSD, CurrencyUSDT:
		return true
	}
	return false
}

// DefaultQuoteCurrency returns the currency a class is quoted in when the source omits it
func DefaultQuoteCurrency(class AssetClass) QuoteCurrency {
	switch class {
	case AssetClassEquity:
		return CurrencyUSD
	case AssetClassCrypto:
		return CurrencyUSDT
	default:
		return CurrencyBase
	}
}

// PriceQuote is the normalized price of one instrument for one refresh
type PriceQuote struct {
	DisplayName  string        `json:"display_name"`
	CurrentPrice float64       `json:"current_price"`         // 0 when the source had no price
	PriorPrice   *float64      `json:"prior_price,omitempty"` // ~7 trading days earlier
	Currency     QuoteCurrency `json:"currency"`
}

// DailyClose is one point of a historical price series
type DailyClose struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}
