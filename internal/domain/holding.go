// Package domain holds the portfolio types shared by every module.
//
// Holdings are a closed set of variants (Fund, Equity, Crypto, Cash). Engines only see
// holdings that passed ValidateHolding at the config boundary.
package domain

import (
	"math"
	"strings"
)

// AssetClass identifies a holding variant
type AssetClass string

const (
	AssetClassFund   AssetClass = "FUND"
	AssetClassEquity AssetClass = "EQUITY"
	AssetClassCrypto AssetClass = "CRYPTO"
	AssetClassCash   AssetClass = "CASH"
)

// Holding is a user-declared position. Implemented by Fund, Equity, Crypto and Cash.
type Holding interface {
	Code() string
	Class() AssetClass
	Quantity() float64
	TargetWeightPct() float64
	CashReserve() bool

	holding()
}

// Fund is a domestic mutual fund position priced in base currency
type Fund struct {
	FundCode     string
	Shares       float64
	TargetWeight float64 // percent, 0-100
	Reserve      bool    // counted in the cash reserve
}

func (f Fund) Code() string             { return f.FundCode }
func (f Fund) Class() AssetClass        { return AssetClassFund }
func (f Fund) Quantity() float64        { return f.Shares }
func (f Fund) TargetWeightPct() float64 { return f.TargetWeight }
func (f Fund) CashReserve() bool        { return f.Reserve }
func (Fund) holding()                   {}

// Equity is a listed stock or ETF position
type Equity struct {
	Ticker       string
	Shares       float64
	TargetWeight float64
	Reserve      bool
}

func (e Equity) Code() string             { return e.Ticker }
func (e Equity) Class() AssetClass        { return AssetClassEquity }
func (e Equity) Quantity() float64        { return e.Shares }
func (e Equity) TargetWeightPct() float64 { return e.TargetWeight }
func (e Equity) CashReserve() bool        { return e.Reserve }
func (Equity) holding()                   {}

// Crypto is a crypto asset position, usually quoted against USDT
type Crypto struct {
	Symbol       string // e.g. BTC/USDT
	Amount       float64
	TargetWeight float64
	Reserve      bool
}

func (c Crypto) Code() string             { return c.Symbol }
func (c Crypto) Class() AssetClass        { return AssetClassCrypto }
func (c Crypto) Quantity() float64        { return c.Amount }
func (c Crypto) TargetWeightPct() float64 { return c.TargetWeight }
func (c Crypto) CashReserve() bool        { return c.Reserve }
func (Crypto) holding()                   {}

// Cash is a cash or cash-like balance. Cash carries no target weight.
type Cash struct {
	CashCode string
	Amount   float64
	Reserve  bool
}

func (c Cash) Code() string           { return c.CashCode }
func (c Cash) Class() AssetClass      { return AssetClassCash }
func (c Cash) Quantity() float64      { return c.Amount }
func (Cash) TargetWeightPct() float64 { return 0 }
func (c Cash) CashReserve() bool      { return c.Reserve }
func (Cash) holding()                 {}

// ValidateHolding checks the shape of a single holding
func ValidateHolding(h Holding) error {
	if h == nil {
		return &ConfigError{Field: "holding", Reason: "is nil"}
	}

	code := strings.TrimSpace(h.Code())
	if code == "" {
		return &ConfigError{Field: "code", Reason: "is missing for " + string(h.Class()) + " holding"}
	}
	if q := h.Quantity(); q < 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return &ConfigError{Field: "quantity", Code: code, Reason: "must be a non-negative number"}
	}
	if w := h.TargetWeightPct(); w < 0 || w > 100 || math.IsNaN(w) {
		return &ConfigError{Field: "target_weight", Code: code, Reason: "must be between 0 and 100"}
	}
	return nil
}

// DisplayCode shortens trading-pair codes for display, e.g. "BTC/USDT" -> "BTC"
func DisplayCode(code string) string {
	if i := strings.Index(code, "/"); i > 0 {
		return code[:i]
	}
	return code
}
