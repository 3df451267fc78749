package holdings

// document mirrors the on-disk holdings file. Pointers distinguish "missing" from zero.
type document struct {
	Settings    settingsDoc   `json:"settings" yaml:"settings" toml:"settings"`
	Thresholds  thresholdsDoc `json:"thresholds" yaml:"thresholds" toml:"thresholds"`
	CashReserve []string      `json:"cash_reserve" yaml:"cash_reserve" toml:"cash_reserve"`
	Funds       []fundDoc     `json:"funds" yaml:"funds" toml:"funds"`
	Equities    []equityDoc   `json:"equities" yaml:"equities" toml:"equities"`
	Crypto      []cryptoDoc   `json:"crypto" yaml:"crypto" toml:"crypto"`
	Cash        []cashDoc     `json:"cash" yaml:"cash" toml:"cash"`
}

type settingsDoc struct {
	BaseCurrency string   `json:"base_currency" yaml:"base_currency" toml:"base_currency"`
	RiskFreeRate *float64 `json:"risk_free_rate" yaml:"risk_free_rate" toml:"risk_free_rate"`
	Reference    string   `json:"reference" yaml:"reference" toml:"reference"`
}

type thresholdsDoc struct {
	WeeklyLoss        *float64 `json:"weekly_loss_threshold" yaml:"weekly_loss_threshold" toml:"weekly_loss_threshold"`
	WeeklyGain        *float64 `json:"weekly_gain_threshold" yaml:"weekly_gain_threshold" toml:"weekly_gain_threshold"`
	WeightDeviation   *float64 `json:"weight_deviation_threshold" yaml:"weight_deviation_threshold" toml:"weight_deviation_threshold"`
	HighVolatility    *float64 `json:"high_volatility_threshold" yaml:"high_volatility_threshold" toml:"high_volatility_threshold"`
	HighCorrelation   *float64 `json:"high_correlation_threshold" yaml:"high_correlation_threshold" toml:"high_correlation_threshold"`
	MaxPositionWeight *float64 `json:"max_position_weight" yaml:"max_position_weight" toml:"max_position_weight"`
}

type fundDoc struct {
	Code         string   `json:"code" yaml:"code" toml:"code"`
	Shares       *float64 `json:"shares" yaml:"shares" toml:"shares"`
	TargetWeight float64  `json:"target_weight" yaml:"target_weight" toml:"target_weight"`
}

type equityDoc struct {
	Ticker       string   `json:"ticker" yaml:"ticker" toml:"ticker"`
	Shares       *float64 `json:"shares" yaml:"shares" toml:"shares"`
	TargetWeight float64  `json:"target_weight" yaml:"target_weight" toml:"target_weight"`
}

type cryptoDoc struct {
	Symbol       string   `json:"symbol" yaml:"symbol" toml:"symbol"`
	Amount       *float64 `json:"amount" yaml:"amount" toml:"amount"`
	TargetWeight float64  `json:"target_weight" yaml:"target_weight" toml:"target_weight"`
}

type cashDoc struct {
	Code   string   `json:"code" yaml:"code" toml:"code"`
	Amount *float64 `json:"amount" yaml:"amount" toml:"amount"`
}
