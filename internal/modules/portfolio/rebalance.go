package portfolio

import (
	"math"
	"sort"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/domain"
)

// Side is a trade direction
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Suggestion is a trade that would bring a holding back to its target weight
type Suggestion struct {
	Code             string  `json:"code"`
	DisplayName      string  `json:"display_name"`
	CurrentWeightPct float64 `json:"current_weight_pct"`
	TargetWeightPct  float64 `json:"target_weight_pct"`
	DeviationPct     float64 `json:"deviation_pct"`
	Side             Side    `json:"side"`
	Units            float64 `json:"units"`
	ValueBase        float64 `json:"value_base"`
}

// Rebalance suggests trades for valid holdings with a target weight whose deviation
// reaches thresholdPct, largest absolute deviation first. Holdings without a target,
// cash included, are never traded.
func Rebalance(holdings []domain.ValuedHolding, totalValueBase, thresholdPct float64) []Suggestion {
	suggestions := []Suggestion{}
	if !(totalValueBase > 0) {
		return suggestions
	}

	for _, h := range holdings {
		if !h.Valid() || h.TargetWeightPct <= 0 || math.Abs(h.WeightDeviationPct) < thresholdPct {
			continue
		}

		diff := totalValueBase*h.TargetWeightPct/100 - h.ValueInBase
		unit := h.UnitPriceBase()

		s := Suggestion{
			Code:             h.Code,
			DisplayName:      h.DisplayName,
			CurrentWeightPct: h.WeightPct,
			TargetWeightPct:  h.TargetWeightPct,
			DeviationPct:     h.WeightDeviationPct,
			Side:             SideSell,
			ValueBase:        math.Abs(diff),
		}
		if diff > 0 {
			s.Side = SideBuy
		}
		if unit > 0 {
			s.Units = math.Abs(diff) / unit
		}
		suggestions = append(suggestions, s)
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return math.Abs(suggestions[i].DeviationPct) > math.Abs(suggestions[j].DeviationPct)
	})
	return suggestions
}
