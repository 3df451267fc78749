package portfolio

import (
	"fmt"
	"math"
	"strings"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/domain"
)

// Action is a suggested action for one holding
type Action string

const (
	ActionNoData          Action = "NO_DATA"
	ActionConsiderSelling Action = "CONSIDER_SELLING"
	ActionTakeProfit      Action = "TAKE_PROFIT"
	ActionReduce          Action = "REDUCE"
	ActionIncrease        Action = "INCREASE"
	ActionHold            Action = "HOLD"
)

// Recommendation lists the actions suggested for a holding
type Recommendation struct {
	Code            string   `json:"code"`
	Actions         []Action `json:"actions"`
	WeeklyReturnPct float64  `json:"weekly_return_pct"`
	TargetWeightPct float64  `json:"target_weight_pct"`
}

// String renders the recommendation for tables, e.g. "Take profit (+8.1%) | Reduce (target 20%)"
func (r Recommendation) String() string {
	parts := make([]string, 0, len(r.Actions))
	for _, a := range r.Actions {
		switch a {
		case ActionNoData:
			parts = append(parts, "No data")
		case ActionConsiderSelling:
			parts = append(parts, fmt.Sprintf("Consider selling (%.1f%%)", r.WeeklyReturnPct))
		case ActionTakeProfit:
			parts = append(parts, fmt.Sprintf("Take profit (+%.1f%%)", r.WeeklyReturnPct))
		case ActionReduce:
			parts = append(parts, fmt.Sprintf("Reduce (target %.0f%%)", r.TargetWeightPct))
		case ActionIncrease:
			parts = append(parts, fmt.Sprintf("Increase (target %.0f%%)", r.TargetWeightPct))
		case ActionHold:
			parts = append(parts, "Hold")
		}
	}
	return strings.Join(parts, " | ")
}

// Recommend derives per-holding actions from weekly returns and weight deviations.
// Holdings must already carry weights from Aggregate.
func Recommend(holdings []domain.ValuedHolding, t domain.Thresholds) []Recommendation {
	out := make([]Recommendation, 0, len(holdings))
	for _, h := range holdings {
		rec := Recommendation{
			Code:            h.Code,
			WeeklyReturnPct: h.WeeklyReturnPct,
			TargetWeightPct: h.TargetWeightPct,
		}

		if !h.Valid() {
			rec.Actions = []Action{ActionNoData}
			out = append(out, rec)
			continue
		}

		switch {
		case h.WeeklyReturnPct <= t.WeeklyLossPct:
			rec.Actions = append(rec.Actions, ActionConsiderSelling)
		case h.WeeklyReturnPct >= t.WeeklyGainPct:
			rec.Actions = append(rec.Actions, ActionTakeProfit)
		}

		if math.Abs(h.WeightDeviationPct) >= t.WeightDeviationPct {
			if h.WeightDeviationPct > 0 {
				rec.Actions = append(rec.Actions, ActionReduce)
			} else {
				rec.Actions = append(rec.Actions, ActionIncrease)
			}
		}

		if len(rec.Actions) == 0 {
			rec.Actions = []Action{ActionHold}
		}
		out = append(out, rec)
	}
	return out
}
