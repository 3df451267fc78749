package refresh

import "fmt"

// State is a stage of the refresh lifecycle
type State string

const (
	StateIdle          State = "IDLE"
	StateFetching      State = "FETCHING"
	StateValuing       State = "VALUING"
	StateAggregating   State = "AGGREGATING"
	StateComputingRisk State = "COMPUTING_RISK"
	StateReady         State = "READY"
	StateFailed        State = "FAILED"
)

var transitions = map[State][]State{
	StateIdle:          {StateFetching},
	StateFetching:      {StateValuing, StateFailed},
	StateValuing:       {StateAggregating, StateFailed},
	StateAggregating:   {StateComputingRisk, StateFailed},
	StateComputingRisk: {StateReady, StateFailed},
	StateReady:         {StateIdle},
	StateFailed:        {StateIdle},
}

// CanTransition reports whether the lifecycle allows moving from one state to another
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Terminal reports whether s ends a refresh
func (s State) Terminal() bool {
	return s == StateReady || s == StateFailed
}

type machine struct {
	state State
}

func (m *machine) move(to State) error {
	if !CanTransition(m.state, to) {
		return fmt.Errorf("invalid refresh transition %s -> %s", m.state, to)
	}
	m.state = to
	return nil
}
