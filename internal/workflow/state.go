// Package workflow drives one candidate application through the recruitment
// pipeline as an explicit finite-state machine.
//
// Valid state graph:
//
//	INTAKE ──► ANALYZED_PENDING ──► SELECTED_PENDING_TEST ──► TEST_PASSED_PENDING_CONFIRM ──► CONFIRMED_PENDING_SCHEDULE ──► SCHEDULED
//	                 │                        │
//	                 ▼                        ▼
//	      REJECTED_BY_ANALYSIS        REJECTED_BY_TEST
//
// SCHEDULED, REJECTED_BY_ANALYSIS and REJECTED_BY_TEST are terminal. A
// global reset returns to INTAKE from any state and is handled outside the
// transition table.
package workflow

import "fmt"

// State is the single source of truth for where an application stands.
type State string

const (
	StateIntake                   State = "INTAKE"
	StateAnalyzedPending          State = "ANALYZED_PENDING"
	StateSelectedPendingTest      State = "SELECTED_PENDING_TEST"
	StateTestPassedPendingConfirm State = "TEST_PASSED_PENDING_CONFIRM"
	StateConfirmedPendingSchedule State = "CONFIRMED_PENDING_SCHEDULE"
	StateScheduled                State = "SCHEDULED"
	StateRejectedByAnalysis       State = "REJECTED_BY_ANALYSIS"
	StateRejectedByTest           State = "REJECTED_BY_TEST"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[State][]State{
	StateIntake:                   {StateAnalyzedPending},
	StateAnalyzedPending:          {StateSelectedPendingTest, StateRejectedByAnalysis},
	StateSelectedPendingTest:      {StateTestPassedPendingConfirm, StateRejectedByTest},
	StateTestPassedPendingConfirm: {StateConfirmedPendingSchedule},
	StateConfirmedPendingSchedule: {StateScheduled},
	// SCHEDULED and the two rejection states are terminal
}

// ParseState converts a raw string to a State, returning an error for
// unknown values.
func ParseState(s string) (State, error) {
	st := State(s)
	switch st {
	case StateIntake, StateAnalyzedPending, StateSelectedPendingTest,
		StateTestPassedPendingConfirm, StateConfirmedPendingSchedule,
		StateScheduled, StateRejectedByAnalysis, StateRejectedByTest:
		return st, nil
	}
	return "", fmt.Errorf("unknown application state %q", s)
}

// Allowed returns true when moving from → to is permitted by the state
// machine.
func Allowed(from, to State) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false // terminal state
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the state has no outgoing transitions.
func IsTerminal(s State) bool {
	_, ok := validTransitions[s]
	return !ok
}
