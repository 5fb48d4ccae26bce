package descent

import "fmt"

// State is the follower's state-machine status.
type State int

const (
	// Running means the last step moved the agent.
	Running State = iota
	// StuckRecovery means the last step stagnated and an escape force was applied.
	StuckRecovery
	// GoalReached means the last waypoint lies strictly inside the goal radius.
	GoalReached
	// Aborted means the invalidation signal (or context) stopped the run.
	Aborted
	// ExceededMaxSteps means the step guard fired before the goal was reached.
	ExceededMaxSteps
)

// Terminal reports whether no further steps will be taken.
func (s State) Terminal() bool {
	return s == GoalReached || s == Aborted || s == ExceededMaxSteps
}

func (s State) String() string {
	switch s {
	case Running:
		return "RUNNING"
	case StuckRecovery:
		return "STUCK_RECOVERY"
	case GoalReached:
		return "GOAL_REACHED"
	case Aborted:
		return "ABORTED"
	case ExceededMaxSteps:
		return "EXCEEDED_MAX_STEPS"
	default:
		return "UNKNOWN"
	}
}

// MarshalText encodes the state name, so results serialise readably.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a name produced by MarshalText.
func (s *State) UnmarshalText(text []byte) error {
	for st := Running; st <= ExceededMaxSteps; st++ {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("descent: unknown state %q", text)
}
