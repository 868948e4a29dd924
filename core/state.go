package core

// State tracks a debate's position in the round state machine. Transitions
// are strictly forward; restarting a debate means creating a new session.
type State int

const (
	// StateCreated is the initial state before Round 1 has completed.
	StateCreated State = iota
	// StateReviewed means Round 1 (initial reviews) has settled.
	StateReviewed
	// StateResponded means Round 2 (rebuttals) has settled.
	StateResponded
	// StateVoted means Round 3 (voting) has settled.
	StateVoted
	// StateConsensusBuilt is terminal: the consensus artifact exists.
	StateConsensusBuilt
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "CREATED"
	case StateReviewed:
		return "REVIEWED"
	case StateResponded:
		return "RESPONDED"
	case StateVoted:
		return "VOTED"
	case StateConsensusBuilt:
		return "CONSENSUS_BUILT"
	default:
		return "UNKNOWN"
	}
}
