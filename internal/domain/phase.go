package domain

// Phase represents the current phase of a room
type Phase string

const (
	PhaseLobby       Phase = "LOBBY"        // Waiting for players to join
	PhaseRoleAssign  Phase = "ROLE_ASSIGN"  // Roles and secret word being revealed
	PhaseHintTurns   Phase = "HINT_TURNS"   // Players giving hints one by one
	PhaseDiscussion  Phase = "DISCUSSION"   // Open discussion before voting
	PhaseVote1       Phase = "VOTE_1"       // First accusation vote
	PhaseTieSpeech   Phase = "TIE_SPEECH"   // Tied leaders get one extra timed turn
	PhaseVote2       Phase = "VOTE_2"       // Second vote after a tie
	PhaseLiarGuess   Phase = "LIAR_GUESS"   // Accused liar guessing the secret word
	PhaseRoundResult Phase = "ROUND_RESULT" // Round outcome shown, waiting for next round
	PhaseGameOver    Phase = "GAME_OVER"    // Final standings
)

// String returns the string representation of the phase
func (p Phase) String() string {
	return string(p)
}

// phaseTransitions is the single legal transition graph. Self-loops on
// HINT_TURNS and TIE_SPEECH model advancing to the next speaker.
var phaseTransitions = map[Phase][]Phase{
	PhaseLobby:       {PhaseRoleAssign},
	PhaseRoleAssign:  {PhaseHintTurns},
	PhaseHintTurns:   {PhaseHintTurns, PhaseDiscussion},
	PhaseDiscussion:  {PhaseVote1},
	PhaseVote1:       {PhaseTieSpeech, PhaseLiarGuess, PhaseRoundResult},
	PhaseTieSpeech:   {PhaseTieSpeech, PhaseVote2},
	PhaseVote2:       {PhaseLiarGuess, PhaseRoundResult},
	PhaseLiarGuess:   {PhaseRoundResult},
	PhaseRoundResult: {PhaseRoleAssign, PhaseGameOver},
	PhaseGameOver:    {},
}

// CanTransitionTo checks if a transition from current phase to target phase
// is valid. A host reset back to the lobby is legal from every phase.
func (p Phase) CanTransitionTo(target Phase) bool {
	if target == PhaseLobby {
		return true
	}

	allowed, ok := phaseTransitions[p]
	if !ok {
		return false
	}

	for _, phase := range allowed {
		if phase == target {
			return true
		}
	}
	return false
}

// IsVoting returns true for the two voting phases.
func (p Phase) IsVoting() bool {
	return p == PhaseVote1 || p == PhaseVote2
}

// ParsePhase converts a wire string to a Phase, false if unknown.
func ParsePhase(s string) (Phase, bool) {
	switch Phase(s) {
	case PhaseLobby, PhaseRoleAssign, PhaseHintTurns, PhaseDiscussion,
		PhaseVote1, PhaseTieSpeech, PhaseVote2, PhaseLiarGuess,
		PhaseRoundResult, PhaseGameOver:
		return Phase(s), true
	}
	return "", false
}
