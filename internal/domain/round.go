package domain

import (
	"math/rand"
	"time"
)

// LiarPlaceholder is what the liar sees instead of the secret word
const LiarPlaceholder = "???"

// RoundState holds all state for one live round. The hint order and roles
// are fixed at creation and never recomputed mid-round.
type RoundState struct {
	Number     int             `json:"number"`
	Category   string          `json:"category"`
	SecretWord string          `json:"secretWord"`
	Reused     bool            `json:"reused"` // subject pool was exhausted
	LiarID     string          `json:"liarId"`
	SpyID      string          `json:"spyId,omitempty"`
	Roles      map[string]Role `json:"roles"`
	Schedule   *TurnSchedule   `json:"-"`
	Tally1     *VoteTally      `json:"-"`
	Tally2     *VoteTally      `json:"-"`

	// Tie handling, populated only when VOTE_1 ends in a tie
	TieCandidates []string      `json:"tieCandidates,omitempty"`
	TieSchedule   *TurnSchedule `json:"-"`

	AccusedID string    `json:"accusedId,omitempty"`
	Winner    Side      `json:"winner,omitempty"`
	StartedAt time.Time `json:"startedAt"`
	EndedAt   time.Time `json:"endedAt,omitempty"`
}

// NewRoundState sets up a round for the given connected players: a random
// hint order, a random liar, and, from spyThreshold players up, a random
// spy among the non-liars. spyThreshold <= 0 disables the spy role.
func NewRoundState(number int, category, secretWord string, reused bool, playerIDs []string, spyThreshold int) *RoundState {
	order := make([]string, len(playerIDs))
	copy(order, playerIDs)
	rand.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	liarID := playerIDs[rand.Intn(len(playerIDs))]

	spyID := ""
	if spyThreshold > 0 && len(playerIDs) >= spyThreshold {
		candidates := make([]string, 0, len(playerIDs)-1)
		for _, id := range playerIDs {
			if id != liarID {
				candidates = append(candidates, id)
			}
		}
		spyID = candidates[rand.Intn(len(candidates))]
	}

	roles := make(map[string]Role, len(playerIDs))
	for _, id := range playerIDs {
		switch id {
		case liarID:
			roles[id] = RoleLiar
		case spyID:
			roles[id] = RoleSpy
		default:
			roles[id] = RoleCitizen
		}
	}

	return &RoundState{
		Number:     number,
		Category:   category,
		SecretWord: secretWord,
		Reused:     reused,
		LiarID:     liarID,
		SpyID:      spyID,
		Roles:      roles,
		Schedule:   NewTurnSchedule(order),
		Tally1:     NewVoteTally(),
		Tally2:     NewVoteTally(),
		StartedAt:  time.Now(),
	}
}

// RoleOf returns the player's role this round, RoleCitizen if unknown
func (r *RoundState) RoleOf(playerID string) Role {
	if role, ok := r.Roles[playerID]; ok {
		return role
	}
	return RoleCitizen
}

// WordFor returns what the given player is allowed to see: the liar gets a
// placeholder, everyone else (spy included) the secret word.
func (r *RoundState) WordFor(playerID string) string {
	if playerID == r.LiarID {
		return LiarPlaceholder
	}
	return r.SecretWord
}

// BeginTieSpeech fixes the tied-leader set and their speaking order
func (r *RoundState) BeginTieSpeech(tied []string) {
	r.TieCandidates = make([]string, len(tied))
	copy(r.TieCandidates, tied)
	r.TieSchedule = NewTurnSchedule(r.TieCandidates)
}

// IsTieCandidate checks membership in the tied-leader set
func (r *RoundState) IsTieCandidate(playerID string) bool {
	for _, id := range r.TieCandidates {
		if id == playerID {
			return true
		}
	}
	return false
}

// Finish stamps the round outcome
func (r *RoundState) Finish(winner Side) {
	r.Winner = winner
	r.EndedAt = time.Now()
}
