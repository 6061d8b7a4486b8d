package domain

import "sort"

// VoteTally accumulates at most one counted vote per voter for one voting
// round. Resubmitting overwrites the earlier choice; the latest submission
// before closure is the one counted.
type VoteTally struct {
	votes map[string]string // voterID -> targetID
}

// NewVoteTally creates an empty tally
func NewVoteTally() *VoteTally {
	return &VoteTally{
		votes: make(map[string]string),
	}
}

// Cast records or overwrites the voter's choice
func (t *VoteTally) Cast(voterID, targetID string) {
	t.votes[voterID] = targetID
}

// HasVoted checks if a voter has a live vote
func (t *VoteTally) HasVoted(voterID string) bool {
	_, ok := t.votes[voterID]
	return ok
}

// VoterCount returns the number of distinct voters
func (t *VoteTally) VoterCount() int {
	return len(t.votes)
}

// Votes returns a copy of the voter -> target mapping
func (t *VoteTally) Votes() map[string]string {
	out := make(map[string]string, len(t.votes))
	for voter, target := range t.votes {
		out[voter] = target
	}
	return out
}

// Counts returns the number of votes per target
func (t *VoteTally) Counts() map[string]int {
	counts := make(map[string]int, len(t.votes))
	for _, target := range t.votes {
		counts[target]++
	}
	return counts
}

// Leaders returns the targets holding the maximum vote count, sorted by ID
// so tie handling is deterministic. Empty when no votes were cast.
func (t *VoteTally) Leaders() []string {
	return LeadersOf(t.Counts())
}

// CombinedCounts merges two voting rounds by summing counts per target.
func CombinedCounts(first, second *VoteTally) map[string]int {
	combined := first.Counts()
	for target, n := range second.Counts() {
		combined[target] += n
	}
	return combined
}

// LeadersOf extracts the leader set from a count map, sorted by ID.
func LeadersOf(counts map[string]int) []string {
	max := 0
	for _, n := range counts {
		if n > max {
			max = n
		}
	}
	if max == 0 {
		return nil
	}

	leaders := make([]string, 0, 2)
	for target, n := range counts {
		if n == max {
			leaders = append(leaders, target)
		}
	}
	sort.Strings(leaders)
	return leaders
}
