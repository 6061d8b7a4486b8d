package domain

import "sort"

// ScoreDeltas holds the points awarded per role on a round win
type ScoreDeltas struct {
	CitizenWin int `json:"citizenWin"`
	LiarWin    int `json:"liarWin"`
	SpyWin     int `json:"spyWin"`
}

// DefaultScoreDeltas returns the default scoring: each citizen +1 on a
// citizen win, the liar +3 and the spy +1 on a liar-side win.
func DefaultScoreDeltas() ScoreDeltas {
	return ScoreDeltas{
		CitizenWin: 1,
		LiarWin:    3,
		SpyWin:     1,
	}
}

// Standing is one row of the final scoreboard
type Standing struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// StandingsOf ranks players by score descending. The input must be in join
// order; the sort is stable so ties break by original join order, never
// randomly.
func StandingsOf(players []*Player) []Standing {
	ranked := make([]*Player, len(players))
	copy(ranked, players)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	standings := make([]Standing, 0, len(ranked))
	for _, p := range ranked {
		standings = append(standings, Standing{Name: p.Name, Score: p.Score})
	}
	return standings
}
