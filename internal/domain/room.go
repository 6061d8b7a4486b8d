package domain

import (
	"strings"
	"time"
)

// Settings holds configurable room parameters
type Settings struct {
	MinPlayers   int         `json:"minPlayers"`
	MaxPlayers   int         `json:"maxPlayers"`
	TotalRounds  int         `json:"totalRounds"`
	SpyThreshold int         `json:"spyThreshold"` // player count from which a spy is assigned, 0 disables
	Deltas       ScoreDeltas `json:"deltas"`

	RoleRevealSeconds int `json:"roleRevealSeconds"`
	HintSeconds       int `json:"hintSeconds"`
	DiscussSeconds    int `json:"discussSeconds"`
	VoteSeconds       int `json:"voteSeconds"`
	TieSpeechSeconds  int `json:"tieSpeechSeconds"`
	GuessSeconds      int `json:"guessSeconds"`
}

// DefaultSettings returns the default room settings
func DefaultSettings() Settings {
	return Settings{
		MinPlayers:        3,
		MaxPlayers:        12,
		TotalRounds:       5,
		SpyThreshold:      7,
		Deltas:            DefaultScoreDeltas(),
		RoleRevealSeconds: 5,
		HintSeconds:       15,
		DiscussSeconds:    120,
		VoteSeconds:       60,
		TieSpeechSeconds:  20,
		GuessSeconds:      30,
	}
}

// Room is one game room: the ordered roster, host authority, round
// progression and the live round. All mutation goes through its methods;
// concurrency control lives a layer up.
type Room struct {
	ID          string      `json:"id"`
	HostCode    string      `json:"-"` // shared secret for claiming host
	Players     []*Player   `json:"players"` // join order, stable across reconnects
	Phase       Phase       `json:"phase"`
	Round       int         `json:"round"`
	Current     *RoundState `json:"currentRound,omitempty"`
	History     []*RoundState `json:"roundHistory"`
	UsedPairs   map[string]bool `json:"-"` // "category/word" drawn this game
	Settings    Settings    `json:"settings"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// NewRoom creates an empty room in the lobby phase
func NewRoom(id, hostCode string, settings Settings) *Room {
	return &Room{
		ID:        id,
		HostCode:  hostCode,
		Players:   make([]*Player, 0),
		Phase:     PhaseLobby,
		Round:     0,
		History:   make([]*RoundState, 0),
		UsedPairs: make(map[string]bool),
		Settings:  settings,
		CreatedAt: time.Now(),
	}
}

// Join adds a player, or re-attaches a disconnected one holding the same
// name. A reconnect keeps the old stable ID, score and host flag; the
// caller must adopt the returned player's ID. A name held by a connected
// player is a conflict.
func (r *Room) Join(playerID, name string) (*Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	if existing := r.FindByName(name); existing != nil {
		if existing.Connected {
			return nil, ErrNameConflict
		}
		existing.Reconnect()
		return existing, nil
	}

	if len(r.Players) >= r.Settings.MaxPlayers {
		return nil, ErrRoomFull
	}

	player := NewPlayer(playerID, name)
	r.Players = append(r.Players, player)
	return player, nil
}

// FindPlayer returns a player by stable ID
func (r *Room) FindPlayer(playerID string) (*Player, error) {
	for _, p := range r.Players {
		if p.ID == playerID {
			return p, nil
		}
	}
	return nil, ErrPlayerNotFound
}

// FindByName returns the player holding the display name, nil if none
func (r *Room) FindByName(name string) *Player {
	for _, p := range r.Players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Leave handles a departing connection. In the lobby the player is removed
// outright; mid-game the player is retained disconnected so score and seat
// survive a reconnect.
func (r *Room) Leave(playerID string) {
	if r.Phase == PhaseLobby {
		for i, p := range r.Players {
			if p.ID == playerID {
				r.Players = append(r.Players[:i], r.Players[i+1:]...)
				return
			}
		}
		return
	}

	if p, err := r.FindPlayer(playerID); err == nil {
		p.Disconnect()
	}
}

// ClaimHost grants host authority if the code matches the room's secret.
// Allowed in any phase so a host seat lost to a disconnect can be
// recovered mid-game. A wrong code mutates nothing.
func (r *Room) ClaimHost(playerID, code string) error {
	p, err := r.FindPlayer(playerID)
	if err != nil {
		return err
	}
	if code != r.HostCode {
		return ErrInvalidCode
	}

	for _, other := range r.Players {
		other.IsHost = false
	}
	p.IsHost = true
	return nil
}

// Host returns the connected player holding host authority, nil when the
// room is host-less. A disconnected host keeps the flag so a reconnect
// restores the seat, but holds no authority while away.
func (r *Room) Host() *Player {
	for _, p := range r.Players {
		if p.IsHost && p.Connected {
			return p
		}
	}
	return nil
}

// IsHost checks if the player currently holds host authority
func (r *Room) IsHost(playerID string) bool {
	h := r.Host()
	return h != nil && h.ID == playerID
}

// ConnectedPlayers returns the connected subset of the roster, join order
func (r *Room) ConnectedPlayers() []*Player {
	out := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		if p.Connected {
			out = append(out, p)
		}
	}
	return out
}

// ConnectedIDs returns the IDs of connected players, join order
func (r *Room) ConnectedIDs() []string {
	ids := make([]string, 0, len(r.Players))
	for _, p := range r.Players {
		if p.Connected {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// ConnectedCount returns the number of connected players
func (r *Room) ConnectedCount() int {
	return len(r.ConnectedIDs())
}

// IsConnected reports whether the player with this ID is connected
func (r *Room) IsConnected(playerID string) bool {
	p, err := r.FindPlayer(playerID)
	return err == nil && p.Connected
}

// CanStart checks if the game can be started
func (r *Room) CanStart() bool {
	return r.Phase == PhaseLobby && r.ConnectedCount() >= r.Settings.MinPlayers
}

// StartRound archives the previous round, draws the given subject pair and
// creates the next round over the currently connected players.
func (r *Room) StartRound(category, secretWord string, reused bool) *RoundState {
	if r.Current != nil {
		r.History = append(r.History, r.Current)
	}

	r.Round++
	r.UsedPairs[category+"/"+secretWord] = true
	r.Current = NewRoundState(r.Round, category, secretWord, reused, r.ConnectedIDs(), r.Settings.SpyThreshold)
	r.Phase = PhaseRoleAssign
	return r.Current
}

// ApplyRoundOutcome credits scores per the round's roles. Every player who
// was dealt a role this round is scored, connected or not; late joiners
// without a role get nothing.
func (r *Room) ApplyRoundOutcome(winner Side) {
	if r.Current == nil {
		return
	}
	r.Current.Finish(winner)

	for playerID, role := range r.Current.Roles {
		p, err := r.FindPlayer(playerID)
		if err != nil {
			continue
		}
		switch {
		case winner == SideCitizens && role == RoleCitizen:
			p.Score += r.Settings.Deltas.CitizenWin
		case winner == SideLiar && role == RoleLiar:
			p.Score += r.Settings.Deltas.LiarWin
		case winner == SideLiar && role == RoleSpy:
			p.Score += r.Settings.Deltas.SpyWin
		}
	}
}

// Standings returns the ranked scoreboard, ties broken by join order
func (r *Room) Standings() []Standing {
	return StandingsOf(r.Players)
}

// PlayerList returns the roster view in join order
func (r *Room) PlayerList() []PlayerInfo {
	out := make([]PlayerInfo, 0, len(r.Players))
	for _, p := range r.Players {
		out = append(out, p.ToInfo())
	}
	return out
}

// Reset returns the room to an empty lobby: scores zeroed, rounds and the
// used-subject set cleared, disconnected players dropped.
func (r *Room) Reset() {
	kept := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		if p.Connected {
			p.Score = 0
			kept = append(kept, p)
		}
	}
	r.Players = kept
	r.Phase = PhaseLobby
	r.Round = 0
	r.Current = nil
	r.History = make([]*RoundState, 0)
	r.UsedPairs = make(map[string]bool)
}
