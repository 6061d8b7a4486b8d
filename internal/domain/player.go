package domain

import "time"

// Player represents a player in a room. The ID is a stable identity that
// survives reconnects; the display name is the re-identification key when
// a connection comes back without its old ID.
type Player struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Score     int       `json:"score"`
	IsHost    bool      `json:"isHost"`
	Connected bool      `json:"connected"`
	JoinedAt  time.Time `json:"joinedAt"`
}

// NewPlayer creates a new connected player
func NewPlayer(id, name string) *Player {
	return &Player{
		ID:        id,
		Name:      name,
		Score:     0,
		IsHost:    false,
		Connected: true,
		JoinedAt:  time.Now(),
	}
}

// Disconnect marks the player as disconnected
func (p *Player) Disconnect() {
	p.Connected = false
}

// Reconnect marks the player as connected
func (p *Player) Reconnect() {
	p.Connected = true
}

// PlayerInfo is the roster view broadcast to all clients
type PlayerInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
	IsHost    bool   `json:"isHost"`
	Connected bool   `json:"connected"`
}

// ToInfo converts a Player to its broadcast view
func (p *Player) ToInfo() PlayerInfo {
	return PlayerInfo{
		ID:        p.ID,
		Name:      p.Name,
		Score:     p.Score,
		IsHost:    p.IsHost,
		Connected: p.Connected,
	}
}
