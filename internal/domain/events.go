package domain

import "time"

// EventType represents the type of room event. The constants double as the
// wire names sent to clients.
type EventType string

const (
	EventPlayerList      EventType = "player_list"
	EventJoined          EventType = "joined"
	EventGameStart       EventType = "game_start"
	EventRoundStart      EventType = "round_start"
	EventRoleAssignment  EventType = "role_assignment"
	EventHintTurn        EventType = "hint_turn"
	EventDiscussionStart EventType = "discussion_start"
	EventVoteStart       EventType = "vote_start"
	EventVoteUpdate      EventType = "vote_update"
	EventVoteTie         EventType = "vote_tie"
	EventTieSpeechTurn   EventType = "tie_speech_turn"
	EventLiarGuessStart  EventType = "liar_guess_start"
	EventLiarInputEnable EventType = "liar_input_enable"
	EventRoundResult     EventType = "round_result"
	EventGameOver        EventType = "game_over"
	EventTimerReset      EventType = "timer_reset"
	EventTimerTick       EventType = "timer_tick"
	EventTimerDone       EventType = "timer_done"
	EventError           EventType = "error_msg"
)

// Event is an outbound event, broadcast to the room or, when PlayerID is
// set, unicast to that player alone.
type Event struct {
	Type      EventType   `json:"type"`
	RoomID    string      `json:"roomId"`
	PlayerID  string      `json:"playerId,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a room-wide event
func NewEvent(eventType EventType, roomID string, payload interface{}) *Event {
	return &Event{
		Type:      eventType,
		RoomID:    roomID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// NewPlayerEvent creates an event unicast to one player
func NewPlayerEvent(eventType EventType, roomID, playerID string, payload interface{}) *Event {
	return &Event{
		Type:      eventType,
		RoomID:    roomID,
		PlayerID:  playerID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// Payload types for outbound events

// PlayerListPayload carries the full ordered roster
type PlayerListPayload struct {
	Players []PlayerInfo `json:"players"`
	HostID  string       `json:"hostId,omitempty"`
}

// JoinedPayload acknowledges a join to the joining player, carrying the
// stable player ID to use on reconnect
type JoinedPayload struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	RoomID   string `json:"roomId"`
}

// GameStartPayload announces a new game
type GameStartPayload struct {
	TotalRounds int `json:"totalRounds"`
}

// RoundStartPayload announces a round; the category is visible to everyone
type RoundStartPayload struct {
	Round       int    `json:"round"`
	TotalRounds int    `json:"totalRounds"`
	Category    string `json:"category"`
	Reused      bool   `json:"reused,omitempty"` // subject pool exhausted, pair repeated
}

// RoleAssignmentPayload is unicast to each player; the liar receives a
// placeholder instead of the secret word
type RoleAssignmentPayload struct {
	Role       Role   `json:"role"`
	Category   string `json:"category"`
	SecretWord string `json:"secretWord"`
}

// HintTurnPayload announces the current speaker
type HintTurnPayload struct {
	SpeakerID   string `json:"speakerId"`
	SpeakerName string `json:"speakerName"`
	Index       int    `json:"index"`
	Total       int    `json:"total"`
	Seconds     int    `json:"seconds"`
}

// DiscussionStartPayload opens the discussion phase
type DiscussionStartPayload struct {
	Seconds int `json:"seconds"`
}

// Candidate is one votable player
type Candidate struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// VoteStartPayload opens a voting round
type VoteStartPayload struct {
	Round      int         `json:"round"` // 1 or 2
	Candidates []Candidate `json:"candidates"`
	Seconds    int         `json:"seconds"`
}

// VoteUpdatePayload carries the live per-vote log for a voting round
type VoteUpdatePayload struct {
	Round       int               `json:"round"`
	Votes       map[string]string `json:"votes"` // voterID -> targetID
	VotedCount  int               `json:"votedCount"`
	TotalVoters int               `json:"totalVoters"`
}

// VoteTiePayload announces a tie and its candidates
type VoteTiePayload struct {
	Candidates []Candidate `json:"candidates"`
}

// TieSpeechTurnPayload announces a tied leader's extra turn
type TieSpeechTurnPayload struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Seconds int    `json:"seconds"`
}

// LiarGuessStartPayload announces the accused liar's guess window
type LiarGuessStartPayload struct {
	LiarID   string `json:"liarId"`
	LiarName string `json:"liarName"`
	Category string `json:"category"`
	Seconds  int    `json:"seconds"`
}

// RoundResultPayload reveals the round outcome and secret word
type RoundResultPayload struct {
	Winner     Side   `json:"winner"`
	Reason     string `json:"reason"`
	AccusedID  string `json:"accusedId,omitempty"`
	LiarID     string `json:"liarId"`
	SecretWord string `json:"secretWord"`
	Category   string `json:"category"`
}

// GameOverPayload carries the final standings
type GameOverPayload struct {
	Standings []Standing `json:"standings"`
}

// TimerResetPayload announces a fresh countdown
type TimerResetPayload struct {
	Seconds int `json:"seconds"`
}

// TimerTickPayload carries the remaining seconds
type TimerTickPayload struct {
	Remaining int `json:"remaining"`
}

// ErrorPayload is unicast to the offending connection
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
