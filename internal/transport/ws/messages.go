package ws

import (
	"encoding/json"
	"time"
)

// MessageType represents the type of WebSocket message
type MessageType string

// Client → Server message types
const (
	MsgJoin            MessageType = "join"
	MsgBecomeHost      MessageType = "become_host"
	MsgStartGame       MessageType = "start_game"
	MsgVote            MessageType = "vote"
	MsgLiarGuess       MessageType = "liar_guess"
	MsgManualNextPhase MessageType = "manual_next_phase"
	MsgResetGame       MessageType = "reset_game"
	MsgPing            MessageType = "ping"
)

// Server → Client housekeeping message types; room events are forwarded as
// domain events under their own type names.
const (
	MsgConnected MessageType = "connected"
	MsgError     MessageType = "error_msg"
	MsgPong      MessageType = "pong"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage represents a housekeeping message from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp
func NewServerMessage(msgType MessageType, payload interface{}) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Client message payloads

// JoinPayload is the payload for the join command
type JoinPayload struct {
	Name string `json:"name"`
}

// BecomeHostPayload carries the host code for a host claim
type BecomeHostPayload struct {
	Code string `json:"code"`
}

// VotePayload names the accused target
type VotePayload struct {
	TargetID string `json:"targetId"`
}

// LiarGuessPayload carries the liar's free-text guess
type LiarGuessPayload struct {
	Guess string `json:"guess"`
}

// ManualNextPhasePayload names the phase the host is forcing
type ManualNextPhasePayload struct {
	Phase string `json:"phase"`
}

// Server message payloads

// ConnectedPayload is the payload for the connected message
type ConnectedPayload struct {
	PlayerID  string                 `json:"playerId"`
	RoomCode  string                 `json:"roomCode"`
	GameState map[string]interface{} `json:"gameState"`
}

// ErrorPayload is the payload for the error message
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInvalidMessage    = "INVALID_MESSAGE"
	ErrCodeRoomNotFound      = "ROOM_NOT_FOUND"
	ErrCodeRoomFull          = "ROOM_FULL"
	ErrCodeNameConflict      = "NAME_CONFLICT"
	ErrCodeNotAuthorized     = "NOT_AUTHORIZED"
	ErrCodeIllegalTransition = "ILLEGAL_TRANSITION"
	ErrCodeInvalidCode       = "INVALID_CODE"
	ErrCodeNotEnoughPlayers  = "NOT_ENOUGH_PLAYERS"
	ErrCodeVoteOutOfPhase    = "VOTE_OUT_OF_PHASE"
	ErrCodeSelfVote          = "SELF_VOTE"
	ErrCodeInvalidVoteTarget = "INVALID_VOTE_TARGET"
	ErrCodeNotLiar           = "NOT_LIAR"
	ErrCodeRateLimited       = "RATE_LIMITED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)
