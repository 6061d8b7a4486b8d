package domain

import "errors"

// Domain errors
var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomFull          = errors.New("room is full")
	ErrNameConflict      = errors.New("name already taken by a connected player")
	ErrEmptyName         = errors.New("name cannot be empty")
	ErrNotAuthorized     = errors.New("only the host can perform this action")
	ErrIllegalTransition = errors.New("illegal phase transition")
	ErrInvalidCode       = errors.New("invalid host code")
	ErrNotEnoughPlayers  = errors.New("not enough connected players to start")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrVoteOutOfPhase    = errors.New("voting is not open")
	ErrSelfVote          = errors.New("cannot vote for yourself")
	ErrInvalidVoteTarget = errors.New("invalid vote target")
	ErrNotLiar           = errors.New("only the liar can submit a guess")
	ErrGuessOutOfPhase   = errors.New("guessing is not open")
	ErrEmptyGuess        = errors.New("guess cannot be empty")
)
