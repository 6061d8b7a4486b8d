package app

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bomi-coder/liar-game/internal/domain"
)

const (
	// DefaultRoomCodeLength is the default length for room codes
	DefaultRoomCodeLength = 6

	// StaleRoomTimeout is how long a room with no connected players may
	// linger before the registry disposes of it
	StaleRoomTimeout = 2 * time.Hour
)

// RoomCodeChars are characters used for room codes (no ambiguous chars)
const RoomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// RoomHub is the registry: the only component that creates or destroys
// rooms, and the router from an inbound connection to its room's session.
type RoomHub struct {
	sessions       map[string]*RoomSession
	mu             sync.RWMutex
	settings       domain.Settings
	defaultCode    string
	roomCodeLength int
	logger         *slog.Logger
	done           chan struct{}
}

// NewRoomHub creates a new hub. defaultCode is the host code given to
// rooms created without their own.
func NewRoomHub(settings domain.Settings, defaultCode string, logger *slog.Logger) *RoomHub {
	hub := &RoomHub{
		sessions:       make(map[string]*RoomSession),
		settings:       settings,
		defaultCode:    defaultCode,
		roomCodeLength: DefaultRoomCodeLength,
		logger:         logger,
		done:           make(chan struct{}),
	}

	go hub.cleanupLoop()

	return hub
}

// CreateRoom creates a room with a fresh code. An empty hostCode falls
// back to the hub default.
func (h *RoomHub) CreateRoom(hostCode string) (*RoomSession, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var roomCode string
	for attempts := 0; attempts < 10; attempts++ {
		roomCode = h.generateRoomCode()
		if _, exists := h.sessions[roomCode]; !exists {
			break
		}
	}
	if _, exists := h.sessions[roomCode]; exists {
		return nil, fmt.Errorf("failed to generate unique room code")
	}

	return h.addSessionLocked(roomCode, hostCode), nil
}

// GetSession returns a room session by code
func (h *RoomHub) GetSession(roomCode string) (*RoomSession, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	session, ok := h.sessions[roomCode]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}

	return session, nil
}

// GetOrCreateSession returns the room with this code, creating it if
// absent. This is the create-or-join entry point for connections that
// address a room directly.
func (h *RoomHub) GetOrCreateSession(roomCode string) *RoomSession {
	h.mu.Lock()
	defer h.mu.Unlock()

	if session, ok := h.sessions[roomCode]; ok {
		return session
	}
	return h.addSessionLocked(roomCode, "")
}

func (h *RoomHub) addSessionLocked(roomCode, hostCode string) *RoomSession {
	if hostCode == "" {
		hostCode = h.defaultCode
	}

	room := domain.NewRoom(roomCode, hostCode, h.settings)
	session := NewRoomSession(room, h.logger)
	h.sessions[roomCode] = session

	h.logger.Info("room created", "roomCode", roomCode)

	return session
}

// DeleteSession removes a room session
func (h *RoomHub) DeleteSession(roomCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if session, ok := h.sessions[roomCode]; ok {
		session.Close()
		delete(h.sessions, roomCode)
		h.logger.Info("room deleted", "roomCode", roomCode)
	}
}

// SessionCount returns the number of active rooms
func (h *RoomHub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// TotalPlayerCount returns the total roster size across all rooms
func (h *RoomHub) TotalPlayerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, session := range h.sessions {
		total += session.PlayerCount()
	}
	return total
}

// Close shuts down the hub and all sessions
func (h *RoomHub) Close() {
	close(h.done)

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, session := range h.sessions {
		session.Close()
	}
	h.sessions = make(map[string]*RoomSession)
}

// generateRoomCode generates a random room code
func (h *RoomHub) generateRoomCode() string {
	b := make([]byte, h.roomCodeLength)
	rand.Read(b)

	code := make([]byte, h.roomCodeLength)
	for i := range code {
		code[i] = RoomCodeChars[int(b[i])%len(RoomCodeChars)]
	}

	return string(code)
}

// cleanupLoop periodically disposes of abandoned rooms
func (h *RoomHub) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			h.cleanupStaleRooms()
		}
	}
}

// cleanupStaleRooms removes rooms with no connected players that are old
func (h *RoomHub) cleanupStaleRooms() {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()
	for roomCode, session := range h.sessions {
		if session.ConnectedCount() == 0 && now.Sub(session.CreatedAt()) > StaleRoomTimeout {
			session.Close()
			delete(h.sessions, roomCode)
			h.logger.Info("stale room cleaned up", "roomCode", roomCode)
		}
	}
}
