package ws

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/bomi-coder/liar-game/internal/app"
)

// Handler handles WebSocket connections
type Handler struct {
	hub      *app.RoomHub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *app.RoomHub, logger *slog.Logger) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Allow all origins for development
				return true
			},
		},
		logger: logger,
	}
}

// ServeHTTP handles WebSocket upgrade requests. The room is created on
// first contact if absent; an optional playerId query parameter resumes an
// existing seat.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	roomCode := strings.ToUpper(r.URL.Query().Get("roomCode"))
	if roomCode == "" {
		http.Error(w, "roomCode is required", http.StatusBadRequest)
		return
	}

	playerID := r.URL.Query().Get("playerId")
	isResume := playerID != ""
	if !isResume {
		playerID = uuid.New().String()
	}

	session := h.hub.GetOrCreateSession(roomCode)

	if !isResume && !session.CanJoin() {
		http.Error(w, "Room is full", http.StatusForbidden)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := NewClient(conn, session, playerID, h.logger)
	session.RegisterClient(playerID, client)

	h.logger.Info("websocket connected",
		"roomCode", roomCode,
		"playerID", playerID,
		"isResume", isResume,
	)

	if isResume {
		if _, err := session.Reconnect(playerID); err != nil {
			// Seat is gone, the client will have to join fresh
			h.logger.Debug("resume failed, treating as new", "playerID", playerID, "error", err)
		} else {
			client.sendConnected()
		}
	}

	client.Run()
}
