package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/bomi-coder/liar-game/internal/app"
	"github.com/bomi-coder/liar-game/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Client represents a WebSocket client connection. The player ID starts as
// a provisional connection identity and is swapped for the stable one when
// a join re-attaches to an existing seat.
type Client struct {
	conn     *websocket.Conn
	session  *app.RoomSession
	playerID string
	limiter  *rate.Limiter
	send     chan []byte
	done     chan struct{}
	logger   *slog.Logger
	mu       sync.Mutex
	closed   bool
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, session *app.RoomSession, playerID string, logger *slog.Logger) *Client {
	return &Client{
		conn:     conn,
		session:  session,
		playerID: playerID,
		limiter:  rate.NewLimiter(5, 10),
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
		logger:   logger,
	}
}

// GetPlayerID returns the player ID for this client
func (c *Client) GetPlayerID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playerID
}

// Send implements app.ClientConnection
func (c *Client) Send(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		// Buffer full, message dropped
		c.logger.Warn("send buffer full, message dropped", "playerID", c.playerID)
		return nil
	}
}

// Close implements app.ClientConnection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		playerID := c.GetPlayerID()
		c.session.UnregisterClient(playerID)
		c.session.Disconnect(playerID)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", "error", err)
			}
			break
		}

		if !c.limiter.Allow() {
			c.sendError(ErrCodeRateLimited, "Slow down")
			continue
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes an incoming message from the client
func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid message format")
		return
	}

	switch msg.Type {
	case MsgJoin:
		c.handleJoin(msg.Payload)
	case MsgBecomeHost:
		c.handleBecomeHost(msg.Payload)
	case MsgStartGame:
		c.handleStartGame()
	case MsgVote:
		c.handleVote(msg.Payload)
	case MsgLiarGuess:
		c.handleLiarGuess(msg.Payload)
	case MsgManualNextPhase:
		c.handleManualNextPhase(msg.Payload)
	case MsgResetGame:
		c.handleResetGame()
	case MsgPing:
		c.sendPong()
	default:
		c.sendError(ErrCodeInvalidMessage, "Unknown message type")
	}
}

// handleJoin handles a join command. When the name re-attaches to a
// disconnected seat, this connection adopts that seat's stable ID.
func (c *Client) handleJoin(payload json.RawMessage) {
	var p JoinPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.Name == "" {
		c.sendError(ErrCodeInvalidMessage, "Name is required")
		return
	}

	provisionalID := c.GetPlayerID()
	player, err := c.session.Join(provisionalID, p.Name)
	if err != nil {
		c.sendDomainError(err)
		return
	}

	if player.ID != provisionalID {
		c.mu.Lock()
		c.playerID = player.ID
		c.mu.Unlock()
		c.session.UnregisterClient(provisionalID)
		c.session.RegisterClient(player.ID, c)
	}

	c.sendConnected()
}

// handleBecomeHost handles a host claim
func (c *Client) handleBecomeHost(payload json.RawMessage) {
	var p BecomeHostPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return
	}

	if err := c.session.ClaimHost(c.GetPlayerID(), p.Code); err != nil {
		c.sendDomainError(err)
	}
}

// handleStartGame handles a start_game command
func (c *Client) handleStartGame() {
	if err := c.session.StartGame(c.GetPlayerID()); err != nil {
		c.sendDomainError(err)
	}
}

// handleVote handles a vote command
func (c *Client) handleVote(payload json.RawMessage) {
	var p VotePayload
	if err := json.Unmarshal(payload, &p); err != nil || p.TargetID == "" {
		c.sendError(ErrCodeInvalidMessage, "Target is required")
		return
	}

	if err := c.session.Vote(c.GetPlayerID(), p.TargetID); err != nil {
		c.sendDomainError(err)
	}
}

// handleLiarGuess handles the liar's guess
func (c *Client) handleLiarGuess(payload json.RawMessage) {
	var p LiarGuessPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return
	}

	if err := c.session.LiarGuess(c.GetPlayerID(), p.Guess); err != nil {
		c.sendDomainError(err)
	}
}

// handleManualNextPhase handles the host's phase override
func (c *Client) handleManualNextPhase(payload json.RawMessage) {
	var p ManualNextPhasePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return
	}

	target, ok := domain.ParsePhase(p.Phase)
	if !ok {
		c.sendError(ErrCodeInvalidMessage, "Unknown phase")
		return
	}

	if err := c.session.ManualNextPhase(c.GetPlayerID(), target); err != nil {
		c.sendDomainError(err)
	}
}

// handleResetGame handles a reset_game command
func (c *Client) handleResetGame() {
	if err := c.session.ResetGame(c.GetPlayerID()); err != nil {
		c.sendDomainError(err)
	}
}

// sendConnected sends the connected message with the catch-up snapshot
func (c *Client) sendConnected() {
	playerID := c.GetPlayerID()
	payload := &ConnectedPayload{
		PlayerID:  playerID,
		RoomCode:  c.session.RoomCode(),
		GameState: c.session.GameState(playerID),
	}

	c.Send(NewServerMessage(MsgConnected, payload))
}

// sendDomainError maps a domain error to a wire error code
func (c *Client) sendDomainError(err error) {
	code := ErrCodeInternalError
	switch {
	case errors.Is(err, domain.ErrRoomFull):
		code = ErrCodeRoomFull
	case errors.Is(err, domain.ErrNameConflict), errors.Is(err, domain.ErrEmptyName):
		code = ErrCodeNameConflict
	case errors.Is(err, domain.ErrNotAuthorized):
		code = ErrCodeNotAuthorized
	case errors.Is(err, domain.ErrIllegalTransition):
		code = ErrCodeIllegalTransition
	case errors.Is(err, domain.ErrInvalidCode):
		code = ErrCodeInvalidCode
	case errors.Is(err, domain.ErrNotEnoughPlayers):
		code = ErrCodeNotEnoughPlayers
	case errors.Is(err, domain.ErrVoteOutOfPhase), errors.Is(err, domain.ErrGuessOutOfPhase):
		code = ErrCodeVoteOutOfPhase
	case errors.Is(err, domain.ErrSelfVote):
		code = ErrCodeSelfVote
	case errors.Is(err, domain.ErrInvalidVoteTarget), errors.Is(err, domain.ErrPlayerNotFound):
		code = ErrCodeInvalidVoteTarget
	case errors.Is(err, domain.ErrNotLiar), errors.Is(err, domain.ErrEmptyGuess):
		code = ErrCodeNotLiar
	}

	c.sendError(code, err.Error())
}

// sendError sends an error message to the client
func (c *Client) sendError(code, message string) {
	c.Send(NewServerMessage(MsgError, &ErrorPayload{
		Code:    code,
		Message: message,
	}))
}

// sendPong sends a pong message in response to ping
func (c *Client) sendPong() {
	c.Send(NewServerMessage(MsgPong, nil))
}
