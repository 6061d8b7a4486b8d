package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bomi-coder/liar-game/internal/app"
	"github.com/bomi-coder/liar-game/internal/domain"
)

func newTestServer(t *testing.T) (*Server, *app.RoomHub) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := app.NewRoomHub(domain.DefaultSettings(), "BOM", logger)
	t.Cleanup(hub.Close)
	return &Server{hub: hub, logger: logger}, hub
}

func doRequest(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec, resp
}

func TestHandleCreateRoom(t *testing.T) {
	s, hub := newTestServer(t)

	rec, resp := doRequest(t, s, http.MethodPost, "/api/rooms", `{"hostCode":"SECRET"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	code := data["roomCode"].(string)
	assert.Len(t, code, app.DefaultRoomCodeLength)

	// The custom host code is live in the created room
	session, err := hub.GetSession(code)
	require.NoError(t, err)
	_, err = session.Join("p1", "Alice")
	require.NoError(t, err)
	assert.ErrorIs(t, session.ClaimHost("p1", "BOM"), domain.ErrInvalidCode)
	assert.NoError(t, session.ClaimHost("p1", "SECRET"))
}

func TestHandleGetRoom(t *testing.T) {
	s, hub := newTestServer(t)
	session := hub.GetOrCreateSession("FRIDAY")
	session.Join("p1", "Alice")

	// Room codes are case-insensitive on the way in
	rec, resp := doRequest(t, s, http.MethodGet, "/api/rooms/friday", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "FRIDAY", data["roomCode"])
	assert.Equal(t, "LOBBY", data["phase"])
	assert.Equal(t, float64(1), data["playerCount"])
	assert.Equal(t, true, data["canJoin"])
}

func TestHandleGetRoom_NotFound(t *testing.T) {
	s, _ := newTestServer(t)

	rec, resp := doRequest(t, s, http.MethodGet, "/api/rooms/NOPE42", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ROOM_NOT_FOUND", resp.Error.Code)
}

func TestHandleRoomExists(t *testing.T) {
	s, hub := newTestServer(t)
	hub.GetOrCreateSession("FRIDAY")

	_, resp := doRequest(t, s, http.MethodGet, "/api/rooms/FRIDAY/exists", "")
	require.True(t, resp.Success)
	assert.Equal(t, true, resp.Data.(map[string]interface{})["exists"])

	_, resp = doRequest(t, s, http.MethodGet, "/api/rooms/NOPE42/exists", "")
	require.True(t, resp.Success)
	assert.Equal(t, false, resp.Data.(map[string]interface{})["exists"])
}

func TestHandleHealthAndStats(t *testing.T) {
	s, hub := newTestServer(t)

	rec, resp := doRequest(t, s, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", resp.Data.(map[string]interface{})["status"])

	session := hub.GetOrCreateSession("FRIDAY")
	session.Join("p1", "Alice")
	session.Join("p2", "Bob")

	_, resp = doRequest(t, s, http.MethodGet, "/api/stats", "")
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(1), data["activeRooms"])
	assert.Equal(t, float64(2), data["totalPlayers"])
}
