package web_test

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/wisperwind/internal/game/dice/dicetest"
)

type wsReply struct {
	Type  string          `json:"type"`
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *errorReply     `json:"error"`
}

func (h *harness) dial(t *testing.T, token string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	u, err := url.Parse(h.srv.URL)
	require.NoError(t, err)
	u.Scheme = strings.Replace(u.Scheme, "http", "ws", 1)
	u.Path = "/ws"
	if token != "" {
		u.RawQuery = url.Values{"token": {token}}.Encode()
	}
	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if conn != nil {
		t.Cleanup(func() {
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			_ = conn.Close()
		})
	}
	return conn, resp, err
}

func readReply(t *testing.T, conn *websocket.Conn) wsReply {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var r wsReply
	require.NoError(t, conn.ReadJSON(&r))
	return r
}

func TestWebsocket_RejectsMissingToken(t *testing.T) {
	h := newHarness(t, dicetest.NewScripted(), "")
	_, resp, err := h.dial(t, "")
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWebsocket_Commands(t *testing.T) {
	h := newHarness(t, dicetest.NewScripted(0.4, 0.5).WithInts(0), "")
	token := h.newPlayer(t, "aria")

	conn, resp, err := h.dial(t, token)
	require.NoError(t, err)
	defer resp.Body.Close()

	welcome := readReply(t, conn)
	assert.Equal(t, "welcome", welcome.Type)
	assert.True(t, welcome.OK)
	assert.Contains(t, string(welcome.Data), "Welcome to Wisperwind Saga!")

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "move", "x": 3, "y": 3}))
	r := readReply(t, conn)
	assert.Equal(t, "move", r.Type)
	assert.False(t, r.OK)
	require.NotNil(t, r.Error)
	assert.Equal(t, "invalid_move", r.Error.Code)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "move", "x": 2, "y": 1}))
	r = readReply(t, conn)
	require.True(t, r.OK, "%+v", r.Error)
	var move struct {
		Combat *struct {
			Monster struct {
				Name string `json:"name"`
			} `json:"monster"`
		} `json:"combat"`
	}
	require.NoError(t, json.Unmarshal(r.Data, &move))
	require.NotNil(t, move.Combat)
	assert.Equal(t, "Slime", move.Combat.Monster.Name)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "combat_action", "action": "attack"}))
	r = readReply(t, conn)
	require.True(t, r.OK, "%+v", r.Error)
	var round struct {
		Outcome string   `json:"outcome"`
		Log     []string `json:"log"`
	}
	require.NoError(t, json.Unmarshal(r.Data, &round))
	assert.Equal(t, "continue", round.Outcome)
	assert.Equal(t, "You attack Slime for 7 damage.", round.Log[0])

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "craft", "recipe_id": "tonic"}))
	r = readReply(t, conn)
	assert.Equal(t, "craft", r.Type)
	require.NotNil(t, r.Error)
	assert.Equal(t, "insufficient_ingredients", r.Error.Code)
}

func TestWebsocket_BadCommands(t *testing.T) {
	h := newHarness(t, dicetest.NewScripted(), "")
	token := h.newPlayer(t, "aria")

	conn, resp, err := h.dial(t, token)
	require.NoError(t, err)
	defer resp.Body.Close()
	_ = readReply(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{oops")))
	r := readReply(t, conn)
	assert.Equal(t, "error", r.Type)
	require.NotNil(t, r.Error)
	assert.Equal(t, "malformed_request", r.Error.Code)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "dance"}))
	r = readReply(t, conn)
	assert.False(t, r.OK)
	assert.Equal(t, "malformed_request", r.Error.Code)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "combat_action", "action": "attack"}))
	r = readReply(t, conn)
	assert.Equal(t, "no_active_combat", r.Error.Code)
}
