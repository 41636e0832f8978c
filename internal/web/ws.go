package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cory-johannsen/wisperwind/internal/gameerr"
)

const (
	wsWriteWait    = 10 * time.Second
	wsMaxFrameSize = 4096
)

// Websocket command types.
const (
	cmdMove         = "move"
	cmdCombatAction = "combat_action"
	cmdCraft        = "craft"
	msgWelcome      = "welcome"
	msgError        = "error"
)

type wsCommand struct {
	Type     string `json:"type"`
	X        *int   `json:"x"`
	Y        *int   `json:"y"`
	Action   string `json:"action"`
	RecipeID string `json:"recipe_id"`
}

type wsReply struct {
	Type  string     `json:"type"`
	OK    bool       `json:"ok"`
	Data  any        `json:"data,omitempty"`
	Error *errorBody `json:"error,omitempty"`
}

type welcomeData struct {
	Message   string `json:"message"`
	AccountID string `json:"accountId"`
}

// handleWebsocket authenticates the caller, upgrades, and serves commands
// until the client disconnects.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	accountID, err := s.resolver.ResolveAccount(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.String("account_id", accountID), zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsMaxFrameSize)

	s.logger.Info("websocket connected", zap.String("account_id", accountID))
	defer s.logger.Info("websocket disconnected", zap.String("account_id", accountID))

	if !s.send(conn, wsReply{Type: msgWelcome, OK: true, Data: welcomeData{
		Message:   "Welcome to Wisperwind Saga!",
		AccountID: accountID,
	}}) {
		return
	}

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("websocket read failed", zap.String("account_id", accountID), zap.Error(err))
			}
			return
		}
		var cmd wsCommand
		if err := json.Unmarshal(payload, &cmd); err != nil {
			bad := gameerr.ErrMalformedRequest.WithMessage("Command is not valid JSON.")
			if !s.send(conn, failure(msgError, bad)) {
				return
			}
			continue
		}
		if !s.send(conn, s.dispatch(r.Context(), accountID, cmd)) {
			return
		}
	}
}

// dispatch runs one command against the game service.
func (s *Server) dispatch(ctx context.Context, accountID string, cmd wsCommand) wsReply {
	var (
		data any
		err  error
	)
	switch cmd.Type {
	case cmdMove:
		if cmd.X == nil || cmd.Y == nil {
			return failure(cmd.Type, gameerr.ErrMalformedRequest.WithMessage("Both x and y are required."))
		}
		data, err = s.game.Move(ctx, accountID, *cmd.X, *cmd.Y)
	case cmdCombatAction:
		data, err = s.game.CombatAction(ctx, accountID, cmd.Action)
	case cmdCraft:
		if cmd.RecipeID == "" {
			return failure(cmd.Type, gameerr.ErrMalformedRequest.WithMessage("recipe_id is required."))
		}
		data, err = s.game.Craft(ctx, accountID, cmd.RecipeID)
	default:
		return failure(msgError, gameerr.ErrMalformedRequest.WithMessage("Unknown command type %q.", cmd.Type))
	}
	if err != nil {
		if gameerr.KindOf(err) == gameerr.KindPersistence {
			s.logger.Error("websocket command failed",
				zap.String("account_id", accountID),
				zap.String("type", cmd.Type),
				zap.Error(err),
			)
		}
		return failure(cmd.Type, err)
	}
	return wsReply{Type: cmd.Type, OK: true, Data: data}
}

func failure(typ string, err error) wsReply {
	body := newErrorBody(err)
	return wsReply{Type: typ, OK: false, Error: &body}
}

// send writes reply and reports whether the connection is still usable.
func (s *Server) send(conn *websocket.Conn, reply wsReply) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	if err := conn.WriteJSON(reply); err != nil {
		s.logger.Warn("websocket write failed", zap.Error(err))
		return false
	}
	return true
}
