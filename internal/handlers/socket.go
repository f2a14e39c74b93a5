// internal/handlers/socket.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/nashgetch/rg-ahaz-be-sub001/internal/auth"
	"github.com/nashgetch/rg-ahaz-be-sub001/internal/game"
	"github.com/nashgetch/rg-ahaz-be-sub001/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	writeTimeout = 5 * time.Second
	pingInterval = 15 * time.Second
)

// Frame types written by the server next to room events.
const (
	FrameMoveResult = "move_result"
	FrameError      = "error"
)

// Error codes carried by error frames.
const (
	ErrCodeBadRequest  = "bad_request"
	ErrCodeRoomHalted  = "room_halted"
	ErrCodeNotSeated   = "not_seated"
	ErrCodeUnavailable = "unavailable"
)

// Frame answers a move request on the socket.
type Frame struct {
	Type     string               `json:"type"`
	Response *models.MoveResponse `json:"response,omitempty"`
	Error    string               `json:"error,omitempty"`
}

// RoomSocket serves GET /ws/{code}: an authenticated player of the room
// submits moves as JSON MoveRequest frames and receives room events, their
// private state and a Frame per request.
type RoomSocket struct {
	Manager  *game.Manager
	Hub      *Hub
	Verifier *auth.Verifier
	// ExposeAudit keeps audit reports in move results.
	ExposeAudit bool
	// OriginPatterns are the cross-origin hosts allowed to connect.
	OriginPatterns []string
	Log            logrus.FieldLogger
}

// authenticate resolves the player from the token query parameter or the
// Authorization header.
func authenticate(v *auth.Verifier, r *http.Request) (uuid.UUID, error) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = auth.TokenFromHeader(r.Header.Get("Authorization"))
	}
	if token == "" {
		return uuid.Nil, auth.ErrMissingToken
	}
	return v.Verify(token)
}

func (s *RoomSocket) logger() logrus.FieldLogger {
	if s.Log == nil {
		return logrus.StandardLogger()
	}
	return s.Log
}

func (s *RoomSocket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	playerID, err := authenticate(s.Verifier, r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	room, err := s.Manager.Get(code)
	if err != nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	if _, ok := room.Seat(playerID); !ok {
		http.Error(w, "not seated in this room", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: s.OriginPatterns})
	if err != nil {
		s.logger().WithError(err).WithField("room", code).Warn("WebSocket accept failed.")
		return
	}
	log := s.logger().WithFields(logrus.Fields{"room": code, "player": playerID})
	log.Info("Player connected.")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	c := s.Hub.register(code, playerID)
	go writeLoop(ctx, conn, c.send, log)

	room.SetConnected(playerID, true)
	room.SendSyncState(playerID)

	s.readLoop(ctx, conn, room, code, playerID, log)

	if s.Hub.unregister(code, c) {
		room.SetConnected(playerID, false)
	}
	log.Info("Player disconnected.")
}

// readLoop handles move requests until the connection fails.
func (s *RoomSocket) readLoop(ctx context.Context, conn *websocket.Conn, room *game.Room, code string, playerID uuid.UUID, log *logrus.Entry) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
				log.WithError(err).Debug("Read failed.")
			}
			return
		}
		var req models.MoveRequest
		if err := json.Unmarshal(data, &req); err != nil {
			s.reply(code, playerID, Frame{Type: FrameError, Error: ErrCodeBadRequest})
			continue
		}
		// The connection decides who acts and where.
		req.RoomCode = code
		req.ActingPlayerID = playerID

		resp, err := room.HandleMove(ctx, req)
		if err != nil {
			log.WithError(err).Warn("Move failed.")
			s.reply(code, playerID, Frame{Type: FrameError, Error: errorCode(err)})
			continue
		}
		if !s.ExposeAudit {
			resp.AuditReport = nil
		}
		s.reply(code, playerID, Frame{Type: FrameMoveResult, Response: &resp})
	}
}

func (s *RoomSocket) reply(code string, playerID uuid.UUID, f Frame) {
	b, err := json.Marshal(f)
	if err != nil {
		s.logger().WithError(err).Error("Failed to encode frame.")
		return
	}
	s.Hub.sendRaw(code, playerID, b)
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrRoomHalted):
		return ErrCodeRoomHalted
	case errors.Is(err, game.ErrPlayerNotSeated):
		return ErrCodeNotSeated
	default:
		return ErrCodeUnavailable
	}
}

// writeLoop is the only writer of conn. It closes the connection when send
// is closed or ctx ends.
func writeLoop(ctx context.Context, conn *websocket.Conn, send <-chan []byte, log *logrus.Entry) {
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()
	for {
		select {
		case msg, ok := <-send:
			if !ok {
				_ = conn.Close(websocket.StatusNormalClosure, "closing")
				return
			}
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := conn.Write(wctx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				log.WithError(err).Debug("Write failed.")
				_ = conn.Close(websocket.StatusInternalError, "write failed")
				return
			}
		case <-ping.C:
			pctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := conn.Ping(pctx)
			cancel()
			if err != nil {
				log.WithError(err).Debug("Ping failed.")
				_ = conn.Close(websocket.StatusGoingAway, "ping timeout")
				return
			}
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "")
			return
		}
	}
}
