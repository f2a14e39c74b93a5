// internal/handlers/rooms.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/nashgetch/rg-ahaz-be-sub001/engine"
	"github.com/nashgetch/rg-ahaz-be-sub001/internal/auth"
	"github.com/nashgetch/rg-ahaz-be-sub001/internal/game"
	"github.com/nashgetch/rg-ahaz-be-sub001/internal/models"
	"github.com/sirupsen/logrus"
)

// OpenRoomRequest is the body of POST /rooms. Players are listed in seat
// order; Seed 0 picks a random deal.
type OpenRoomRequest struct {
	Code    string        `json:"code"`
	Players []models.User `json:"players"`
	Starter int           `json:"starter"`
	Seed    uint64        `json:"seed,omitempty"`
}

// OpenRoomResponse answers POST /rooms.
type OpenRoomResponse struct {
	RoomCode string      `json:"room_code"`
	RoomID   uuid.UUID   `json:"room_id"`
	Players  []uuid.UUID `json:"players"`
}

// Rooms serves the operator endpoints around the room manager.
type Rooms struct {
	Manager  *game.Manager
	Verifier *auth.Verifier
	Log      logrus.FieldLogger
}

func (h *Rooms) logger() logrus.FieldLogger {
	if h.Log == nil {
		return logrus.StandardLogger()
	}
	return h.Log
}

// Open handles POST /rooms: deals a round for the listed players.
func (h *Rooms) Open(w http.ResponseWriter, r *http.Request) {
	if _, err := authenticate(h.Verifier, r); err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req OpenRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}
	players := make([]*models.Player, len(req.Players))
	ids := make([]uuid.UUID, len(req.Players))
	for i := range req.Players {
		u := req.Players[i]
		if u.ID == uuid.Nil {
			writeError(w, http.StatusBadRequest, "player id is required")
			return
		}
		players[i] = &models.Player{ID: u.ID, User: &u}
		ids[i] = u.ID
	}

	room, err := h.Manager.Open(r.Context(), req.Code, players, req.Starter, req.Seed)
	var ce *engine.ConfigError
	switch {
	case errors.Is(err, game.ErrRoomExists):
		writeError(w, http.StatusConflict, "room already exists")
		return
	case errors.As(err, &ce):
		writeError(w, http.StatusBadRequest, ce.Detail)
		return
	case err != nil:
		h.logger().WithError(err).WithField("room", req.Code).Error("Failed to open room.")
		writeError(w, http.StatusInternalServerError, "could not open room")
		return
	}
	writeJSON(w, http.StatusCreated, OpenRoomResponse{RoomCode: room.Code, RoomID: room.ID, Players: ids})
}

// State handles GET /rooms/{code}: the caller's view of the room.
func (h *Rooms) State(w http.ResponseWriter, r *http.Request) {
	playerID, err := authenticate(h.Verifier, r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	room, err := h.Manager.Get(r.PathValue("code"))
	if err != nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	writeJSON(w, http.StatusOK, room.ViewFor(playerID))
}

// Playable handles GET /rooms/{code}/playable: the caller's legal cards.
func (h *Rooms) Playable(w http.ResponseWriter, r *http.Request) {
	playerID, err := authenticate(h.Verifier, r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	room, err := h.Manager.Get(r.PathValue("code"))
	if err != nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	writeJSON(w, http.StatusOK, room.PlayableCards(playerID))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// NewRouter mounts the room endpoints and the socket on one mux.
func NewRouter(rooms *Rooms, socket *RoomSocket) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /rooms", rooms.Open)
	mux.HandleFunc("GET /rooms/{code}", rooms.State)
	mux.HandleFunc("GET /rooms/{code}/playable", rooms.Playable)
	mux.Handle("GET /ws/{code}", socket)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return mux
}
