// internal/handlers/handlers_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/nashgetch/rg-ahaz-be-sub001/engine"
	"github.com/nashgetch/rg-ahaz-be-sub001/internal/auth"
	"github.com/nashgetch/rg-ahaz-be-sub001/internal/game"
	"github.com/nashgetch/rg-ahaz-be-sub001/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	srv      *httptest.Server
	verifier *auth.Verifier
	manager  *game.Manager
	hub      *Hub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	hub := NewHub(logger)
	manager := game.NewManager(engine.DefaultHouseRules(), game.RoomDeps{Logger: logger}, hub)
	verifier := auth.NewVerifier([]byte("test-secret"), "crazy")
	router := NewRouter(
		&Rooms{Manager: manager, Verifier: verifier, Log: logger},
		&RoomSocket{Manager: manager, Hub: hub, Verifier: verifier, Log: logger},
	)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testServer{srv: srv, verifier: verifier, manager: manager, hub: hub}
}

func (ts *testServer) token(t *testing.T, id uuid.UUID) string {
	t.Helper()
	tok, err := ts.verifier.Issue(id, time.Hour)
	require.NoError(t, err)
	return tok
}

func (ts *testServer) openRoom(t *testing.T, code string, players ...uuid.UUID) *http.Response {
	t.Helper()
	req := OpenRoomRequest{Code: code, Seed: 11}
	for i, id := range players {
		req.Players = append(req.Players, models.User{ID: id, Username: string(rune('a' + i))})
	}
	body, err := json.Marshal(req)
	require.NoError(t, err)
	httpReq, err := http.NewRequest(http.MethodPost, ts.srv.URL+"/rooms", bytes.NewReader(body))
	require.NoError(t, err)
	httpReq.Header.Set("Authorization", "Bearer "+ts.token(t, uuid.New()))
	resp, err := http.DefaultClient.Do(httpReq)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (ts *testServer) dial(ctx context.Context, t *testing.T, code string, id uuid.UUID) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	return websocket.Dial(ctx, ts.srv.URL+"/ws/"+code+"?token="+ts.token(t, id), nil)
}

// frame is the union of everything the socket writes.
type frame struct {
	Type     string               `json:"type"`
	Response *models.MoveResponse `json:"response"`
	Error    string               `json:"error"`
	State    *models.StateView    `json:"state"`
	RoomCode string               `json:"roomCode"`
}

func readUntil(ctx context.Context, t *testing.T, conn *websocket.Conn, typ string) frame {
	t.Helper()
	for {
		_, data, err := conn.Read(ctx)
		require.NoError(t, err)
		var f frame
		require.NoError(t, json.Unmarshal(data, &f))
		if f.Type == typ {
			return f
		}
	}
}

func TestOpenRoom(t *testing.T) {
	ts := newTestServer(t)
	a, b := uuid.New(), uuid.New()

	resp := ts.openRoom(t, "R1", a, b)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out OpenRoomResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "R1", out.RoomCode)
	assert.Equal(t, []uuid.UUID{a, b}, out.Players)

	room, err := ts.manager.Get("R1")
	require.NoError(t, err)
	assert.Equal(t, out.RoomID, room.ID)

	assert.Equal(t, http.StatusConflict, ts.openRoom(t, "R1", a, b).StatusCode)
	assert.Equal(t, http.StatusBadRequest, ts.openRoom(t, "R2", a).StatusCode)
	assert.Equal(t, http.StatusBadRequest, ts.openRoom(t, "", a, b).StatusCode)
}

func TestOpenRoomRequiresToken(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Post(ts.srv.URL+"/rooms", "application/json", bytes.NewReader([]byte(`{}`)))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRoomStateShowsOwnHand(t *testing.T) {
	ts := newTestServer(t)
	a, b := uuid.New(), uuid.New()
	require.Equal(t, http.StatusCreated, ts.openRoom(t, "R1", a, b).StatusCode)

	req, err := http.NewRequest(http.MethodGet, ts.srv.URL+"/rooms/R1", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+ts.token(t, b))
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view models.StateView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	assert.Equal(t, a, view.CurrentPlayerID)
	assert.Empty(t, view.Players[0].Hand)
	assert.Len(t, view.Players[1].Hand, 5)
	assert.Equal(t, 6, view.Players[0].HandSize)
}

func TestSocketRejectsBadCallers(t *testing.T) {
	ts := newTestServer(t)
	a, b := uuid.New(), uuid.New()
	require.Equal(t, http.StatusCreated, ts.openRoom(t, "R1", a, b).StatusCode)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, resp, err := websocket.Dial(ctx, ts.srv.URL+"/ws/R1?token=garbage", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = ts.dial(ctx, t, "R1", uuid.New())
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	_, resp, err = ts.dial(ctx, t, "NOPE", a)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSocketMoveRoundTrip(t *testing.T) {
	ts := newTestServer(t)
	a, b := uuid.New(), uuid.New()
	require.Equal(t, http.StatusCreated, ts.openRoom(t, "R1", a, b).StatusCode)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA, _, err := ts.dial(ctx, t, "R1", a)
	require.NoError(t, err)
	defer connA.CloseNow()
	connB, _, err := ts.dial(ctx, t, "R1", b)
	require.NoError(t, err)
	defer connB.CloseNow()

	synced := readUntil(ctx, t, connA, string(game.EventPrivateSyncState))
	require.NotNil(t, synced.State)
	assert.Len(t, synced.State.Players[0].Hand, 6)
	readUntil(ctx, t, connB, string(game.EventPrivateSyncState))
	assert.Eventually(t, func() bool { return ts.hub.Connected("R1") == 2 }, time.Second, 10*time.Millisecond)

	// Out of turn: refused, and the acting player cannot be spoofed.
	msg, err := json.Marshal(models.MoveRequest{ActingPlayerID: a, Kind: "draw"})
	require.NoError(t, err)
	require.NoError(t, connB.Write(ctx, websocket.MessageText, msg))
	res := readUntil(ctx, t, connB, FrameMoveResult)
	require.NotNil(t, res.Response)
	assert.False(t, res.Response.Accepted)
	assert.Equal(t, string(engine.ReasonNotYourTurn), res.Response.Reason)

	msg, err = json.Marshal(models.MoveRequest{Kind: "draw"})
	require.NoError(t, err)
	require.NoError(t, connA.Write(ctx, websocket.MessageText, msg))
	res = readUntil(ctx, t, connA, FrameMoveResult)
	require.NotNil(t, res.Response)
	assert.True(t, res.Response.Accepted)
	assert.Nil(t, res.Response.AuditReport)
	require.NotNil(t, res.Response.NewState)
	assert.Equal(t, b, res.Response.NewState.CurrentPlayerID)
	assert.Len(t, res.Response.NewState.Players[0].Hand, 7)

	turn := readUntil(ctx, t, connB, string(engine.EventTurnAdvanced))
	assert.Equal(t, "R1", turn.RoomCode)

	require.NoError(t, connA.Write(ctx, websocket.MessageText, []byte("not json")))
	bad := readUntil(ctx, t, connA, FrameError)
	assert.Equal(t, ErrCodeBadRequest, bad.Error)
}

func TestSocketDisconnectMarksPlayer(t *testing.T) {
	ts := newTestServer(t)
	a, b := uuid.New(), uuid.New()
	require.Equal(t, http.StatusCreated, ts.openRoom(t, "R1", a, b).StatusCode)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := ts.dial(ctx, t, "R1", a)
	require.NoError(t, err)
	readUntil(ctx, t, conn, string(game.EventPrivateSyncState))

	room, err := ts.manager.Get("R1")
	require.NoError(t, err)
	assert.True(t, room.ViewFor(a).Players[0].Connected)

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, "bye"))
	assert.Eventually(t, func() bool {
		return !room.ViewFor(a).Players[0].Connected && ts.hub.Connected("R1") == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeRoomHalted, errorCode(game.ErrRoomHalted))
	assert.Equal(t, ErrCodeNotSeated, errorCode(game.ErrPlayerNotSeated))
	assert.Equal(t, ErrCodeUnavailable, errorCode(io.EOF))
}
