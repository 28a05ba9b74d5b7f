package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/entangled/config"
	"github.com/lixenwraith/entangled/geometry"
	"github.com/lixenwraith/entangled/store"
)

// enclosedConfig plays on a single cell ringed by finish markers, so one placement ends the game
func enclosedConfig() config.Config {
	cfg := config.Default()
	cfg.Seed = 11
	cfg.Map = []string{"111", "121", "111"}
	cfg.Start = geometry.Cell{Row: 1, Col: 1}
	cfg.StartEntry = 0
	return cfg
}

func newTestServer(t *testing.T, withStore bool) (*Server, *httptest.Server) {
	t.Helper()
	var scores *store.Store
	if withStore {
		var err error
		scores, err = store.Open(filepath.Join(t.TempDir(), "scores.db"), zerolog.Nop())
		require.NoError(t, err)
		t.Cleanup(func() { scores.Close() })
	}
	s := New(enclosedConfig(), scores, zerolog.Nop())
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

type viewResponse struct {
	ID         string           `json:"id"`
	State      string           `json:"state"`
	Score      int              `json:"score"`
	Multiplier int              `json:"multiplier"`
	Placed     []any            `json:"placed"`
	Path       []geometry.Point `json:"path"`
	Layout     struct {
		SideLength       float64          `json:"side_length"`
		ConnectionPoints []geometry.Point `json:"connection_points"`
		HelperPoints     []geometry.Point `json:"helper_points"`
	} `json:"layout"`
}

func do(t *testing.T, method, url string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func createGame(t *testing.T, base string) viewResponse {
	t.Helper()
	var v viewResponse
	require.Equal(t, http.StatusCreated, do(t, http.MethodPost, base+"/games", &v))
	require.NotEmpty(t, v.ID)
	return v
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t, false)
	var body map[string]any
	assert.Equal(t, http.StatusOK, do(t, http.MethodGet, ts.URL+"/health", &body))
	assert.Equal(t, true, body["ok"])
}

func TestCreateAndPlay(t *testing.T) {
	_, ts := newTestServer(t, true)

	v := createGame(t, ts.URL)
	assert.Equal(t, "awaiting", v.State)
	assert.Len(t, v.Placed, 1)
	assert.Equal(t, 40.0, v.Layout.SideLength)

	var got viewResponse
	require.Equal(t, http.StatusOK, do(t, http.MethodGet, ts.URL+"/games/"+v.ID, &got))
	assert.Equal(t, v.ID, got.ID)

	var placed viewResponse
	require.Equal(t, http.StatusOK, do(t, http.MethodPost, ts.URL+"/games/"+v.ID+"/commands/place", &placed))
	assert.Equal(t, "finished", placed.State)
	assert.Equal(t, 1, placed.Score)
	assert.Len(t, placed.Path, 3)

	var scores []store.Result
	require.Equal(t, http.StatusOK, do(t, http.MethodGet, ts.URL+"/scores?limit=5", &scores))
	require.Len(t, scores, 1)
	assert.Equal(t, v.ID, scores[0].Session)
	assert.Equal(t, 1, scores[0].Score)
}

func TestCommandErrors(t *testing.T) {
	_, ts := newTestServer(t, false)
	v := createGame(t, ts.URL)

	assert.Equal(t, http.StatusBadRequest, do(t, http.MethodPost, ts.URL+"/games/"+v.ID+"/commands/fly", nil))
	assert.Equal(t, http.StatusBadRequest, do(t, http.MethodPost, ts.URL+"/games/"+v.ID+"/commands/hexagon-placed", nil))
	assert.Equal(t, http.StatusNotFound, do(t, http.MethodPost, ts.URL+"/games/nope/commands/place", nil))
	assert.Equal(t, http.StatusNotFound, do(t, http.MethodGet, ts.URL+"/games/nope", nil))
	assert.Equal(t, http.StatusNotFound, do(t, http.MethodGet, ts.URL+"/nothing", nil))
	assert.Equal(t, http.StatusBadRequest, do(t, http.MethodGet, ts.URL+"/scores?limit=x", nil))
}

func TestCommandRejectedInState(t *testing.T) {
	_, ts := newTestServer(t, false)
	v := createGame(t, ts.URL)
	commands := ts.URL + "/games/" + v.ID + "/commands/"

	assert.Equal(t, http.StatusConflict, do(t, http.MethodPost, commands+"init", nil))
	require.Equal(t, http.StatusOK, do(t, http.MethodPost, commands+"place", nil))

	for _, c := range []string{"place", "switch", "rotate-left"} {
		assert.Equal(t, http.StatusConflict, do(t, http.MethodPost, commands+c, nil), c)
	}

	var fresh viewResponse
	require.Equal(t, http.StatusOK, do(t, http.MethodPost, commands+"new-game", &fresh))
	assert.Equal(t, "awaiting", fresh.State)
	assert.Zero(t, fresh.Score)
}

func TestLayoutCarriesCurvePoints(t *testing.T) {
	_, ts := newTestServer(t, false)
	v := createGame(t, ts.URL)

	require.Len(t, v.Layout.ConnectionPoints, geometry.ConnectionPointCount)
	require.Len(t, v.Layout.HelperPoints, geometry.ConnectionPointCount)
	for i := range v.Layout.HelperPoints {
		assert.NotEqual(t, v.Layout.ConnectionPoints[i], v.Layout.HelperPoints[i], "point %d", i)
	}
}

func TestScoresWithoutStore(t *testing.T) {
	_, ts := newTestServer(t, false)
	var scores []store.Result
	require.Equal(t, http.StatusOK, do(t, http.MethodGet, ts.URL+"/scores", &scores))
	assert.Empty(t, scores)
}

func TestDeleteGame(t *testing.T) {
	s, ts := newTestServer(t, false)
	v := createGame(t, ts.URL)
	require.Equal(t, 1, s.sessions.len())

	assert.Equal(t, http.StatusNoContent, do(t, http.MethodDelete, ts.URL+"/games/"+v.ID, nil))
	assert.Equal(t, http.StatusNotFound, do(t, http.MethodGet, ts.URL+"/games/"+v.ID, nil))
	assert.Equal(t, http.StatusNotFound, do(t, http.MethodDelete, ts.URL+"/games/"+v.ID, nil))
	assert.Zero(t, s.sessions.len())
}

func dial(t *testing.T, ts *httptest.Server, id string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/games/" + id + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestEventStream(t *testing.T) {
	s, ts := newTestServer(t, false)
	v := createGame(t, ts.URL)
	conn := dial(t, ts, v.ID)

	first := read(t, conn)
	assert.Equal(t, "snapshot", first.Type)

	sess, err := s.sessions.get(v.ID)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return sess.relay.count() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteJSON(commandRequest{Command: "rotate-right"}))
	assert.Equal(t, "hexagon-rotated", read(t, conn).Type)

	require.NoError(t, conn.WriteJSON(commandRequest{Command: "jump"}))
	reply := read(t, conn)
	assert.Equal(t, "error", reply.Type)

	require.Equal(t, http.StatusOK, do(t, http.MethodPost, ts.URL+"/games/"+v.ID+"/commands/place", nil))

	var types []string
	for len(types) == 0 || types[len(types)-1] != "hexagon-placed" {
		msg := read(t, conn)
		types = append(types, msg.Type)
		if msg.Type == "increase-score" {
			assert.Equal(t, 1.0, msg.Payload)
		}
	}
	assert.Equal(t, []string{"increase-score", "score-changed", "game-finished", "hexagon-placed"}, types)
}

func TestEventStreamClosesWithGame(t *testing.T) {
	_, ts := newTestServer(t, false)
	v := createGame(t, ts.URL)
	conn := dial(t, ts, v.ID)
	assert.Equal(t, "snapshot", read(t, conn).Type)

	require.Equal(t, http.StatusNoContent, do(t, http.MethodDelete, ts.URL+"/games/"+v.ID, nil))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}

func TestRelayDropsSlowSubscriber(t *testing.T) {
	r := newRelay(zerolog.Nop())
	ch := r.subscribe()
	for i := 0; i < subscriberBuffer; i++ {
		ch <- Message{}
	}
	require.NoError(t, r.OnEvent(nil, eventFor("game-reset")))
	assert.Zero(t, r.count())

	_, open := <-ch
	assert.True(t, open)
	r.unsubscribe(ch)
}
