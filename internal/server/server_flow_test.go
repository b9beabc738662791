package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
)

func doRequest(t *testing.T, ts *httptest.Server, method, path, token string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() {
		_ = resp.Body.Close()
	})
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func loginAdmin(t *testing.T, ts *httptest.Server, username string) string {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/admin/login", "", map[string]string{
		"username": username,
		"password": testAdminPassword,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	token, ok := body["token"].(string)
	if !ok || token == "" {
		t.Fatalf("expected a token, got %#v", body["token"])
	}
	return token
}

func TestAdminLoginRejectsBadPassword(t *testing.T) {
	srv := newTestServer(t)
	createTestAdmin(t, srv, "flow_badpass")
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	resp := doRequest(t, ts, http.MethodPost, "/api/admin/login", "", map[string]string{
		"username": "flow_badpass",
		"password": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, resp.StatusCode)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	resp := doRequest(t, ts, http.MethodGet, "/api/admin/games", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, resp.StatusCode)
	}
	resp = doRequest(t, ts, http.MethodGet, "/api/admin/games", "bogus-token", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status %d for a bogus token, got %d", http.StatusUnauthorized, resp.StatusCode)
	}
}

func TestFullGameFlow(t *testing.T) {
	srv := newTestServer(t)
	createTestAdmin(t, srv, "flow_admin")
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	token := loginAdmin(t, ts, "flow_admin")

	resp := doRequest(t, ts, http.MethodPost, "/api/admin/games", token, map[string]any{
		"name":        "Friday Raffle",
		"grid_size":   3,
		"max_players": 5,
		"prizes": []map[string]any{
			{"kind": "word", "word": "Grand Prize", "value": 900, "position": 4},
		},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create game: expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	created := decodeBody(t, resp)
	gameID := int(created["id"].(float64))
	gameCode := created["game_code"].(string)
	if len(gameCode) != gameCodeLength {
		t.Fatalf("expected a %d-char game code, got %q", gameCodeLength, gameCode)
	}

	playerIDs := make([]uint, 0, 2)
	for i := 0; i < 2; i++ {
		resp = doRequest(t, ts, http.MethodPost, "/api/players/join-game", "", map[string]string{
			"game_code": gameCode,
			"name":      fmt.Sprintf("Flow Player %d", i),
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("join-game: expected status %d, got %d", http.StatusCreated, resp.StatusCode)
		}
		body := decodeBody(t, resp)
		player := body["player"].(map[string]any)
		playerIDs = append(playerIDs, uint(player["id"].(float64)))
		if player["player_code"].(string) == "" {
			t.Fatal("expected a player code")
		}
	}

	resp = doRequest(t, ts, http.MethodPut, fmt.Sprintf("/api/admin/games/%d/start", gameID), token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	startBody := decodeBody(t, resp)
	turn := startBody["turn"].(map[string]any)
	rawOrder := turn["turn_order"].([]any)
	order := make([]uint, 0, len(rawOrder))
	for _, id := range rawOrder {
		order = append(order, uint(id.(float64)))
	}
	if len(order) != 2 {
		t.Fatalf("expected 2 players in the turn order, got %v", order)
	}

	// out-of-turn reveal is a conflict
	resp = doRequest(t, ts, http.MethodPost, "/api/players/reveal-card", "", map[string]any{
		"game_id":   gameID,
		"player_id": order[1],
		"card_id":   0,
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("out-of-turn reveal: expected status %d, got %d", http.StatusConflict, resp.StatusCode)
	}

	// the current player wins on the prize cell
	resp = doRequest(t, ts, http.MethodPost, "/api/players/reveal-card", "", map[string]any{
		"game_id":   gameID,
		"player_id": order[0],
		"card_id":   4,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reveal: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	revealBody := decodeBody(t, resp)
	if revealBody["is_winner"] != true {
		t.Fatalf("expected a winning reveal, got %#v", revealBody)
	}
	prize := revealBody["prize"].(map[string]any)
	content := prize["content"].(map[string]any)
	if content["word"] != "Grand Prize" {
		t.Fatalf("expected revealed prize content, got %#v", content)
	}

	resp = doRequest(t, ts, http.MethodGet, fmt.Sprintf("/api/players/game-state/%d", gameID), "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("game-state: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	state := decodeBody(t, resp)
	gameInfo := state["game"].(map[string]any)
	if gameInfo["status"] != "completed" {
		t.Fatalf("expected completed game, got %v", gameInfo["status"])
	}

	resp = doRequest(t, ts, http.MethodGet, fmt.Sprintf("/api/admin/games/%d/events", gameID), token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("events: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	events := decodeBody(t, resp)["events"].([]any)
	if len(events) == 0 {
		t.Fatal("expected audit events")
	}
}

func TestGameStateNotFound(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	resp := doRequest(t, ts, http.MethodGet, "/api/players/game-state/9999", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestHomePage(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	resp := doRequest(t, ts, http.MethodGet, "/", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
}

func TestWebsocketDeliversInitialState(t *testing.T) {
	srv := newTestServer(t)
	admin := createTestAdmin(t, srv, "ws_admin")
	game, _ := startedGame(t, srv, admin.ID, 3, 2, 4)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + fmt.Sprintf("/ws/games/%d", game.ID)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})

	var state map[string]any
	if err := conn.ReadJSON(&state); err != nil {
		t.Fatalf("read initial state: %v", err)
	}
	if _, ok := state["game"]; !ok {
		t.Fatalf("expected a game snapshot, got %v", state)
	}
}

func TestBulkDeleteEndpointReportsBlockers(t *testing.T) {
	srv := newTestServer(t)
	admin := createTestAdmin(t, srv, "bulk_http_admin")
	active, _ := startedGame(t, srv, admin.ID, 3, 2, 4)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	token := loginAdmin(t, ts, "bulk_http_admin")
	resp := doRequest(t, ts, http.MethodDelete, "/api/admin/games", token, map[string]any{
		"game_ids": []uint{active.ID},
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	blockers := body["active_game_ids"].([]any)
	if len(blockers) != 1 || uint(blockers[0].(float64)) != active.ID {
		t.Fatalf("expected blocking id %d, got %v", active.ID, blockers)
	}
}
