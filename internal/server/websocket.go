package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// wsHub fans game updates out to the websocket connections watching each
// game. Delivery is best effort; polling the read model is the fallback.
type wsHub struct {
	mu     sync.Mutex
	groups map[uint]map[*websocket.Conn]struct{}
}

func newWSHub() *wsHub {
	return &wsHub{
		groups: make(map[uint]map[*websocket.Conn]struct{}),
	}
}

func (h *wsHub) Add(gameID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[gameID]
	if group == nil {
		group = make(map[*websocket.Conn]struct{})
		h.groups[gameID] = group
	}
	group[conn] = struct{}{}
}

func (h *wsHub) Remove(gameID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[gameID]
	if group == nil {
		return
	}
	delete(group, conn)
	_ = conn.Close()
	if len(group) == 0 {
		delete(h.groups, gameID)
	}
}

func (h *wsHub) Send(conn *websocket.Conn, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_ = conn.WriteMessage(websocket.TextMessage, data)
}

func (h *wsHub) Broadcast(gameID uint, payload any) {
	h.mu.Lock()
	group := h.groups[gameID]
	conns := make([]*websocket.Conn, 0, len(group))
	for conn := range group {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.Remove(gameID, conn)
		}
	}
}

func (s *Server) handleGameWebsocket(c *gin.Context) {
	gameID, ok := parseUintParam(c, "gameID")
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	if _, err := s.store.GetGame(gameID); err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	log.Printf("ws connected game_id=%d remote=%s", gameID, c.Request.RemoteAddr)
	s.ws.Add(gameID, conn)
	if state, err := s.GameState(gameID); err == nil {
		s.ws.Send(conn, state)
	}
	go s.readWS(gameID, conn)
}

func (s *Server) readWS(gameID uint, conn *websocket.Conn) {
	defer s.ws.Remove(gameID, conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			log.Printf("ws disconnected game_id=%d error=%v", gameID, err)
			return
		}
	}
}

// publishReveal pushes the card-revealed event and a fresh snapshot to the
// game's watchers after the reveal transaction has committed.
func (s *Server) publishReveal(gameID, playerID uint, cardID int, result *RevealResult) {
	if s.ws == nil {
		return
	}
	s.ws.Broadcast(gameID, map[string]any{
		"type":      "card-revealed",
		"game_id":   gameID,
		"card_id":   cardID,
		"player_id": playerID,
		"prize":     result.Prize,
		"timestamp": time.Now().UTC(),
	})
	s.broadcastGameUpdate(gameID)
}

func (s *Server) broadcastGameUpdate(gameID uint) {
	if s.ws == nil {
		return
	}
	state, err := s.GameState(gameID)
	if err != nil {
		return
	}
	s.ws.Broadcast(gameID, state)
}
