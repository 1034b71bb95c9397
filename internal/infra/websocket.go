package infra

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// WSHub manages WebSocket connections and game-room message delivery. Each
// game gets its own room ("game:{id}"); enrolled clients join it to receive
// turn and settlement events. The upgrade handler is not wired yet, clients
// currently poll the state endpoint.
type WSHub struct {
	mu     sync.RWMutex
	rooms  map[string]map[string]*WSConn // room -> connID -> conn
	logger *slog.Logger
}

// WSConn represents a WebSocket connection (abstracted for testability).
type WSConn struct {
	ID     string
	UserID string
	Send   chan []byte
}

// WSMessage is the payload sent over WebSocket.
type WSMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// NewWSHub creates a new WebSocket hub.
func NewWSHub(logger *slog.Logger) *WSHub {
	return &WSHub{
		rooms:  make(map[string]map[string]*WSConn),
		logger: logger,
	}
}

// Join adds a connection to a room.
func (h *WSHub) Join(room string, conn *WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[string]*WSConn)
	}
	h.rooms[room][conn.ID] = conn
}

// Leave removes a connection from a room.
func (h *WSHub) Leave(room string, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[room]; ok {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Publish sends a game event to every connection in the game's room. It
// satisfies the game service's notifier interface.
func (h *WSHub) Publish(gameID uuid.UUID, event string, data any) {
	h.publishRoom(GameRoom(gameID), event, data)
}

// GameRoom returns the room key for a game.
func GameRoom(gameID uuid.UUID) string {
	return "game:" + gameID.String()
}

func (h *WSHub) publishRoom(room string, event string, data any) {
	msg := WSMessage{Event: event, Data: data}
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("ws marshal error", "error", err, "room", room, "event", event)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	conns, ok := h.rooms[room]
	if !ok {
		return
	}

	for _, conn := range conns {
		select {
		case conn.Send <- payload:
		default:
			h.logger.Warn("ws send buffer full", "connID", conn.ID, "room", room)
		}
	}
}

// ConnectionCount returns the total number of active connections.
func (h *WSHub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	count := 0
	for _, conns := range h.rooms {
		count += len(conns)
	}
	return count
}

// Shutdown closes all connections gracefully.
func (h *WSHub) Shutdown(_ context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room, conns := range h.rooms {
		for _, conn := range conns {
			close(conn.Send)
		}
		delete(h.rooms, room)
	}
}
