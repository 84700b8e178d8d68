package api

import (
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"go-mythos/internal/objective"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WebSocket connection wrapper with mutex for thread-safe writes
type safeWSConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *safeWSConn) WriteJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(v)
}

func (s *safeWSConn) Close() error {
	return s.conn.Close()
}

// EventHub fans objective events out to websocket clients. A slow or
// dead client is dropped, never allowed to stall the bus.
type EventHub struct {
	mu      sync.Mutex
	clients map[*safeWSConn]bool
}

func NewEventHub() *EventHub {
	return &EventHub{clients: make(map[*safeWSConn]bool)}
}

// Attach subscribes the hub to every event on the bus.
func (h *EventHub) Attach(bus *objective.EventBus) {
	bus.Subscribe("*", func(ev objective.BusEvent) {
		h.Broadcast(ev)
	})
}

func (h *EventHub) Broadcast(ev objective.BusEvent) {
	h.mu.Lock()
	conns := make([]*safeWSConn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(ev); err != nil {
			h.remove(conn)
		}
	}
}

func (h *EventHub) add(conn *safeWSConn) {
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
}

func (h *EventHub) remove(conn *safeWSConn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// ClientCount reports connected stream clients.
func (h *EventHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// GET /ws/events
// Streams every objective event as JSON until the client disconnects.
// Replays the recent ring first so a reconnecting UI catches up.
func (s *Server) EventStreamHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		rawConn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Println("WebSocket upgrade failed:", err)
			return
		}
		conn := &safeWSConn{conn: rawConn}

		for _, ev := range s.manager.Bus().Recent() {
			if err := conn.WriteJSON(ev); err != nil {
				conn.Close()
				return
			}
		}
		s.hub.add(conn)

		// reads are only used to detect disconnect
		go func() {
			for {
				if _, _, err := rawConn.ReadMessage(); err != nil {
					s.hub.remove(conn)
					return
				}
			}
		}()
	}
}
