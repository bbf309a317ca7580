package channel

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// AdminHub fans registry change notifications out to connected admin views.
// Best-effort: a view that cannot be written to is dropped.
type AdminHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func NewAdminHub() *AdminHub {
	return &AdminHub{clients: make(map[*websocket.Conn]bool)}
}

type adminEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Handler upgrades an admin view connection and parks it in the hub.
func (h *AdminHub) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Error().Err(err).Msg("admin websocket upgrade failed")
			return
		}
		h.mu.Lock()
		h.clients[conn] = true
		h.mu.Unlock()

		// Reads are discarded; the feed is one-way. A read error means the
		// view went away.
		go func() {
			defer h.drop(conn)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}

func (h *AdminHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

// Broadcast sends an event to every connected admin view.
func (h *AdminHub) Broadcast(event string, data any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteJSON(adminEvent{Event: event, Data: data}); err != nil {
			delete(h.clients, conn)
			_ = conn.Close()
		}
	}
}
