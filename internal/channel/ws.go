// Package channel carries the push-oriented real-time link between the
// controller and its screens: a websocket gateway, an optional MQTT bridge
// for constrained players, and the admin event feed.
package channel

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/lumen-signage/lumen/internal/model"
	"github.com/lumen-signage/lumen/internal/redis"
	"github.com/lumen-signage/lumen/internal/registry"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ScreenStore is the slice of the durable store the gateway writes on
// registration and heartbeat traffic.
type ScreenStore interface {
	UpsertScreen(id string, fields model.ScreenFields) (model.Screen, error)
	TouchScreen(id string, ts time.Time) error
}

// Gateway accepts screen websocket connections, runs the registration
// handshake, and reflects connect/disconnect into the registry and store.
type Gateway struct {
	reg   *registry.Registry
	store ScreenStore
	admin *AdminHub
}

func NewGateway(reg *registry.Registry, store ScreenStore, admin *AdminHub) *Gateway {
	return &Gateway{reg: reg, store: store, admin: admin}
}

// wsConn adapts a gorilla websocket to registry.Conn. gorilla permits one
// concurrent writer, so sends serialize on a mutex.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsConn) Send(env model.Envelope) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteJSON(env)
}

func (w *wsConn) Close()       { _ = w.conn.Close() }
func (w *wsConn) Kind() string { return "websocket" }

// Handler upgrades a screen connection. The first frame must be a register
// message; everything after that is heartbeat / mode-change traffic until
// the transport drops.
func (g *Gateway) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sock, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Error().Err(err).Msg("screen websocket upgrade failed")
			return
		}

		var reg InboundMessage
		if err := sock.ReadJSON(&reg); err != nil || reg.Type != "register" || reg.ScreenID == "" {
			log.Error().Err(err).Msg("screen connection dropped before registration")
			_ = sock.Close()
			return
		}

		conn := &wsConn{conn: sock}
		g.handleRegister(reg, conn)
		go g.readPump(reg.ScreenID, conn)
	}
}

func (g *Gateway) handleRegister(msg InboundMessage, conn registry.Conn) {
	now := time.Now()
	name := msg.Name
	fields := model.ScreenFields{LastSeen: &now}
	if name != "" {
		fields.Name = &name
	}
	if _, err := g.store.UpsertScreen(msg.ScreenID, fields); err != nil {
		log.Error().Err(err).Str("screen_id", msg.ScreenID).Msg("failed to upsert screen on register")
	}
	g.reg.Register(msg.ScreenID, conn)
	g.admin.Broadcast(EventScreensUpdate, gin.H{"screen_id": msg.ScreenID, "online": true})
}

func (g *Gateway) readPump(screenID string, conn *wsConn) {
	defer func() {
		conn.Close()
		if g.reg.Unregister(screenID, conn) {
			now := time.Now()
			_ = g.store.TouchScreen(screenID, now)
			g.admin.Broadcast(EventScreensUpdate, gin.H{"screen_id": screenID, "online": false})
		}
	}()

	for {
		var msg InboundMessage
		if err := conn.conn.ReadJSON(&msg); err != nil {
			return
		}
		g.handleInbound(screenID, msg)
	}
}

// handleInbound processes post-registration frames from one screen.
func (g *Gateway) handleInbound(screenID string, msg InboundMessage) {
	switch msg.Type {
	case "heartbeat":
		now := time.Now()
		redis.SetLastSeen(context.Background(), screenID, now)
		if err := g.store.TouchScreen(screenID, now); err != nil {
			log.Error().Err(err).Str("screen_id", screenID).Msg("heartbeat touch failed")
		}
	case "mode-change":
		g.admin.Broadcast(EventScreensModeUpdate, gin.H{"screen_id": screenID, "mode": msg.Mode})
	case "register":
		// A re-register on a live connection just refreshes last-seen.
		now := time.Now()
		_ = g.store.TouchScreen(screenID, now)
	default:
		log.Warn().Str("screen_id", screenID).Str("type", msg.Type).Msg("unknown inbound message type")
	}
}
