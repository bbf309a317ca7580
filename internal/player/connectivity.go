package player

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/lumen-signage/lumen/internal/model"
)

const (
	heartbeatInterval = 30 * time.Second
	reconnectBackoff  = 5 * time.Second
)

// RenderState is the locally-held "what to render" state, fully reactive to
// inbound payloads.
type RenderState struct {
	mu       sync.Mutex
	content  *model.ContentPayload
	alert    *model.ContentPayload
	alertGen int
	playlist string
}

// Snapshot returns the current content, alert, and playlist id.
func (r *RenderState) Snapshot() (content, alert *model.ContentPayload, playlistID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.content, r.alert, r.playlist
}

// Client is the connectivity layer: it registers the screen identity on
// connect, heartbeats on a fixed interval, and routes inbound payloads. It
// runs independently of the mode state machine.
type Client struct {
	serverURL string
	screenID  string
	name      string

	session   *Session // nil for kiosk screens
	engine    *Engine
	renderers *RendererRegistry
	state     RenderState

	writeMu sync.Mutex
	conn    *websocket.Conn

	// restart performs the full process restart demanded by a reload
	// payload. Overridable in tests.
	restart func()
}

func NewClient(serverURL, screenID, name string, session *Session, engine *Engine, renderers *RendererRegistry) *Client {
	return &Client{
		serverURL: serverURL,
		screenID:  screenID,
		name:      name,
		session:   session,
		engine:    engine,
		renderers: renderers,
		restart: func() {
			log.Info().Msg("reload requested, exiting for supervisor restart")
			os.Exit(0)
		},
	}
}

// Run dials the controller and keeps the connection alive until ctx is
// cancelled, reconnecting with a fixed backoff.
func (c *Client) Run(ctx context.Context) {
	for {
		if err := c.connectOnce(ctx); err != nil {
			log.Error().Err(err).Msg("connection to controller lost")
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectBackoff):
		}
	}
}

func (c *Client) connectOnce(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.serverURL, nil)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	c.conn = conn
	c.writeMu.Unlock()
	defer func() {
		_ = conn.Close()
		c.writeMu.Lock()
		c.conn = nil
		c.writeMu.Unlock()
	}()

	if err := c.send(map[string]string{
		"type":     "register",
		"screenId": c.screenID,
		"name":     c.name,
		"kind":     "player",
	}); err != nil {
		return err
	}
	log.Info().Str("screen_id", c.screenID).Msg("registered with controller")

	hbCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go c.heartbeatLoop(hbCtx)

	// ReadJSON does not observe ctx; closing the conn unblocks it on
	// shutdown.
	go func() {
		<-hbCtx.Done()
		_ = conn.Close()
	}()

	for {
		var env model.Envelope
		if err := conn.ReadJSON(&env); err != nil {
			return err
		}
		c.handleEnvelope(env)
	}
}

// heartbeatLoop refreshes last-seen only; it carries no state decisions.
func (c *Client) heartbeatLoop(ctx context.Context) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.send(map[string]string{"type": "heartbeat"}); err != nil {
				return
			}
		}
	}
}

func (c *Client) send(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.conn == nil {
		return websocket.ErrCloseSent
	}
	return c.conn.WriteJSON(v)
}

// NoteModeChange emits the informational mode-change frame; wired as the
// session's ModeChanged effect.
func (c *Client) NoteModeChange(mode string) {
	if err := c.send(map[string]string{"type": "mode-change", "mode": mode}); err != nil {
		log.Debug().Err(err).Msg("could not report mode change")
	}
}

func (c *Client) handleEnvelope(env model.Envelope) {
	switch env.Kind {
	case "set-mode":
		if c.session != nil {
			c.session.ForceMode(env.Mode)
		}
	case "content":
		if env.Payload != nil {
			c.handlePayload(*env.Payload)
		}
	default:
		log.Warn().Str("kind", env.Kind).Msg("unknown envelope kind")
	}
}

// handlePayload updates the locally-held render state per payload type.
func (c *Client) handlePayload(p model.ContentPayload) {
	log.Info().Str("type", p.Type).Str("source", p.Source).Msg("content payload received")

	switch p.Type {
	case model.PayloadClear:
		c.state.mu.Lock()
		c.state.content = nil
		c.state.alert = nil
		c.state.alertGen++
		c.state.playlist = ""
		c.state.mu.Unlock()
		c.engine.Stop()

	case model.PayloadAlert:
		c.state.mu.Lock()
		c.state.alert = &p
		c.state.alertGen++
		gen := c.state.alertGen
		c.state.mu.Unlock()
		// Alerts overlay whatever is rendered and may self-expire.
		if p.DurationMs > 0 {
			time.AfterFunc(time.Duration(p.DurationMs)*time.Millisecond, func() {
				c.state.mu.Lock()
				defer c.state.mu.Unlock()
				if c.state.alertGen == gen {
					c.state.alert = nil
				}
			})
		}

	case model.PayloadPlaylist:
		var playlist model.Playlist
		if err := json.Unmarshal(p.Content, &playlist); err != nil {
			log.Error().Err(err).Msg("malformed playlist payload")
			return
		}
		c.state.mu.Lock()
		c.state.playlist = playlist.ID
		c.state.content = nil
		c.state.mu.Unlock()
		c.engine.Load(playlist)

	case model.PayloadReload:
		c.restart()
		return

	default:
		// url, widget, media, template: replace the main render slot.
		c.state.mu.Lock()
		c.state.content = &p
		c.state.playlist = ""
		c.state.mu.Unlock()
		c.engine.Stop()
		c.renderers.Render(p.Type, p.Content)
	}

	// Any new non-alert payload evicts Interactive mode.
	if c.session != nil {
		c.session.ContentArrived(p.Type)
	}
}
