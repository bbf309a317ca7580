package player

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"

	"github.com/lumen-signage/lumen/internal/model"
)

type compositeEffects struct {
	recordingEffects
	playbackRecorder
}

func newTestClient(t *testing.T) (*Client, *compositeEffects) {
	t.Helper()
	effects := &compositeEffects{}
	session := NewSession(hybridConfig(), &effects.recordingEffects)
	session.idle = 60 * time.Millisecond
	session.fade = 5 * time.Millisecond

	engine := NewEngine(&effects.playbackRecorder)
	engine.second = 10 * time.Millisecond
	engine.lead = 0

	renderers := NewRendererRegistry()
	for _, kind := range []string{model.PayloadURL, model.PayloadWidget, model.PayloadMedia} {
		assert.NoError(t, renderers.Register(kind, func() Renderable { return nopRenderable{} }))
	}

	c := NewClient("ws://unused", "screen-1", "Screen 1", session, engine, renderers)
	c.restart = func() {}
	return c, effects
}

type nopRenderable struct{}

func (nopRenderable) Show(config json.RawMessage) error { return nil }
func (nopRenderable) Stop()                             {}

func playlistPayload(t *testing.T, p model.Playlist) model.ContentPayload {
	t.Helper()
	raw, err := json.Marshal(p)
	assert.NoError(t, err)
	return model.ContentPayload{Type: model.PayloadPlaylist, Content: raw, Timestamp: time.Now()}
}

func TestPlaylistPayloadStartsPlayback(t *testing.T) {
	c, _ := newTestClient(t)

	c.handlePayload(playlistPayload(t, model.Playlist{
		ID:    "pl-1",
		Items: []model.PlaylistItem{{ID: "a", ContentType: model.ItemWidget, DurationSeconds: 100}},
	}))

	assert.True(t, c.engine.Playing())
	_, _, playlistID := c.state.Snapshot()
	assert.Equal(t, "pl-1", playlistID)
}

func TestClearWipesContentAlertAndPlaylist(t *testing.T) {
	c, _ := newTestClient(t)
	c.handlePayload(playlistPayload(t, model.Playlist{
		ID:    "pl-1",
		Items: []model.PlaylistItem{{ID: "a", ContentType: model.ItemWidget, DurationSeconds: 100}},
	}))
	c.handlePayload(model.ContentPayload{Type: model.PayloadAlert, Timestamp: time.Now()})

	c.handlePayload(model.ContentPayload{Type: model.PayloadClear, Timestamp: time.Now()})

	content, alert, playlistID := c.state.Snapshot()
	assert.Nil(t, content)
	assert.Nil(t, alert)
	assert.Empty(t, playlistID)
	assert.False(t, c.engine.Playing())
}

// An alert overlays the current render state without touching a playing
// playlist, and self-expires after its duration.
func TestAlertOverlaysAndSelfExpires(t *testing.T) {
	c, _ := newTestClient(t)
	c.handlePayload(playlistPayload(t, model.Playlist{
		ID:    "pl-1",
		Loop:  true,
		Items: []model.PlaylistItem{{ID: "a", ContentType: model.ItemWidget, DurationSeconds: 100}},
	}))

	c.handlePayload(model.ContentPayload{
		Type:       model.PayloadAlert,
		DurationMs: 30,
		Timestamp:  time.Now(),
	})

	_, alert, playlistID := c.state.Snapshot()
	assert.NotNil(t, alert)
	assert.Equal(t, "pl-1", playlistID, "alert must not disturb the playlist underneath")
	assert.True(t, c.engine.Playing())

	assert.Eventually(t, func() bool {
		_, alert, _ := c.state.Snapshot()
		return alert == nil
	}, time.Second, 5*time.Millisecond)
	assert.True(t, c.engine.Playing(), "playlist still running after the alert expires")
}

func TestNewerAlertSurvivesOldAlertExpiry(t *testing.T) {
	c, _ := newTestClient(t)

	c.handlePayload(model.ContentPayload{Type: model.PayloadAlert, DurationMs: 20, Timestamp: time.Now()})
	c.handlePayload(model.ContentPayload{Type: model.PayloadAlert, Timestamp: time.Now()}) // no expiry

	time.Sleep(50 * time.Millisecond)
	_, alert, _ := c.state.Snapshot()
	assert.NotNil(t, alert, "the replaced alert's expiry must not clear its successor")
}

func TestContentPayloadForcesSignage(t *testing.T) {
	c, _ := newTestClient(t)
	c.session.Touch()
	assert.Equal(t, model.SessionInteractive, c.session.State())

	c.handlePayload(model.ContentPayload{Type: model.PayloadURL, Timestamp: time.Now()})

	assert.Eventually(t, func() bool {
		return c.session.State() == model.SessionSignage
	}, 200*time.Millisecond, 2*time.Millisecond)
}

func TestAlertPayloadDoesNotForceSignage(t *testing.T) {
	c, _ := newTestClient(t)
	c.session.Touch()

	c.handlePayload(model.ContentPayload{Type: model.PayloadAlert, Timestamp: time.Now()})

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, model.SessionInteractive, c.session.State())
}

func TestReloadInvokesRestart(t *testing.T) {
	c, _ := newTestClient(t)
	restarted := false
	c.restart = func() { restarted = true }

	c.handlePayload(model.ContentPayload{Type: model.PayloadReload, Timestamp: time.Now()})
	assert.True(t, restarted)
}

func TestSetModeEnvelopeForcesSession(t *testing.T) {
	c, _ := newTestClient(t)

	c.handleEnvelope(model.Envelope{Kind: "set-mode", Mode: model.SessionInteractive})
	assert.Equal(t, model.SessionInteractive, c.session.State())
}

// Cancelling the run context must unblock the read loop even when the
// server sends nothing.
func TestRunReturnsOnContextCancel(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	effects := &compositeEffects{}
	c := NewClient("ws"+strings.TrimPrefix(srv.URL, "http"), "screen-1", "Screen 1",
		nil, NewEngine(&effects.playbackRecorder), NewRendererRegistry())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	// Let the dial and register land before cancelling.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}
