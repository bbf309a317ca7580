package endpoints

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-signage/lumen/internal/http/api"
	"github.com/lumen-signage/lumen/internal/model"
)

type pushCall struct {
	target   string
	payload  model.ContentPayload
	override bool
}

type fakePusher struct {
	calls     []pushCall
	delivered int
}

func (f *fakePusher) Push(target string, payload model.ContentPayload) int {
	f.calls = append(f.calls, pushCall{target: target, payload: payload})
	return f.delivered
}

func (f *fakePusher) PushOverride(target string, payload model.ContentPayload) int {
	f.calls = append(f.calls, pushCall{target: target, payload: payload, override: true})
	return f.delivered
}

func newPushRouter(p *fakePusher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api.MountGroup(router, api.GroupConfig{Prefix: "/api/admin"}, PushModule(p))
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestPush_ReportsDeliveredCount(t *testing.T) {
	pusher := &fakePusher{delivered: 3}
	router := newPushRouter(pusher)

	w := postJSON(t, router, "/api/admin/push", gin.H{
		"target":  "lobby",
		"type":    "url",
		"content": gin.H{"url": "https://example.com/menu"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success   bool `json:"success"`
		Delivered int  `json:"delivered"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.Delivered)

	require.Len(t, pusher.calls, 1)
	assert.Equal(t, "lobby", pusher.calls[0].target)
	assert.Equal(t, model.PayloadURL, pusher.calls[0].payload.Type)
	assert.False(t, pusher.calls[0].override)
}

func TestPush_UnknownTargetStillSucceeds(t *testing.T) {
	pusher := &fakePusher{delivered: 0}
	router := newPushRouter(pusher)

	w := postJSON(t, router, "/api/admin/push", gin.H{
		"target": "no-such-screen",
		"type":   "clear",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"delivered":0`)
}

func TestPush_RejectsUnknownPayloadType(t *testing.T) {
	pusher := &fakePusher{}
	router := newPushRouter(pusher)

	w := postJSON(t, router, "/api/admin/push", gin.H{
		"target": "lobby",
		"type":   "hologram",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, pusher.calls)
}

func TestPushAlert_EmptyTargetBypassesExclusions(t *testing.T) {
	pusher := &fakePusher{delivered: 5}
	router := newPushRouter(pusher)

	w := postJSON(t, router, "/api/admin/push/alert", gin.H{
		"message": "fire drill at noon",
		"level":   "warning",
	})

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, pusher.calls, 1)
	call := pusher.calls[0]
	assert.True(t, call.override)
	assert.Equal(t, model.TargetAll, call.target)
	assert.Equal(t, model.PayloadAlert, call.payload.Type)

	var alert model.AlertContent
	require.NoError(t, json.Unmarshal(call.payload.Content, &alert))
	assert.Equal(t, "fire drill at noon", alert.Message)
	assert.Equal(t, "warning", alert.Level)
}

func TestPushAlert_ExplicitTargetUsesNormalDispatch(t *testing.T) {
	pusher := &fakePusher{delivered: 1}
	router := newPushRouter(pusher)

	w := postJSON(t, router, "/api/admin/push/alert", gin.H{
		"target":  "lobby-1",
		"message": "visitor at reception",
	})

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, pusher.calls, 1)
	assert.False(t, pusher.calls[0].override)
	assert.Equal(t, "lobby-1", pusher.calls[0].target)
}

func TestReloadAll_OverridesExclusions(t *testing.T) {
	pusher := &fakePusher{delivered: 7}
	router := newPushRouter(pusher)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/reload-all", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, pusher.calls, 1)
	assert.True(t, pusher.calls[0].override)
	assert.Equal(t, model.TargetAll, pusher.calls[0].target)
	assert.Equal(t, model.PayloadReload, pusher.calls[0].payload.Type)
}
