package endpoints

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumen-signage/lumen/internal/channel"
	"github.com/lumen-signage/lumen/internal/db"
	"github.com/lumen-signage/lumen/internal/http/api"
	"github.com/lumen-signage/lumen/internal/http/api/admin/packets"
	"github.com/lumen-signage/lumen/internal/model"
	"github.com/lumen-signage/lumen/internal/redis"
	"github.com/lumen-signage/lumen/internal/registry"
)

type ScreenController struct {
	store db.Store
	reg   *registry.Registry
	admin *channel.AdminHub
}

// ScreenModule mounts all /screens endpoints.
func ScreenModule(store db.Store, reg *registry.Registry, admin *channel.AdminHub) api.Module {
	ctl := &ScreenController{store: store, reg: reg, admin: admin}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/screens", ctl.listScreens)
		c.POST("/screens", ctl.createScreen)
		c.GET("/screens/:id", ctl.getScreen)
		c.PUT("/screens/:id", ctl.updateScreen)
		c.DELETE("/screens/:id", ctl.deleteScreen)
		c.GET("/screens/:id/status", ctl.getScreenStatus)
		c.PUT("/screens/:id/config", ctl.updateScreenConfig)
		c.POST("/screens/:id/mode", ctl.setScreenMode)
	})
}

// decorate derives online status from the registry and folds in the redis
// heartbeat fast path. Status is never read from the store.
func (t *ScreenController) decorate(s model.Screen) model.Screen {
	s.Online = t.reg.IsOnline(s.ID)
	if ts := redis.GetLastSeen(context.Background(), s.ID); !ts.IsZero() {
		if s.LastSeen == nil || ts.After(*s.LastSeen) {
			s.LastSeen = &ts
		}
	}
	return s
}

// GET /screens
func (t *ScreenController) listScreens(ctx *gin.Context) (any, *api.APIError) {
	all, err := t.store.ListScreens()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	out := make([]model.Screen, 0, len(all))
	for _, s := range all {
		out = append(out, t.decorate(s))
	}
	return out, nil
}

// POST /screens
func (t *ScreenController) createScreen(ctx *gin.Context) (any, *api.APIError) {
	var request packets.CreateScreenRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	screen, err := t.store.UpsertScreen(request.ID, model.ScreenFields{
		Name:    &request.Name,
		GroupID: request.GroupID,
	})
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create screen"}
	}
	t.admin.Broadcast(channel.EventScreensUpdate, gin.H{"screen_id": screen.ID})
	return t.decorate(screen), nil
}

// GET /screens/:id
func (t *ScreenController) getScreen(ctx *gin.Context) (any, *api.APIError) {
	screen, err := t.store.GetScreen(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "screen not found"}
	}
	return t.decorate(screen), nil
}

// PUT /screens/:id
func (t *ScreenController) updateScreen(ctx *gin.Context) (any, *api.APIError) {
	var request packets.UpdateScreenRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	id := ctx.Param("id")
	if _, err := t.store.GetScreen(id); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "screen not found"}
	}
	screen, err := t.store.UpsertScreen(id, model.ScreenFields{
		Name:    request.Name,
		GroupID: request.GroupID,
	})
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update screen"}
	}
	t.admin.Broadcast(channel.EventScreensUpdate, gin.H{"screen_id": id})
	return t.decorate(screen), nil
}

// DELETE /screens/:id
func (t *ScreenController) deleteScreen(ctx *gin.Context) (any, *api.APIError) {
	id := ctx.Param("id")
	if err := t.store.DeleteScreen(id); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: err.Error()}
	}
	if conn, ok := t.reg.Get(id); ok {
		conn.Close()
		t.reg.Unregister(id, conn)
	}
	t.admin.Broadcast(channel.EventScreensUpdate, gin.H{"screen_id": id, "deleted": true})
	return packets.DeletedResponse{Deleted: true}, nil
}

// GET /screens/:id/status
func (t *ScreenController) getScreenStatus(ctx *gin.Context) (any, *api.APIError) {
	screen, err := t.store.GetScreen(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "screen not found"}
	}
	screen = t.decorate(screen)
	return packets.ScreenStatusResponse{
		ScreenID: screen.ID,
		Online:   screen.Online,
		LastSeen: screen.LastSeen,
		Mode:     screen.Config.Mode,
	}, nil
}

// PUT /screens/:id/config
func (t *ScreenController) updateScreenConfig(ctx *gin.Context) (any, *api.APIError) {
	var request packets.UpdateScreenConfigRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	id := ctx.Param("id")
	if _, err := t.store.GetScreen(id); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "screen not found"}
	}
	screen, err := t.store.UpsertScreen(id, model.ScreenFields{
		Mode:               request.Mode,
		InteractiveURL:     request.InteractiveURL,
		IdleTimeoutSeconds: request.IdleTimeoutSeconds,
		TouchToInteract:    request.TouchToInteract,
	})
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update config"}
	}
	t.admin.Broadcast(channel.EventScreensConfig, gin.H{"screen_id": id, "config": screen.Config})
	return t.decorate(screen), nil
}

// POST /screens/:id/mode. Admin override, forwarded as set-mode.
func (t *ScreenController) setScreenMode(ctx *gin.Context) (any, *api.APIError) {
	var request packets.SetModeRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	id := ctx.Param("id")
	conn, ok := t.reg.Get(id)
	if !ok {
		// Offline is not an error: the directive is simply not delivered.
		return packets.PushResponse{Success: true, Delivered: 0}, nil
	}
	if err := conn.Send(model.Envelope{Kind: "set-mode", Mode: request.Mode}); err != nil {
		return packets.PushResponse{Success: true, Delivered: 0}, nil
	}
	return packets.PushResponse{Success: true, Delivered: 1}, nil
}
