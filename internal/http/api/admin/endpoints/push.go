package endpoints

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumen-signage/lumen/internal/http/api"
	"github.com/lumen-signage/lumen/internal/http/api/admin/packets"
	"github.com/lumen-signage/lumen/internal/model"
)

// Pusher is the dispatch surface the push endpoints drive.
type Pusher interface {
	Push(target string, payload model.ContentPayload) int
	PushOverride(target string, payload model.ContentPayload) int
}

type PushController struct {
	dispatcher Pusher
}

// PushModule mounts the manual push endpoints.
func PushModule(dispatcher Pusher) api.Module {
	ctl := &PushController{dispatcher: dispatcher}
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/push", ctl.push)
		c.POST("/push/alert", ctl.pushAlert)
		c.POST("/push/widget", ctl.pushWidget)
		c.POST("/push/clear", ctl.pushClear)
		c.POST("/reload-all", ctl.reloadAll)
	})
}

// POST /push. Generic content push. An unknown target resolves to zero
// recipients and still succeeds.
func (p *PushController) push(ctx *gin.Context) (any, *api.APIError) {
	var request packets.PushRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	delivered := p.dispatcher.Push(request.Target, model.ContentPayload{
		Type:       request.Type,
		Content:    request.Content,
		Priority:   request.Priority,
		DurationMs: request.DurationMs,
		Timestamp:  time.Now(),
		Source:     request.Source,
	})
	return packets.PushResponse{Success: true, Delivered: delivered}, nil
}

// POST /push/alert. Overlays on every screen. An empty target means
// override broadcast: the exclusion set does not apply.
func (p *PushController) pushAlert(ctx *gin.Context) (any, *api.APIError) {
	var request packets.AlertPushRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	content, _ := json.Marshal(model.AlertContent{Message: request.Message, Level: request.Level})
	payload := model.ContentPayload{
		Type:       model.PayloadAlert,
		Content:    content,
		DurationMs: request.DurationMs,
		Timestamp:  time.Now(),
		Source:     "admin",
	}

	var delivered int
	if request.Target == "" || request.Target == model.TargetAll {
		delivered = p.dispatcher.PushOverride(model.TargetAll, payload)
	} else {
		delivered = p.dispatcher.Push(request.Target, payload)
	}
	return packets.PushResponse{Success: true, Delivered: delivered}, nil
}

// POST /push/widget
func (p *PushController) pushWidget(ctx *gin.Context) (any, *api.APIError) {
	var request packets.WidgetPushRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	content, _ := json.Marshal(model.WidgetContent{Widget: request.Widget, Config: request.Config})
	delivered := p.dispatcher.Push(request.Target, model.ContentPayload{
		Type:      model.PayloadWidget,
		Content:   content,
		Timestamp: time.Now(),
		Source:    "admin",
	})
	return packets.PushResponse{Success: true, Delivered: delivered}, nil
}

// POST /push/clear
func (p *PushController) pushClear(ctx *gin.Context) (any, *api.APIError) {
	var request packets.ClearRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	delivered := p.dispatcher.Push(request.Target, model.ContentPayload{
		Type:      model.PayloadClear,
		Timestamp: time.Now(),
		Source:    "admin",
	})
	return packets.PushResponse{Success: true, Delivered: delivered}, nil
}

// POST /reload-all. Full restart directive, no exclusions.
func (p *PushController) reloadAll(ctx *gin.Context) (any, *api.APIError) {
	delivered := p.dispatcher.PushOverride(model.TargetAll, model.ContentPayload{
		Type:      model.PayloadReload,
		Timestamp: time.Now(),
		Source:    "admin",
	})
	return packets.PushResponse{Success: true, Delivered: delivered}, nil
}
