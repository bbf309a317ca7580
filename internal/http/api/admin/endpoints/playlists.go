package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumen-signage/lumen/internal/db"
	"github.com/lumen-signage/lumen/internal/http/api"
	"github.com/lumen-signage/lumen/internal/http/api/admin/packets"
	"github.com/lumen-signage/lumen/internal/model"
	"github.com/lumen-signage/lumen/internal/scheduler"
)

type PlaylistController struct {
	store      db.Store
	dispatcher Pusher
}

// PlaylistModule mounts all /playlists endpoints.
func PlaylistModule(store db.Store, dispatcher Pusher) api.Module {
	ctl := &PlaylistController{store: store, dispatcher: dispatcher}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/playlists", ctl.listPlaylists)
		c.POST("/playlists", ctl.createPlaylist)
		c.GET("/playlists/:id", ctl.getPlaylist)
		c.PUT("/playlists/:id", ctl.updatePlaylist)
		c.DELETE("/playlists/:id", ctl.deletePlaylist)
		c.POST("/playlists/:id/push", ctl.pushPlaylist)
	})
}

func playlistFromRequest(id string, request packets.PlaylistRequest) model.Playlist {
	items := make([]model.PlaylistItem, 0, len(request.Items))
	for _, it := range request.Items {
		items = append(items, model.PlaylistItem{
			ContentType:     it.ContentType,
			ContentID:       it.ContentID,
			URL:             it.URL,
			Widget:          it.Widget,
			Config:          it.Config,
			DurationSeconds: it.DurationSeconds,
			Name:            it.Name,
		})
	}
	return model.Playlist{
		ID:          id,
		Name:        request.Name,
		Description: request.Description,
		Loop:        request.Loop,
		Shuffle:     request.Shuffle,
		Transition:  request.Transition,
		Items:       items,
	}
}

func (p *PlaylistController) listPlaylists(ctx *gin.Context) (any, *api.APIError) {
	playlists, err := p.store.ListPlaylists()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	return playlists, nil
}

func (p *PlaylistController) createPlaylist(ctx *gin.Context) (any, *api.APIError) {
	var request packets.PlaylistRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	playlist, err := p.store.CreatePlaylist(playlistFromRequest("", request))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create playlist"}
	}
	return playlist, nil
}

func (p *PlaylistController) getPlaylist(ctx *gin.Context) (any, *api.APIError) {
	playlist, err := p.store.GetPlaylist(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "playlist not found"}
	}
	return playlist, nil
}

// updatePlaylist replaces the whole record; the item list is last-writer-wins.
func (p *PlaylistController) updatePlaylist(ctx *gin.Context) (any, *api.APIError) {
	var request packets.PlaylistRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	playlist, err := p.store.UpdatePlaylist(playlistFromRequest(ctx.Param("id"), request))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "playlist not found"}
	}
	return playlist, nil
}

func (p *PlaylistController) deletePlaylist(ctx *gin.Context) (any, *api.APIError) {
	if err := p.store.DeletePlaylist(ctx.Param("id")); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	return packets.DeletedResponse{Deleted: true}, nil
}

// POST /playlists/:id/push
func (p *PlaylistController) pushPlaylist(ctx *gin.Context) (any, *api.APIError) {
	var request packets.PushPlaylistRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	playlist, err := p.store.GetPlaylist(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "playlist not found"}
	}
	delivered := p.dispatcher.Push(request.Target, scheduler.PlaylistPayload(playlist, "admin"))
	return packets.PushResponse{Success: true, Delivered: delivered}, nil
}
