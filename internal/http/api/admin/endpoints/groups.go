package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumen-signage/lumen/internal/db"
	"github.com/lumen-signage/lumen/internal/http/api"
	"github.com/lumen-signage/lumen/internal/http/api/admin/packets"
	"github.com/lumen-signage/lumen/internal/model"
)

type GroupController struct {
	store db.Store
}

// GroupModule mounts all /groups endpoints.
func GroupModule(store db.Store) api.Module {
	ctl := &GroupController{store: store}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/groups", ctl.listGroups)
		c.POST("/groups", ctl.createGroup)
		c.DELETE("/groups/:id", ctl.deleteGroup)
		c.GET("/groups/:id/screens", ctl.listGroupScreens)
	})
}

func (g *GroupController) listGroups(ctx *gin.Context) (any, *api.APIError) {
	groups, err := g.store.ListGroups()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	return groups, nil
}

func (g *GroupController) createGroup(ctx *gin.Context) (any, *api.APIError) {
	var request packets.CreateGroupRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if request.ID == model.TargetAll {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: `"all" is a reserved target`}
	}
	group, err := g.store.CreateGroup(request.ID, request.Name)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create group"}
	}
	return group, nil
}

func (g *GroupController) deleteGroup(ctx *gin.Context) (any, *api.APIError) {
	if err := g.store.DeleteGroup(ctx.Param("id")); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	return packets.DeletedResponse{Deleted: true}, nil
}

func (g *GroupController) listGroupScreens(ctx *gin.Context) (any, *api.APIError) {
	screens, err := g.store.ListScreensInGroup(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	return screens, nil
}
