package endpoints

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"github.com/lumen-signage/lumen/internal/db"
	"github.com/lumen-signage/lumen/internal/http/api"
	"github.com/lumen-signage/lumen/internal/http/api/admin/packets"
	"github.com/lumen-signage/lumen/internal/model"
)

type ScheduleController struct {
	store db.Store
}

// ScheduleModule mounts all /schedules endpoints.
func ScheduleModule(store db.Store) api.Module {
	ctl := &ScheduleController{store: store}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/schedules", ctl.listSchedules)
		c.POST("/schedules", ctl.createSchedule)
		c.GET("/schedules/:id", ctl.getSchedule)
		c.PUT("/schedules/:id", ctl.updateSchedule)
		c.DELETE("/schedules/:id", ctl.deleteSchedule)
	})
}

// scheduleFromRequest validates the window shape: "HH:mm" endpoints within
// the same day, start not after end.
func (s *ScheduleController) scheduleFromRequest(id string, request packets.ScheduleRequest) (model.Schedule, *api.APIError) {
	for _, raw := range []string{request.StartTime, request.EndTime} {
		if _, err := time.Parse("15:04", raw); err != nil {
			return model.Schedule{}, &api.APIError{Code: http.StatusBadRequest, Message: "times must be HH:mm"}
		}
	}
	if request.StartTime > request.EndTime {
		return model.Schedule{}, &api.APIError{Code: http.StatusBadRequest, Message: "window may not span midnight"}
	}
	if _, err := s.store.GetPlaylist(request.PlaylistID); err != nil {
		return model.Schedule{}, &api.APIError{Code: http.StatusBadRequest, Message: "playlist does not exist"}
	}

	enabled := true
	if request.Enabled != nil {
		enabled = *request.Enabled
	}
	return model.Schedule{
		ID:           id,
		PlaylistID:   request.PlaylistID,
		ScreenTarget: request.ScreenTarget,
		StartTime:    request.StartTime,
		EndTime:      request.EndTime,
		Days:         pq.Int64Array(request.Days),
		Priority:     request.Priority,
		Enabled:      enabled,
	}, nil
}

func (s *ScheduleController) listSchedules(ctx *gin.Context) (any, *api.APIError) {
	schedules, err := s.store.ListSchedules()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	return schedules, nil
}

func (s *ScheduleController) createSchedule(ctx *gin.Context) (any, *api.APIError) {
	var request packets.ScheduleRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	sc, apiErr := s.scheduleFromRequest("", request)
	if apiErr != nil {
		return nil, apiErr
	}
	created, err := s.store.CreateSchedule(sc)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create schedule"}
	}
	return created, nil
}

func (s *ScheduleController) getSchedule(ctx *gin.Context) (any, *api.APIError) {
	sc, err := s.store.GetSchedule(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "schedule not found"}
	}
	return sc, nil
}

func (s *ScheduleController) updateSchedule(ctx *gin.Context) (any, *api.APIError) {
	var request packets.ScheduleRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	sc, apiErr := s.scheduleFromRequest(ctx.Param("id"), request)
	if apiErr != nil {
		return nil, apiErr
	}
	updated, err := s.store.UpdateSchedule(sc)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "schedule not found"}
	}
	return updated, nil
}

func (s *ScheduleController) deleteSchedule(ctx *gin.Context) (any, *api.APIError) {
	if err := s.store.DeleteSchedule(ctx.Param("id")); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	return packets.DeletedResponse{Deleted: true}, nil
}
