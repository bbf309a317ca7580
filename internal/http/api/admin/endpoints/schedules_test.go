package endpoints

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-signage/lumen/internal/db"
	"github.com/lumen-signage/lumen/internal/http/api"
	"github.com/lumen-signage/lumen/internal/model"
)

// scheduleStore stubs the playlist lookup and records created schedules.
// Everything outside the schedule path panics via the embedded nil Store.
type scheduleStore struct {
	db.Store
	playlists map[string]model.Playlist
	created   []model.Schedule
}

func (s *scheduleStore) GetPlaylist(id string) (model.Playlist, error) {
	p, ok := s.playlists[id]
	if !ok {
		return model.Playlist{}, fmt.Errorf("playlist %s not found", id)
	}
	return p, nil
}

func (s *scheduleStore) CreateSchedule(sc model.Schedule) (model.Schedule, error) {
	sc.ID = uuid.NewString()
	s.created = append(s.created, sc)
	return sc, nil
}

func newScheduleRouter(store *scheduleStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api.MountGroup(router, api.GroupConfig{Prefix: "/api/admin"}, ScheduleModule(store))
	return router
}

func TestCreateSchedule_Valid(t *testing.T) {
	store := &scheduleStore{playlists: map[string]model.Playlist{"pl-1": {ID: "pl-1"}}}
	router := newScheduleRouter(store)

	w := postJSON(t, router, "/api/admin/schedules", gin.H{
		"playlist_id":   "pl-1",
		"screen_target": "lobby",
		"start_time":    "09:00",
		"end_time":      "17:00",
		"days":          []int{1, 2, 3, 4, 5},
		"priority":      10,
	})

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, store.created, 1)
	sc := store.created[0]
	assert.NotEmpty(t, sc.ID)
	assert.True(t, sc.Enabled)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, []int64(sc.Days))
}

func TestCreateSchedule_RejectsBadClock(t *testing.T) {
	store := &scheduleStore{playlists: map[string]model.Playlist{"pl-1": {ID: "pl-1"}}}
	router := newScheduleRouter(store)

	w := postJSON(t, router, "/api/admin/schedules", gin.H{
		"playlist_id":   "pl-1",
		"screen_target": "lobby",
		"start_time":    "9am",
		"end_time":      "17:00",
		"days":          []int{1},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "HH:mm")
	assert.Empty(t, store.created)
}

func TestCreateSchedule_RejectsMidnightSpan(t *testing.T) {
	store := &scheduleStore{playlists: map[string]model.Playlist{"pl-1": {ID: "pl-1"}}}
	router := newScheduleRouter(store)

	w := postJSON(t, router, "/api/admin/schedules", gin.H{
		"playlist_id":   "pl-1",
		"screen_target": "lobby",
		"start_time":    "22:00",
		"end_time":      "02:00",
		"days":          []int{5, 6},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, store.created)
}

func TestCreateSchedule_RejectsMissingPlaylist(t *testing.T) {
	store := &scheduleStore{playlists: map[string]model.Playlist{}}
	router := newScheduleRouter(store)

	w := postJSON(t, router, "/api/admin/schedules", gin.H{
		"playlist_id":   "withdrawn",
		"screen_target": "lobby",
		"start_time":    "09:00",
		"end_time":      "17:00",
		"days":          []int{1},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "playlist")
}

func TestCreateSchedule_RejectsOutOfRangeDay(t *testing.T) {
	store := &scheduleStore{playlists: map[string]model.Playlist{"pl-1": {ID: "pl-1"}}}
	router := newScheduleRouter(store)

	w := postJSON(t, router, "/api/admin/schedules", gin.H{
		"playlist_id":   "pl-1",
		"screen_target": "lobby",
		"start_time":    "09:00",
		"end_time":      "17:00",
		"days":          []int{7},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, store.created)
}
