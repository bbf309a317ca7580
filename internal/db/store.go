// exposes a Store interface that is passed to API calls and the scheduler
package db

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/lumen-signage/lumen/internal/model"
)

type Store interface {
	// screen functions
	UpsertScreen(id string, fields model.ScreenFields) (model.Screen, error)
	GetScreen(id string) (model.Screen, error)
	ListScreens() ([]model.Screen, error)
	DeleteScreen(id string) error
	TouchScreen(id string, ts time.Time) error

	// group functions
	CreateGroup(id, name string) (model.ScreenGroup, error)
	ListGroups() ([]model.ScreenGroup, error)
	GetGroup(id string) (model.ScreenGroup, error)
	DeleteGroup(id string) error
	ListScreensInGroup(groupID string) ([]model.Screen, error)

	// playlist functions
	CreatePlaylist(p model.Playlist) (model.Playlist, error)
	GetPlaylist(id string) (model.Playlist, error)
	ListPlaylists() ([]model.Playlist, error)
	UpdatePlaylist(p model.Playlist) (model.Playlist, error)
	DeletePlaylist(id string) error

	// schedule functions
	CreateSchedule(s model.Schedule) (model.Schedule, error)
	GetSchedule(id string) (model.Schedule, error)
	ListSchedules() ([]model.Schedule, error)
	UpdateSchedule(s model.Schedule) (model.Schedule, error)
	DeleteSchedule(id string) error
	ListEnabledSchedules() ([]model.Schedule, error)
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

// NewStore wraps the given connection; a nil argument falls back to the
// package-level DB.
func NewStore(database *sqlx.DB) Store {
	if database == nil {
		database = DB
	}
	return &pgStore{db: database}
}
