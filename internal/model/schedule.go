package model

import (
	"time"

	"github.com/lib/pq"
)

// Schedule binds a playlist to a target within a same-day time window on a
// set of weekdays. StartTime/EndTime are "HH:mm" local wall-clock strings;
// matching is whole-minute.
type Schedule struct {
	ID           string        `db:"id"            json:"id"`
	PlaylistID   string        `db:"playlist_id"   json:"playlist_id"`
	ScreenTarget string        `db:"screen_target" json:"screen_target"`
	StartTime    string        `db:"start_time"    json:"start_time"`
	EndTime      string        `db:"end_time"      json:"end_time"`
	Days         pq.Int64Array `db:"days"          json:"days"`
	Priority     int           `db:"priority"      json:"priority"`
	Enabled      bool          `db:"enabled"       json:"enabled"`
	CreatedAt    time.Time     `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"    json:"updated_at"`
}

// Matches reports whether the schedule window covers the given local time.
func (s Schedule) Matches(now time.Time) bool {
	day := int64(now.Weekday())
	dayOK := false
	for _, d := range s.Days {
		if d == day {
			dayOK = true
			break
		}
	}
	if !dayOK {
		return false
	}
	hhmm := now.Format("15:04")
	return s.StartTime <= hhmm && hhmm <= s.EndTime
}
