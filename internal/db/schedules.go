package db

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lumen-signage/lumen/internal/model"
)

const scheduleColumns = `id, playlist_id, screen_target, start_time, end_time, days, priority, enabled, created_at, updated_at`

func (s *pgStore) CreateSchedule(sc model.Schedule) (model.Schedule, error) {
	if sc.ID == "" {
		sc.ID = uuid.NewString()
	}
	var out model.Schedule
	err := s.db.Get(&out, `
	INSERT INTO schedules
		(id, playlist_id, screen_target, start_time, end_time, days, priority, enabled, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
	RETURNING `+scheduleColumns+`;`,
		sc.ID, sc.PlaylistID, sc.ScreenTarget, sc.StartTime, sc.EndTime, sc.Days, sc.Priority, sc.Enabled)
	if err != nil {
		log.Error().Err(err).Msg("CreateSchedule failed")
	}
	return out, err
}

func (s *pgStore) GetSchedule(id string) (model.Schedule, error) {
	var out model.Schedule
	err := s.db.Get(&out, `SELECT `+scheduleColumns+` FROM schedules WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Str("schedule_id", id).Msg("GetSchedule failed")
	}
	return out, err
}

func (s *pgStore) ListSchedules() ([]model.Schedule, error) {
	var out []model.Schedule
	err := s.db.Select(&out, `SELECT `+scheduleColumns+` FROM schedules ORDER BY priority DESC, id;`)
	if err != nil {
		log.Error().Err(err).Msg("ListSchedules failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) UpdateSchedule(sc model.Schedule) (model.Schedule, error) {
	var out model.Schedule
	err := s.db.Get(&out, `
	UPDATE schedules SET
		playlist_id   = $2,
		screen_target = $3,
		start_time    = $4,
		end_time      = $5,
		days          = $6,
		priority      = $7,
		enabled       = $8,
		updated_at    = now()
	WHERE id = $1
	RETURNING `+scheduleColumns+`;`,
		sc.ID, sc.PlaylistID, sc.ScreenTarget, sc.StartTime, sc.EndTime, sc.Days, sc.Priority, sc.Enabled)
	if err != nil {
		log.Error().Err(err).Str("schedule_id", sc.ID).Msg("UpdateSchedule failed")
	}
	return out, err
}

func (s *pgStore) DeleteSchedule(id string) error {
	_, err := s.db.Exec(`DELETE FROM schedules WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Str("schedule_id", id).Msg("DeleteSchedule failed")
	}
	return err
}

// ListEnabledSchedules returns enabled schedules whose playlist still exists,
// ordered by descending priority. The inner join silently drops schedules
// bound to a deleted playlist.
func (s *pgStore) ListEnabledSchedules() ([]model.Schedule, error) {
	var out []model.Schedule
	const q = `
	SELECT s.id, s.playlist_id, s.screen_target, s.start_time, s.end_time,
	       s.days, s.priority, s.enabled, s.created_at, s.updated_at
	  FROM schedules s
	  JOIN playlists p ON p.id = s.playlist_id
	 WHERE s.enabled = true
	 ORDER BY s.priority DESC, s.id;`
	if err := s.db.Select(&out, q); err != nil {
		log.Error().Err(err).Msg("ListEnabledSchedules failed")
		return nil, err
	}
	return out, nil
}
