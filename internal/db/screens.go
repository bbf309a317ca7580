package db

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lumen-signage/lumen/internal/model"
)

const screenColumns = `
	id, name, group_id, last_seen, created_at, updated_at,
	mode                 AS "config.mode",
	interactive_url      AS "config.interactive_url",
	idle_timeout_seconds AS "config.idle_timeout_seconds",
	touch_to_interact    AS "config.touch_to_interact"`

// UpsertScreen inserts or merges a screen record. Nil fields keep the stored
// value on conflict and fall back to defaults on first insert.
func (s *pgStore) UpsertScreen(id string, f model.ScreenFields) (model.Screen, error) {
	var out model.Screen
	q := `
	INSERT INTO screens
		(id, name, group_id, mode, interactive_url, idle_timeout_seconds, touch_to_interact, last_seen, created_at, updated_at)
	VALUES
		($1, COALESCE($2, $1), $3, COALESCE($4, 'hybrid'), COALESCE($5, ''), COALESCE($6, 120), COALESCE($7, false), $8, now(), now())
	ON CONFLICT (id) DO UPDATE SET
		name                 = COALESCE($2, screens.name),
		group_id             = COALESCE($3, screens.group_id),
		mode                 = COALESCE($4, screens.mode),
		interactive_url      = COALESCE($5, screens.interactive_url),
		idle_timeout_seconds = COALESCE($6, screens.idle_timeout_seconds),
		touch_to_interact    = COALESCE($7, screens.touch_to_interact),
		last_seen            = COALESCE($8, screens.last_seen),
		updated_at           = now()
	RETURNING ` + screenColumns + `;`
	if err := s.db.Get(&out, q,
		id, f.Name, f.GroupID, f.Mode, f.InteractiveURL,
		f.IdleTimeoutSeconds, f.TouchToInteract, f.LastSeen,
	); err != nil {
		log.Error().Err(err).Str("screen_id", id).Msg("UpsertScreen failed")
		return model.Screen{}, err
	}
	return out, nil
}

func (s *pgStore) GetScreen(id string) (model.Screen, error) {
	var out model.Screen
	err := s.db.Get(&out, `SELECT `+screenColumns+` FROM screens WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Str("screen_id", id).Msg("GetScreen failed")
	}
	return out, err
}

func (s *pgStore) ListScreens() ([]model.Screen, error) {
	var out []model.Screen
	err := s.db.Select(&out, `SELECT `+screenColumns+` FROM screens ORDER BY id;`)
	if err != nil {
		log.Error().Err(err).Msg("ListScreens failed")
		return nil, err
	}
	return out, nil
}

// DeleteScreen removes the screen and any schedules targeting it by id.
func (s *pgStore) DeleteScreen(id string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM schedules WHERE screen_target = $1;`, id); err != nil {
		log.Error().Err(err).Str("screen_id", id).Msg("DeleteScreen: failed to drop schedules")
		return err
	}
	res, err := tx.Exec(`DELETE FROM screens WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Str("screen_id", id).Msg("DeleteScreen failed")
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("screen %s not found", id)
	}
	return tx.Commit()
}

func (s *pgStore) TouchScreen(id string, ts time.Time) error {
	_, err := s.db.Exec(`UPDATE screens SET last_seen = $2 WHERE id = $1;`, id, ts)
	if err != nil {
		log.Error().Err(err).Str("screen_id", id).Msg("TouchScreen failed")
	}
	return err
}
