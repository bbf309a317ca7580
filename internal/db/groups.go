package db

import (
	"github.com/rs/zerolog/log"

	"github.com/lumen-signage/lumen/internal/model"
)

func (s *pgStore) CreateGroup(id, name string) (model.ScreenGroup, error) {
	var g model.ScreenGroup
	err := s.db.Get(&g, `
		INSERT INTO screen_groups (id, name, created_at)
		VALUES ($1, $2, now())
		RETURNING id, name, created_at;`, id, name)
	if err != nil {
		log.Error().Err(err).Str("group_id", id).Msg("CreateGroup failed")
	}
	return g, err
}

func (s *pgStore) ListGroups() ([]model.ScreenGroup, error) {
	var out []model.ScreenGroup
	err := s.db.Select(&out, `SELECT id, name, created_at FROM screen_groups ORDER BY id;`)
	if err != nil {
		log.Error().Err(err).Msg("ListGroups failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) GetGroup(id string) (model.ScreenGroup, error) {
	var g model.ScreenGroup
	err := s.db.Get(&g, `SELECT id, name, created_at FROM screen_groups WHERE id = $1;`, id)
	return g, err
}

// DeleteGroup drops the label and detaches member screens.
func (s *pgStore) DeleteGroup(id string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE screens SET group_id = NULL WHERE group_id = $1;`, id); err != nil {
		log.Error().Err(err).Str("group_id", id).Msg("DeleteGroup: failed to detach screens")
		return err
	}
	if _, err := tx.Exec(`DELETE FROM screen_groups WHERE id = $1;`, id); err != nil {
		log.Error().Err(err).Str("group_id", id).Msg("DeleteGroup failed")
		return err
	}
	return tx.Commit()
}

func (s *pgStore) ListScreensInGroup(groupID string) ([]model.Screen, error) {
	var out []model.Screen
	err := s.db.Select(&out, `SELECT `+screenColumns+` FROM screens WHERE group_id = $1 ORDER BY id;`, groupID)
	if err != nil {
		log.Error().Err(err).Str("group_id", groupID).Msg("ListScreensInGroup failed")
		return nil, err
	}
	return out, nil
}
