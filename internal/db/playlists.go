package db

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/lumen-signage/lumen/internal/model"
)

const defaultItemDuration = 10

// normalizeItems fills per-item defaults: generated ids, positional order,
// and a fallback duration.
func normalizeItems(playlistID string, items []model.PlaylistItem) []model.PlaylistItem {
	out := make([]model.PlaylistItem, len(items))
	for i, it := range items {
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		it.PlaylistID = playlistID
		it.Position = i
		if it.DurationSeconds <= 0 {
			it.DurationSeconds = defaultItemDuration
		}
		if it.ContentType == "" {
			it.ContentType = model.ItemURL
		}
		out[i] = it
	}
	return out
}

func insertItems(tx *sqlx.Tx, items []model.PlaylistItem) error {
	const q = `
	INSERT INTO playlist_items
		(id, playlist_id, content_type, content_id, url, widget, config, duration_seconds, name, position)
	VALUES
		($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`
	for _, it := range items {
		if _, err := tx.Exec(q,
			it.ID, it.PlaylistID, it.ContentType, it.ContentID, it.URL,
			it.Widget, []byte(it.Config), it.DurationSeconds, it.Name, it.Position,
		); err != nil {
			return err
		}
	}
	return nil
}

func (s *pgStore) CreatePlaylist(p model.Playlist) (model.Playlist, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Transition == "" {
		p.Transition = model.TransitionNone
	}
	tx, err := s.db.Beginx()
	if err != nil {
		return model.Playlist{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var out model.Playlist
	err = tx.Get(&out, `
	INSERT INTO playlists (id, name, description, loop, shuffle, transition, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, now(), now())
	RETURNING id, name, description, loop, shuffle, transition, created_at, updated_at;`,
		p.ID, p.Name, p.Description, p.Loop, p.Shuffle, p.Transition)
	if err != nil {
		log.Error().Err(err).Msg("CreatePlaylist failed")
		return model.Playlist{}, err
	}

	out.Items = normalizeItems(out.ID, p.Items)
	if err := insertItems(tx, out.Items); err != nil {
		log.Error().Err(err).Str("playlist_id", out.ID).Msg("CreatePlaylist: failed to insert items")
		return model.Playlist{}, err
	}
	return out, tx.Commit()
}

func (s *pgStore) GetPlaylist(id string) (model.Playlist, error) {
	var p model.Playlist
	err := s.db.Get(&p, `
		SELECT id, name, description, loop, shuffle, transition, created_at, updated_at
		FROM playlists WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Str("playlist_id", id).Msg("GetPlaylist failed")
		return model.Playlist{}, err
	}
	items, err := s.listItems(id)
	if err != nil {
		return model.Playlist{}, err
	}
	p.Items = items
	return p, nil
}

func (s *pgStore) listItems(playlistID string) ([]model.PlaylistItem, error) {
	items := []model.PlaylistItem{}
	err := s.db.Select(&items, `
		SELECT id, playlist_id, content_type, content_id, url, widget, config, duration_seconds, name, position
		FROM playlist_items
		WHERE playlist_id = $1
		ORDER BY position;`, playlistID)
	if err != nil {
		log.Error().Err(err).Str("playlist_id", playlistID).Msg("failed to list playlist items")
		return nil, err
	}
	return items, nil
}

func (s *pgStore) ListPlaylists() ([]model.Playlist, error) {
	var out []model.Playlist
	err := s.db.Select(&out, `
		SELECT id, name, description, loop, shuffle, transition, created_at, updated_at
		FROM playlists ORDER BY created_at;`)
	if err != nil {
		log.Error().Err(err).Msg("ListPlaylists failed")
		return nil, err
	}
	for i := range out {
		items, err := s.listItems(out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}

// UpdatePlaylist replaces the record wholesale: the stored item list is
// dropped and reinserted, so concurrent edits are last-writer-wins.
func (s *pgStore) UpdatePlaylist(p model.Playlist) (model.Playlist, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return model.Playlist{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var out model.Playlist
	err = tx.Get(&out, `
	UPDATE playlists SET
		name        = $2,
		description = $3,
		loop        = $4,
		shuffle     = $5,
		transition  = $6,
		updated_at  = now()
	WHERE id = $1
	RETURNING id, name, description, loop, shuffle, transition, created_at, updated_at;`,
		p.ID, p.Name, p.Description, p.Loop, p.Shuffle, p.Transition)
	if err != nil {
		log.Error().Err(err).Str("playlist_id", p.ID).Msg("UpdatePlaylist failed")
		return model.Playlist{}, err
	}

	if _, err := tx.Exec(`DELETE FROM playlist_items WHERE playlist_id = $1;`, p.ID); err != nil {
		log.Error().Err(err).Str("playlist_id", p.ID).Msg("UpdatePlaylist: failed to drop items")
		return model.Playlist{}, err
	}
	out.Items = normalizeItems(p.ID, p.Items)
	if err := insertItems(tx, out.Items); err != nil {
		log.Error().Err(err).Str("playlist_id", p.ID).Msg("UpdatePlaylist: failed to insert items")
		return model.Playlist{}, err
	}
	return out, tx.Commit()
}

func (s *pgStore) DeletePlaylist(id string) error {
	_, err := s.db.Exec(`DELETE FROM playlists WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Str("playlist_id", id).Msg("DeletePlaylist failed")
	}
	return err
}
