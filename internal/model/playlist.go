package model

import (
	"encoding/json"
	"time"
)

// Playlist transitions.
const (
	TransitionFade  = "fade"
	TransitionSlide = "slide"
	TransitionNone  = "none"
)

// Playlist item content types.
const (
	ItemVideo    = "video"
	ItemTemplate = "template"
	ItemWidget   = "widget"
	ItemURL      = "url"
)

type Playlist struct {
	ID          string         `db:"id"          json:"id"`
	Name        string         `db:"name"        json:"name"`
	Description *string        `db:"description" json:"description,omitempty"`
	Loop        bool           `db:"loop"        json:"loop"`
	Shuffle     bool           `db:"shuffle"     json:"shuffle"`
	Transition  string         `db:"transition"  json:"transition"`
	CreatedAt   time.Time      `db:"created_at"  json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"  json:"updated_at"`
	Items       []PlaylistItem `db:"-"           json:"items"`
}

// PlaylistItem is one entry of a playlist. Position within the parent is the
// sole ordering signal and is the playback order.
type PlaylistItem struct {
	ID              string          `db:"id"               json:"id"`
	PlaylistID      string          `db:"playlist_id"      json:"playlist_id"`
	ContentType     string          `db:"content_type"     json:"content_type"`
	ContentID       *string         `db:"content_id"       json:"content_id,omitempty"`
	URL             *string         `db:"url"              json:"url,omitempty"`
	Widget          *string         `db:"widget"           json:"widget,omitempty"`
	Config          json.RawMessage `db:"config"           json:"config,omitempty"`
	DurationSeconds int             `db:"duration_seconds" json:"duration_seconds"`
	Name            string          `db:"name"             json:"name"`
	Position        int             `db:"position"         json:"position"`
}
