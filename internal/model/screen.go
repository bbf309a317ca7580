package model

import "time"

// Screen display modes.
const (
	ModeHybrid      = "hybrid"
	ModeSignageOnly = "signage-only"
	ModeKiosk       = "kiosk"
)

// TargetAll is the synthetic pseudo-target resolving to every connected
// screen outside the broadcast exclusion set.
const TargetAll = "all"

// Screen represents a display device in the fleet. Online is never persisted;
// it is derived from presence in the connection registry at read time.
type Screen struct {
	ID        string       `db:"id"         json:"id"`
	Name      string       `db:"name"       json:"name"`
	GroupID   *string      `db:"group_id"   json:"group_id,omitempty"`
	Config    ScreenConfig `db:"config"     json:"config"`
	LastSeen  *time.Time   `db:"last_seen"  json:"last_seen,omitempty"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
	Online    bool         `db:"-"          json:"online"`
}

// ScreenConfig governs the player-side display session.
type ScreenConfig struct {
	Mode               string `db:"mode"                 json:"mode"`
	InteractiveURL     string `db:"interactive_url"      json:"interactive_url"`
	IdleTimeoutSeconds int    `db:"idle_timeout_seconds" json:"idle_timeout_seconds"`
	TouchToInteract    bool   `db:"touch_to_interact"    json:"touch_to_interact"`
}

// ScreenFields carries a partial screen update; nil fields keep the stored
// value (COALESCE semantics in the upsert).
type ScreenFields struct {
	Name               *string
	GroupID            *string
	Mode               *string
	InteractiveURL     *string
	IdleTimeoutSeconds *int
	TouchToInteract    *bool
	LastSeen           *time.Time
}

// ScreenGroup is a pure label joining many screens.
type ScreenGroup struct {
	ID        string    `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
