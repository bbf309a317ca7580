package packets

import "encoding/json"

type CreateScreenRequest struct {
	ID      string  `json:"id" binding:"required"`
	Name    string  `json:"name" binding:"required"`
	GroupID *string `json:"group_id"`
}

type UpdateScreenRequest struct {
	Name    *string `json:"name"`
	GroupID *string `json:"group_id"`
}

type UpdateScreenConfigRequest struct {
	Mode               *string `json:"mode" binding:"omitempty,oneof=hybrid signage-only kiosk"`
	InteractiveURL     *string `json:"interactive_url"`
	IdleTimeoutSeconds *int    `json:"idle_timeout_seconds" binding:"omitempty,gt=0"`
	TouchToInteract    *bool   `json:"touch_to_interact"`
}

type SetModeRequest struct {
	Mode string `json:"mode" binding:"required,oneof=signage interactive"`
}

type CreateGroupRequest struct {
	ID   string `json:"id" binding:"required"`
	Name string `json:"name" binding:"required"`
}

type PlaylistItemRequest struct {
	ContentType     string          `json:"content_type" binding:"omitempty,oneof=video template widget url"`
	ContentID       *string         `json:"content_id"`
	URL             *string         `json:"url"`
	Widget          *string         `json:"widget"`
	Config          json.RawMessage `json:"config"`
	DurationSeconds int             `json:"duration_seconds"`
	Name            string          `json:"name"`
}

type PlaylistRequest struct {
	Name        string                `json:"name" binding:"required"`
	Description *string               `json:"description"`
	Loop        bool                  `json:"loop"`
	Shuffle     bool                  `json:"shuffle"`
	Transition  string                `json:"transition" binding:"omitempty,oneof=fade slide none"`
	Items       []PlaylistItemRequest `json:"items"`
}

type ScheduleRequest struct {
	PlaylistID   string  `json:"playlist_id" binding:"required"`
	ScreenTarget string  `json:"screen_target" binding:"required"`
	StartTime    string  `json:"start_time" binding:"required"`
	EndTime      string  `json:"end_time" binding:"required"`
	Days         []int64 `json:"days" binding:"required,min=1,dive,gte=0,lte=6"`
	Priority     int     `json:"priority"`
	Enabled      *bool   `json:"enabled"`
}

type PushRequest struct {
	Target     string          `json:"target" binding:"required"`
	Type       string          `json:"type" binding:"required,oneof=url widget alert media clear playlist reload"`
	Content    json.RawMessage `json:"content"`
	Priority   int             `json:"priority"`
	DurationMs int             `json:"duration_ms"`
	Source     string          `json:"source"`
}

// AlertPushRequest broadcasts with no exclusions when Target is empty.
type AlertPushRequest struct {
	Target     string `json:"target"`
	Message    string `json:"message" binding:"required"`
	Level      string `json:"level"`
	DurationMs int    `json:"duration_ms"`
}

type WidgetPushRequest struct {
	Target string          `json:"target" binding:"required"`
	Widget string          `json:"widget" binding:"required"`
	Config json.RawMessage `json:"config"`
}

type ClearRequest struct {
	Target string `json:"target" binding:"required"`
}

type PushPlaylistRequest struct {
	Target string `json:"target" binding:"required"`
}

type PairingRequest struct {
	ScreenID string `json:"screen_id" binding:"required"`
}

type PairingClaimRequest struct {
	Code string `json:"code" binding:"required"`
}
