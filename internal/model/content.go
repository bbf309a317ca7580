package model

import (
	"encoding/json"
	"time"
)

// Payload types carried by the push channel.
const (
	PayloadURL      = "url"
	PayloadWidget   = "widget"
	PayloadAlert    = "alert"
	PayloadMedia    = "media"
	PayloadClear    = "clear"
	PayloadPlaylist = "playlist"
	PayloadReload   = "reload"
)

// ContentPayload is the wire unit pushed to screens. It is transient and
// never persisted.
type ContentPayload struct {
	Type       string          `json:"type"`
	Content    json.RawMessage `json:"content,omitempty"`
	Priority   int             `json:"priority,omitempty"`
	DurationMs int             `json:"duration_ms,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
	Source     string          `json:"source,omitempty"`
}

// Envelope frames server-to-screen messages on the push channel.
type Envelope struct {
	Kind    string          `json:"kind"` // content | set-mode
	Payload *ContentPayload `json:"payload,omitempty"`
	Mode    string          `json:"mode,omitempty"`
}

// Display session modes carried by set-mode and mode-change messages.
const (
	SessionSignage     = "signage"
	SessionInteractive = "interactive"
)

// AlertContent is the content shape for alert payloads.
type AlertContent struct {
	Message string `json:"message"`
	Level   string `json:"level,omitempty"`
}

// WidgetContent is the content shape for widget payloads.
type WidgetContent struct {
	Widget string          `json:"widget"`
	Config json.RawMessage `json:"config,omitempty"`
}
