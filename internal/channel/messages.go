package channel

// InboundMessage is a client-to-server frame on the screen channel.
type InboundMessage struct {
	Type     string `json:"type"` // register | heartbeat | mode-change
	ScreenID string `json:"screenId,omitempty"`
	Name     string `json:"name,omitempty"`
	Kind     string `json:"kind,omitempty"` // device type reported at registration
	Mode     string `json:"mode,omitempty"` // mode-change only
}

// Admin event names broadcast to connected admin views.
const (
	EventScreensUpdate     = "screens:update"
	EventScreensModeUpdate = "screens:mode-update"
	EventScreensConfig     = "screens:config-update"
)
