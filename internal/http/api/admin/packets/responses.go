package packets

import "time"

type PushResponse struct {
	Success   bool `json:"success"`
	Delivered int  `json:"delivered"`
}

type ScreenStatusResponse struct {
	ScreenID string     `json:"screen_id"`
	Online   bool       `json:"online"`
	LastSeen *time.Time `json:"last_seen,omitempty"`
	Mode     string     `json:"mode"`
}

type DeletedResponse struct {
	Deleted bool `json:"deleted"`
}

type PairingResponse struct {
	Code string `json:"code"`
}

type PairingClaimResponse struct {
	ScreenID string `json:"screen_id"`
}

type MediaUploadResponse struct {
	URL string `json:"url"`
}
