package api

import "time"

// StatusResponse is the payload for the current status.
type StatusResponse struct {
	Value int    `json:"value"`
	Label string `json:"label"`
	File  string `json:"file"`
}

// RotateRequest is the optional request body for a rotation.
// When Max is omitted the configured default range is used.
type RotateRequest struct {
	Max *int `json:"max,omitempty"`
}

// SetStatusRequest is the request body for writing an explicit status.
type SetStatusRequest struct {
	Value *int `json:"value"`
}

// RotationResponse reports one completed transition.
type RotationResponse struct {
	Old   int    `json:"old"`
	New   int    `json:"new"`
	Label string `json:"label"`
}

// RotationRecord is one journal row in a history response.
type RotationRecord struct {
	ID        int64     `json:"id"`
	Old       int       `json:"old"`
	New       int       `json:"new"`
	Max       int       `json:"max"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryResponse wraps recent journal entries, newest first.
type HistoryResponse struct {
	Entries []RotationRecord `json:"entries"`
	Total   int              `json:"total"`
}
