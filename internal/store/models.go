package store

import "time"

// Interaction is one answered (or failed) chat request. Message and reply
// text are not stored.
type Interaction struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id,omitempty"`
	Intent    string    `json:"intent"`
	Source    string    `json:"source"`
	Status    int       `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
