package core

import "layerlabs.io/support-chat/internal/intent"

type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResult is the outcome of one handled message.
type ChatResult struct {
	Reply  string
	Intent intent.Result
}
