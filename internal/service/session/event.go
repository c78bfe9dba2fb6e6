package session

import "errors"

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrGeneratorUnavailable = errors.New("message generator unavailable")
	ErrEmptyMessage         = errors.New("generator returned an empty message")
)

// Event types published to subscribers.
const (
	EventState   = "state"
	EventLoading = "loading"
	EventMessage = "message"
)

// Snapshot is the externally visible state of a session.
type Snapshot struct {
	SessionID string `json:"sessionId"`
	Elapsed   int    `json:"elapsed"`
	Display   string `json:"display"`
	Running   bool   `json:"running"`
	Message   string `json:"message"`
	Loading   bool   `json:"loading"`
	Milestone string `json:"milestone"`
	Seq       uint64 `json:"seq"`
}

// Event is a session update pushed to subscribers.
type Event struct {
	Type     string   `json:"type"`
	Snapshot Snapshot `json:"snapshot"`
}
