package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRequestCreated       EventType = "request_created"
	EventRequestStatusChanged EventType = "request_status_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	RequestID int64       `json:"request_id,omitempty"`
	ActorID   int64       `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RequestCreatedPayload payload.
type RequestCreatedPayload struct {
	Type       string `json:"type"`
	CategoryID int64  `json:"category_id"`
	StatusID   int64  `json:"status_id"`
}

// RequestStatusChangedPayload payload.
type RequestStatusChangedPayload struct {
	OldStatusID int64  `json:"old_status_id"`
	NewStatusID int64  `json:"new_status_id"`
	Comment     string `json:"comment,omitempty"`
}
