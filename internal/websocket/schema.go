package websocket

import "github.com/graduat/graduat-backend/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError        Event = "error"
	EventNotification Event = "notification"
	EventPong         Event = "pong"
)

// NotificationEvent is pushed to the teacher when a student finishes a test.
type NotificationEvent struct {
	Event        Event               `json:"event"`
	Notification *model.Notification `json:"notification"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
