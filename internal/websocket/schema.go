package websocket

import "encoding/json"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action of a client message.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventConnected Event = "connected"
	EventChange    Event = "cambio"
	EventError     Event = "error"
	EventPong      Event = "pong"
)

// ConnectedResponse greets a freshly attached client.
type ConnectedResponse struct {
	Event    Event  `json:"event"`
	Username string `json:"username"`
}

// ChangeResponse wraps a change event published by a mutation. Payload is
// the event JSON as published on the channel.
type ChangeResponse struct {
	Event   Event           `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
