package websocket

import "encoding/json"

// Message is the wire envelope for both directions: an action name and an
// action-specific payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound event payloads.

type loginPayload struct {
	Username string `json:"username"`
}

type roomPayload struct {
	RoomName string `json:"room_name"`
}

type movePayload struct {
	RoomName string `json:"room_name"`
	Index    int    `json:"index"`
}

type messagePayload struct {
	RoomName string `json:"room_name"`
	Message  string `json:"message"`
}
