package websocket

import "encoding/json"

type OutgoingMessage struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// IncomingMessage is a client frame. From is filled in by the server from the
// authenticated connection, never trusted from the payload.
type IncomingMessage struct {
	From  string          `json:"-"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ErrorPayload is sent only to the player whose action failed.
type ErrorPayload struct {
	Message string `json:"message"`
}

const EventError = "error"

// ErrorMessage wraps err for the originating client.
func ErrorMessage(err error) OutgoingMessage {
	return OutgoingMessage{Event: EventError, Data: ErrorPayload{Message: err.Error()}}
}
