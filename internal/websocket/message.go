package websocket

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// Message defines the structure for websocket messages.
type Message struct {
	Action  string `json:"action"`
	Payload any    `json:"payload"`
}

// Encode marshals a message for the wire.
func Encode(action string, payload any) ([]byte, error) {
	return json.Marshal(Message{Action: action, Payload: payload})
}

// NewErrorMessage builds an "error" message carrying text.
func NewErrorMessage(text string) []byte {
	b, err := Encode("error", map[string]string{"message": text})
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode websocket error message")
		return nil
	}
	return b
}
