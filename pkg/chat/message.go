package chat

import "context"

// ButtonStyle maps to the chat platform's visual button styles.
type ButtonStyle string

const (
	StyleDefault ButtonStyle = ""
	StylePrimary ButtonStyle = "primary"
	StyleDanger  ButtonStyle = "danger"
)

// Button is one clickable option inside a prompt. The gateway renders it and
// posts the ActionID/Value pair back as an action event when clicked.
type Button struct {
	Label    string      `json:"label"`
	Value    string      `json:"value"`
	ActionID string      `json:"action_id"`
	Style    ButtonStyle `json:"style,omitempty"`
}

// Message is a single outbound prompt: plain text, optionally followed by a
// button group. This is the transport-agnostic shape; the gateway translates
// it into platform blocks.
type Message struct {
	Text    string   `json:"text"`
	Buttons []Button `json:"buttons,omitempty"`
}

// Text builds a plain-text message.
func Text(text string) Message {
	return Message{Text: text}
}

// Messenger delivers direct messages to a single user. Implemented by the
// websocket hub; faked in tests.
type Messenger interface {
	SendToUser(ctx context.Context, userID string, msg Message) error
}

// Responder is the free-text fallback used when a message neither continues
// nor starts an intake flow.
type Responder interface {
	Respond(ctx context.Context, text string) (string, error)
}
