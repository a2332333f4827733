package dto

// MessageEventRequest is an inbound free-text message delivered by the chat
// gateway webhook.
type MessageEventRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Text   string `json:"text"`
}

// ActionEventRequest is an inbound button click delivered by the chat gateway
// webhook.
type ActionEventRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	ActionID string `json:"action_id" validate:"required"`
	Value    string `json:"value"`
}

// Inbound event kinds on the dispatch bus.
const (
	EventKindMessage = "message"
	EventKindAction  = "action"
)

// InboundEvent is the envelope the webhook handlers publish onto the dispatch
// bus after acknowledging the gateway. The dispatcher routes it to the user's
// worker so same-user events stay ordered.
type InboundEvent struct {
	Kind     string `json:"kind"`
	UserID   string `json:"user_id"`
	Text     string `json:"text,omitempty"`
	ActionID string `json:"action_id,omitempty"`
	Value    string `json:"value,omitempty"`
}
