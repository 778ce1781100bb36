package models

// Event is an inbound webhook normalized to channel-agnostic fields.
// Voice webhooks fill Digits/RecordingURL/RecordingStatus/CallStatus;
// chat webhooks fill Text.
type Event struct {
	ConversationID string
	Channel        Channel

	Digits string
	Text   string

	RecordingURL    string
	RecordingStatus string // "completed" or a failure status
	CallStatus      string // terminal statuses delete the session

	Sender string // caller number / messaging address
	To     string // the gateway number the event arrived on
}
