package domain

import "time"

const (
	DirectionRequest  Direction = "request"
	DirectionResponse Direction = "response"
)

// Direction marks whether a log entry records an outbound request or an inbound response.
type Direction string

// LogEntry is one immutable record in the activity log.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Server    string    `json:"server"`
	Direction Direction `json:"direction"`

	// Capability is the qualified name the exchange targeted.
	Capability string `json:"capability"`

	// Payload holds the request arguments or the response body/error.
	Payload any `json:"payload,omitempty"`

	// Err carries the failure description for failed exchanges, empty on success.
	Err string `json:"error,omitempty"`
}
