package res

import "time"

// Envelope statuses
const (
	StatusSuccess = "SUCCESS"
	StatusError   = "ERROR"
)

// DefaultSuccessMessage is used when an operation has no specific message
const DefaultSuccessMessage = "Operation completed successfully"

// TimestampLayout is UTC with second precision
const TimestampLayout = "2006-01-02T15:04:05Z"

// Envelope представляет единый формат JSON-ответа
type Envelope struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
}

// Now is the clock envelopes are stamped with
var Now = time.Now

func newEnvelope(status, message string, data any) Envelope {
	return Envelope{
		Status:    status,
		Message:   message,
		Data:      data,
		Timestamp: Now().UTC().Format(TimestampLayout),
	}
}

// Success builds a SUCCESS envelope; an empty message becomes DefaultSuccessMessage
func Success(message string, data any) Envelope {
	if message == "" {
		message = DefaultSuccessMessage
	}
	return newEnvelope(StatusSuccess, message, data)
}

// Error builds an ERROR envelope, data may be nil
func Error(message string, data any) Envelope {
	return newEnvelope(StatusError, message, data)
}
