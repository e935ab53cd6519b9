package events

import (
	"time"

	"github.com/raaihank/phi-cleanse/internal/detect"
)

// EventType represents the type of WebSocket event
type EventType string

const (
	// EventTypeDetection is sent after field detection over a table
	EventTypeDetection EventType = "detection"
	// EventTypeFieldSanitized is sent after each field finishes sanitizing
	EventTypeFieldSanitized EventType = "field_sanitized"
	// EventTypeRunCompleted is sent after a sanitization run completes
	EventTypeRunCompleted EventType = "run_completed"
	// EventTypeConnection represents client connection events
	EventTypeConnection EventType = "connection"
)

// Event is a WebSocket event sent to clients. Data payloads carry field
// names, categories, and counters; never cell values.
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// DetectionEvent summarizes a detection pass over a table
type DetectionEvent struct {
	Columns  int                      `json:"columns"`
	Detected map[string]detect.Result `json:"detected"`
}

// FieldSanitizedEvent reports one sanitized field
type FieldSanitizedEvent struct {
	Field       string `json:"field"`
	Category    string `json:"category"`
	Rows        int    `json:"rows"`
	NewMappings int    `json:"new_mappings"`
}

// ConnectionEvent reports client connect/disconnect activity
type ConnectionEvent struct {
	Action   string `json:"action"` // "connected" or "disconnected"
	ClientID string `json:"client_id"`
	ClientIP string `json:"client_ip"`
}
