package types

import "time"

// EventType represents the type of real-time event
type EventType string

const (
	EventVideoPublished     EventType = "video.published"
	EventVideoUpdated       EventType = "video.updated"
	EventVideoDeleted       EventType = "video.deleted"
	EventVideoPublishToggle EventType = "video.publish_toggled"
)

// Event represents a real-time event that can be sent over WebSocket
type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

// VideoEvent is the payload of every video lifecycle event
type VideoEvent struct {
	VideoID     string `json:"video_id"`
	Title       string `json:"title,omitempty"`
	IsPublished bool   `json:"is_published"`
	OccurredAt  string `json:"occurred_at"`
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
