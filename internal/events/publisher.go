package events

import (
	"time"

	"github.com/princekumarofficial/video-service/internal/types"
)

// Publisher delivers video lifecycle events. Delivery is best effort.
type Publisher interface {
	PublishVideoEvent(eventType types.EventType, video types.Video)
}

// EventPublisher implements the Publisher interface
type EventPublisher struct {
	hub WebSocketHub
}

// WebSocketHub interface for the WebSocket hub
type WebSocketHub interface {
	BroadcastToUser(userID string, event *types.Event)
	IsUserConnected(userID string) bool
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(hub WebSocketHub) *EventPublisher {
	return &EventPublisher{
		hub: hub,
	}
}

// PublishVideoEvent sends the event to the video's owner if they are connected.
func (p *EventPublisher) PublishVideoEvent(eventType types.EventType, video types.Video) {
	if video.OwnerID == "" || !p.hub.IsUserConnected(video.OwnerID) {
		return
	}

	eventData := &types.VideoEvent{
		VideoID:     video.ID,
		Title:       video.Title,
		IsPublished: video.IsPublished,
		OccurredAt:  time.Now().UTC().Format(time.RFC3339),
	}

	p.hub.BroadcastToUser(video.OwnerID, types.NewEvent(eventType, eventData))
}

// Discard drops every event.
type Discard struct{}

func (Discard) PublishVideoEvent(types.EventType, types.Video) {}
