package websocket

import (
	"strings"
	"time"
)

// Frame is the inbound wire unit. Subscribe frames target a broadcast
// destination (/topic/{room}), publish frames target the application
// destination (/app/chat/{room}); the content field only matters for
// publish.
type Frame struct {
	Type        string `json:"type"`
	Destination string `json:"destination"`
	Content     string `json:"content,omitempty"`
}

const (
	FrameSubscribe   = "subscribe"
	FrameUnsubscribe = "unsubscribe"
	FramePublish     = "publish"
)

const (
	topicPrefix   = "/topic/"
	publishPrefix = "/app/chat/"
)

// Broadcast is the outbound shape of a routed chat message.
type Broadcast struct {
	Type      string    `json:"type"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Room      string    `json:"room"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorFrame reports a sender-facing failure back to the offending
// connection. It is never broadcast.
type ErrorFrame struct {
	Type   string `json:"type"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// roomFromDestination extracts the room title from a frame destination.
// Subscribe and unsubscribe use the broadcast prefix, publish the
// application prefix. Returns false for destinations that do not match
// the frame type.
func roomFromDestination(frameType, destination string) (string, bool) {
	var prefix string
	switch frameType {
	case FrameSubscribe, FrameUnsubscribe:
		prefix = topicPrefix
	case FramePublish:
		prefix = publishPrefix
	default:
		return "", false
	}
	if !strings.HasPrefix(destination, prefix) {
		return "", false
	}
	room := strings.TrimSpace(strings.TrimPrefix(destination, prefix))
	if room == "" || strings.Contains(room, "/") {
		return "", false
	}
	return room, true
}
