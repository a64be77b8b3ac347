package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoomFromDestination(t *testing.T) {
	tests := []struct {
		name      string
		frameType string
		dest      string
		want      string
		ok        bool
	}{
		{"subscribe topic", FrameSubscribe, "/topic/matrix", "matrix", true},
		{"unsubscribe topic", FrameUnsubscribe, "/topic/lobby", "lobby", true},
		{"publish app", FramePublish, "/app/chat/matrix", "matrix", true},
		{"subscribe on app destination", FrameSubscribe, "/app/chat/matrix", "", false},
		{"publish on topic destination", FramePublish, "/topic/matrix", "", false},
		{"empty room", FrameSubscribe, "/topic/", "", false},
		{"blank room", FrameSubscribe, "/topic/   ", "", false},
		{"nested room", FrameSubscribe, "/topic/a/b", "", false},
		{"unknown type", "ping", "/topic/matrix", "", false},
		{"no prefix", FramePublish, "matrix", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := roomFromDestination(tt.frameType, tt.dest)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
