package chat

import (
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message is a routed chat message. It is immutable after the router
// constructs it: every subscriber receives the same value.
type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Room      string    `json:"room"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"timestamp"`
}

func newMessage(sender, room, content string, at time.Time) *Message {
	return &Message{
		ID:        uuid.New().String(),
		Sender:    sender,
		Room:      room,
		Content:   content,
		CreatedAt: at,
	}
}

// sanitizeContent neutralizes markup and control sequences in untrusted
// message bodies. HTML is escaped, control characters other than tab and
// newline are dropped.
func sanitizeContent(raw string) string {
	escaped := html.EscapeString(raw)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, escaped)
}
