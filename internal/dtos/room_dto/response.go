package room_dto

import "time"

type RoomResponse struct {
	UUID           string    `json:"uuid"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Kind           string    `json:"kind"`
	Owner          string    `json:"owner,omitempty"`
	Subscribers    int       `json:"subscribers"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

type HistoryResponse struct {
	Room     string           `json:"room"`
	Messages []MessageSnippet `json:"messages"`
	NextPage *string          `json:"next_page,omitempty"`
}

type MessageSnippet struct {
	UUID      string    `json:"uuid"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
