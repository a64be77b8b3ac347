package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ArchivedMessage is the mongo document written by the archive worker for
// every message the router broadcasts. Rooms reference messages through
// the roomTitle index, never as a live object graph.
type ArchivedMessage struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"-"`
	UUID      string        `bson:"uuid" json:"uuid"`
	RoomTitle string        `bson:"roomTitle" json:"room"`
	Sender    string        `bson:"sender" json:"sender"`
	Content   string        `bson:"content" json:"content"`
	CreatedAt time.Time     `bson:"createdAt" json:"created_at"`
}
