package entity

import (
	"time"
)

// RoomKind classifies a chat room.
//
//   - SYSTEM: predefined rooms owned by the system account, never evicted.
//   - PERSISTENT: rooms created by registered users, live until deleted.
//   - EPHEMERAL: rooms created by guests, reclaimed once abandoned.
type RoomKind string

const (
	RoomSystem     RoomKind = "SYSTEM"
	RoomPersistent RoomKind = "PERSISTENT"
	RoomEphemeral  RoomKind = "EPHEMERAL"
)

// Room is a chat channel row. Title is the wire-level subscription key and
// must be unique while the room is live.
type Room struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	UUID           string    `gorm:"uniqueIndex;not null" json:"uuid"`
	Title          string    `gorm:"uniqueIndex;not null" json:"title"`
	Description    string    `json:"description,omitempty"`
	OwnerID        int64     `gorm:"not null" json:"owner_id"`
	Owner          *User     `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Kind           RoomKind  `gorm:"not null" json:"kind"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

func (Room) TableName() string { return "rooms" }
