package entity

import (
	"time"
)

// Role classifies an account. The set is closed: room creation and
// eviction rules in the chat core switch on it.
type Role string

const (
	RoleSystem Role = "SYSTEM"
	RoleAdmin  Role = "ADMIN"
	RoleUser   Role = "USER"
	RoleGuest  Role = "GUEST"
)

// User is an account row. Guests are synthesized at connect time, never
// hold a reserved nickname and are deleted once their last connection
// closes.
type User struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UUID      string    `gorm:"uniqueIndex;not null" json:"uuid"`
	Role      Role      `gorm:"not null" json:"role"`
	Name      string    `json:"name,omitempty"`
	Surname   string    `json:"surname,omitempty"`
	Nickname  string    `gorm:"index" json:"nickname"`
	Email     string    `gorm:"index" json:"email,omitempty"`
	Active    bool      `gorm:"not null" json:"active"`
	Password  string    `gorm:"column:password_hash" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "accounts" }

// IsGuest reports whether the account is a temporary guest identity.
func (u *User) IsGuest() bool { return u.Role == RoleGuest }

type UserFilter struct {
	Nickname *string
	Email    *string
}
