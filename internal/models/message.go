package models

import (
	"time"
)

// MaxMessageLength is the warble length cap enforced before persistence.
const MaxMessageLength = 140

// Message is a single warble posted by a user.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"size:140;not null" json:"text"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Liked indicates whether the current requesting user liked this message (computed)
	Liked bool `gorm:"-" json:"liked"`
}
