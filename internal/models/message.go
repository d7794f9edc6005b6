package models

import "gorm.io/gorm"

// MessageType classifies a hall message.
type MessageType string

const (
	MessageGeneral   MessageType = "general"
	MessageChallenge MessageType = "challenge"
)

func (t MessageType) Valid() bool {
	return t == MessageGeneral || t == MessageChallenge
}

// HallMessage is one post in the shared lobby feed. Append-only.
type HallMessage struct {
	gorm.Model
	UserID      uint        `gorm:"not null" json:"user_id"`
	User        User        `gorm:"foreignKey:UserID" json:"user"`
	Content     string      `gorm:"not null" json:"content"`
	MessageType MessageType `gorm:"size:20;default:general" json:"message_type"`
}
