package models

import (
	"time"
)

// MaxMessageLength is the longest warble accepted, counted in runes.
const MaxMessageLength = 140

type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"not null;size:140" json:"text"`
	Timestamp time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"timestamp"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
}
