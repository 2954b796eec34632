package models

import (
	"fmt"
	"time"
)

const (
	DefaultImageURL       = "/static/images/default-pic.png"
	DefaultHeaderImageURL = "/static/images/warbler-hero.png"
)

type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"unique;not null;size:30" json:"username"`
	Email          string    `gorm:"unique;not null;size:120" json:"email"`
	Password       string    `gorm:"not null;size:255" json:"-"` // bcrypt hash
	ImageURL       string    `gorm:"type:text" json:"image_url"`
	HeaderImageURL string    `gorm:"type:text" json:"header_image_url"`
	Bio            string    `gorm:"type:text" json:"bio"`
	Location       string    `gorm:"size:30" json:"location"`
	CreatedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	Messages []Message `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
}

func (u User) String() string {
	return fmt.Sprintf("<User #%d: %s, %s>", u.ID, u.Username, u.Email)
}

// Avatar returns the profile image, falling back to the bundled default.
func (u User) Avatar() string {
	if u.ImageURL == "" {
		return DefaultImageURL
	}
	return u.ImageURL
}

func (u User) Header() string {
	if u.HeaderImageURL == "" {
		return DefaultHeaderImageURL
	}
	return u.HeaderImageURL
}
