package db

import "time"

type Session struct {
	ID        string    `gorm:"primaryKey;size:64"`
	ArtistID  uint      `gorm:"index;not null"`
	IPAddress string    `gorm:"size:50;not null;default:''"`
	UserAgent string    `gorm:"size:255;not null;default:''"`
	LastSeen  time.Time `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
