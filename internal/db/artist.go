package db

import "time"

type Artist struct {
	ID                 uint      `gorm:"primaryKey"`
	IPAddress          string    `gorm:"size:50;not null;default:'';index"`
	Username           string    `gorm:"size:200;not null;default:''"`
	UsernameUnfinished string    `gorm:"size:200;not null;default:''"`
	UnicodeString      string    `gorm:"size:50;not null;default:''"`
	RecoveryKeyHash    string    `gorm:"size:100;not null;default:''"`
	RegistrationTime   time.Time `gorm:"not null;index"`
	LastSeen           time.Time `gorm:"not null;index"`
	PixelCanvas256     string    `gorm:"column:pixel_canvas_256;type:text;not null"`
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"not null"`
	PixelArts          []PixelArt
	Sessions           []Session
}
