package db

import "time"

// PixelArt is a published canvas. Rows are never updated; ArtistID is
// cleared when the owning artist is reset.
type PixelArt struct {
	ID             uint      `gorm:"primaryKey"`
	ArtistID       *uint     `gorm:"index"`
	Username       string    `gorm:"size:200;not null;default:''"`
	CreationDate   time.Time `gorm:"not null;index"`
	PixelCanvas256 string    `gorm:"column:pixel_canvas_256;type:text;not null"`
}
