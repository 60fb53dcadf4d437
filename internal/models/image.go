package models

import "time"

// Image kinds accepted by the upload pipeline.
const (
	ImageKindAvatar = "avatar"
	ImageKindCover  = "cover"
)

// Image is an uploaded, re-encoded picture addressed by the hash of its master JPEG.
type Image struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Hash             string    `gorm:"uniqueIndex;not null;size:64" json:"hash"`
	UserID           uint      `gorm:"not null;index" json:"user_id"`
	Kind             string    `gorm:"not null;size:16" json:"kind"`
	OriginalFilename string    `json:"original_filename"`
	MimeType         string    `gorm:"size:32" json:"mime_type"`
	SizeBytes        int64     `json:"size_bytes"`
	Width            int       `json:"width"`
	Height           int       `json:"height"`
	JPEGPath         string    `json:"-"`
	WebPPath         string    `json:"-"`
	URL              string    `gorm:"-" json:"url"`
	WebPURL          string    `gorm:"-" json:"webp_url"`
	CreatedAt        time.Time `json:"created_at"`
}
