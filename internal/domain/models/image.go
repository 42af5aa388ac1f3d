package models

import (
	"time"
)

// Image holds the metadata of a stored image. The binary itself lives
// in the blob store under FilePath. Exactly one of the owner keys is
// set; room images are keyed by RoomKey so the kiosk copies of a room
// share the same image set.
type Image struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FilePath    string    `gorm:"type:varchar(100);unique;not null" json:"file_path"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	AspectRatio float64   `json:"aspect_ratio"`
	Size        int64     `json:"size"`
	BuildingID  *uint     `gorm:"index" json:"buildingID,omitempty"`
	RoomKey     string    `gorm:"type:varchar(64);index" json:"roomKey,omitempty"`
	FeedbackID  *uint     `gorm:"index" json:"feedbackID,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NavigationIcon represents a reusable icon referenced by guide steps
type NavigationIcon struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(50);unique;not null" json:"name"`
	FilePath  string    `gorm:"type:varchar(100);not null" json:"file_path"`
	CreatedAt time.Time `json:"created_at"`
}
