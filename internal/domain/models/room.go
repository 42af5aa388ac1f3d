package models

import (
	"time"
)

// Room represents one kiosk's view of a room inside a building.
// Rows sharing the same RoomKey describe the same physical room as
// seen from different kiosks: the basic fields (name, description,
// floor) are kept in sync across the group while the navigation data
// stays per kiosk.
type Room struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	RoomKey         string     `gorm:"type:varchar(64);index;not null" json:"roomKey"`
	BuildingID      uint       `gorm:"index;not null" json:"buildingID"`
	KioskID         string     `gorm:"type:varchar(20);index;not null" json:"kioskID"`
	Name            string     `gorm:"type:varchar(100);not null" json:"name"`
	Description     string     `gorm:"type:text" json:"description"`
	Floor           int        `gorm:"default:1" json:"floor"`
	NavigationPath  PathPoints `gorm:"type:json" json:"navigationPath"`
	NavigationGuide GuideSteps `gorm:"type:json" json:"navigationGuide"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
