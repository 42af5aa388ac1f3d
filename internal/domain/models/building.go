package models

import (
	"time"
)

// Building represents a campus building shown on the kiosk map
type Building struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"type:varchar(100);unique;not null" json:"name"`
	Description   string    `gorm:"type:text" json:"description"`
	Path          string    `gorm:"type:varchar(200)" json:"path"`
	NumberOfFloor int       `gorm:"default:1" json:"numberOfFloor"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relations
	Rooms      []Room               `gorm:"foreignKey:BuildingID" json:"rooms,omitempty"`
	Navigation []BuildingNavigation `gorm:"foreignKey:BuildingID" json:"navigation,omitempty"`
	Images     []Image              `gorm:"foreignKey:BuildingID" json:"images,omitempty"`
}

// BuildingNavigation holds the building-level navigation data for one
// kiosk. Exactly one row exists per (building, kiosk) pair; the
// propagation service keeps that invariant when kiosks come and go.
type BuildingNavigation struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	BuildingID      uint       `gorm:"uniqueIndex:idx_building_kiosk;not null" json:"buildingID"`
	KioskID         string     `gorm:"type:varchar(20);uniqueIndex:idx_building_kiosk;not null" json:"kioskID"`
	NavigationPath  PathPoints `gorm:"type:json" json:"navigationPath"`
	NavigationGuide GuideSteps `gorm:"type:json" json:"navigationGuide"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
