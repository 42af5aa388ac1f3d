package models

import (
	"time"
)

// KioskStatus represents the status of a wayfinding kiosk
type KioskStatus string

const (
	KioskStatusOnline      KioskStatus = "online"
	KioskStatusOffline     KioskStatus = "offline"
	KioskStatusMaintenance KioskStatus = "maintenance"
)

// Kiosk represents physical wayfinding kiosks deployed around campus.
// KioskID is the stable external identifier used as the join key for
// per-kiosk navigation data.
type Kiosk struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	KioskID     string      `gorm:"type:varchar(20);unique;not null" json:"kioskID"`
	Name        string      `gorm:"type:varchar(100);not null" json:"name"`
	Location    string      `gorm:"type:varchar(200)" json:"location"`
	CoordinateX float64     `json:"coordinateX"`
	CoordinateY float64     `json:"coordinateY"`
	Status      KioskStatus `gorm:"type:varchar(20);default:'offline'" json:"status"`
	LastCheckIn *time.Time  `json:"lastCheckIn,omitempty"`
	AddedBy     string      `gorm:"type:varchar(100)" json:"addedBy"`
	EditedBy    string      `gorm:"type:varchar(100)" json:"editedBy"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
