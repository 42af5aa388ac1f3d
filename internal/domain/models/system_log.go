package models

import (
	"time"
)

// 系统日志类别
const (
	LogCategoryKiosk    = "kiosk"
	LogCategoryRoom     = "room"
	LogCategoryBuilding = "building"
)

// SystemLog records an administrative change to the catalog. The
// Description field carries a human-readable change summary such as
// "name changed from X to Y".
type SystemLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AdminID      uint      `gorm:"index" json:"adminID"`
	AdminName    string    `gorm:"type:varchar(100)" json:"adminName"`
	Category     string    `gorm:"type:varchar(20);index" json:"category"` // kiosk, room, building
	Action       string    `gorm:"type:varchar(50)" json:"action"`
	Description  string    `gorm:"type:text" json:"description"`
	KioskID      string    `gorm:"type:varchar(20)" json:"kioskID,omitempty"`
	KioskName    string    `gorm:"type:varchar(100)" json:"kioskName,omitempty"`
	BuildingID   *uint     `json:"buildingID,omitempty"`
	BuildingName string    `gorm:"type:varchar(100)" json:"buildingName,omitempty"`
	RoomName     string    `gorm:"type:varchar(100)" json:"roomName,omitempty"`
	Floor        int       `json:"floor,omitempty"`
	CreatedAt    time.Time `gorm:"index" json:"dateOfChange"`
}
