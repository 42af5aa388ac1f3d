package models

import (
	"time"
)

// ChatbotInteraction records one question/answer round between a kiosk
// visitor and the assistant, plus what the assistant detected.
type ChatbotInteraction struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	KioskID      string    `gorm:"type:varchar(20);index" json:"kioskID"`
	UserMessage  string    `gorm:"type:text" json:"userMessage"`
	AIResponse   string    `gorm:"type:text" json:"aiResponse"`
	DetectedName string    `gorm:"type:varchar(100)" json:"detectedName,omitempty"`
	DetectedType string    `gorm:"type:varchar(20)" json:"detectedType,omitempty"`
	Confidence   float64   `json:"confidence"`
	Action       string    `gorm:"type:varchar(50);index" json:"action,omitempty"`
	ResponseTime int64     `json:"responseTime"` // 毫秒
	SessionID    string    `gorm:"type:varchar(64);index" json:"sessionID"`
	CreatedAt    time.Time `gorm:"index" json:"timestamp"`
}

// 目的地类型
const (
	DestinationTypeBuilding = "building"
	DestinationTypeRoom     = "room"
)

// DestinationLog records a destination selected on a kiosk
type DestinationLog struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	BuildingID      uint      `gorm:"index" json:"buildingID"`
	RoomKey         string    `gorm:"type:varchar(64)" json:"roomKey,omitempty"`
	SearchQuery     string    `gorm:"type:varchar(200)" json:"searchQuery,omitempty"`
	DestinationType string    `gorm:"type:varchar(20);index" json:"destinationType"`
	KioskID         string    `gorm:"type:varchar(20);index" json:"kioskID"`
	SessionID       string    `gorm:"type:varchar(64)" json:"sessionID"`
	CreatedAt       time.Time `gorm:"index" json:"timestamp"`
}

// QrScanLog records a scan of a building QR code
type QrScanLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	BuildingID   uint      `gorm:"index" json:"buildingID"`
	BuildingName string    `gorm:"type:varchar(100)" json:"buildingName"`
	KioskID      string    `gorm:"type:varchar(20);index" json:"kioskID"`
	IPAddress    string    `gorm:"type:varchar(45)" json:"ipAddress,omitempty"`
	UserAgent    string    `gorm:"type:varchar(255)" json:"userAgent,omitempty"`
	Referrer     string    `gorm:"type:varchar(255)" json:"referrer,omitempty"`
	SessionID    string    `gorm:"type:varchar(64)" json:"sessionID,omitempty"`
	CreatedAt    time.Time `gorm:"index" json:"scannedAt"`
}
