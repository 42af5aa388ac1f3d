package services

import (
	"time"

	"marciaknow-http-service/internal/domain/models"
	"marciaknow-http-service/internal/infrastructure/config"

	"gorm.io/gorm"
)

// FrequentDestination 高频目的地统计项
type FrequentDestination struct {
	BuildingID      uint   `json:"buildingID" gorm:"column:building_id"`
	BuildingName    string `json:"buildingName" gorm:"-"`
	RoomKey         string `json:"roomKey,omitempty" gorm:"column:room_key"`
	RoomName        string `json:"roomName,omitempty" gorm:"-"`
	DestinationType string `json:"destinationType" gorm:"column:destination_type"`
	Count           int64  `json:"count"`
}

// DestinationReport 目的地统计报表
type DestinationReport struct {
	Timeframe    string                `json:"timeframe"`
	Total        int64                 `json:"total"`
	Destinations []FrequentDestination `json:"destinations"`
}

// InterfaceDestinationLogService defines the destination log service interface
type InterfaceDestinationLogService interface {
	Create(entry *models.DestinationLog) error
	GetFrequentDestinations(timeframe string) (*DestinationReport, error)
	ClearOldLogs(days int) (int64, error)
}

// DestinationLogService 提供目的地日志相关的服务
type DestinationLogService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewDestinationLogService 创建一个新的目的地日志服务
func NewDestinationLogService(db *gorm.DB, cfg *config.Config) InterfaceDestinationLogService {
	return &DestinationLogService{
		DB:     db,
		Config: cfg,
	}
}

// 1 Create 记录一次目的地选择
func (s *DestinationLogService) Create(entry *models.DestinationLog) error {
	return s.DB.Create(entry).Error
}

// 2 GetFrequentDestinations 统计时间范围内的高频目的地（前20），
// 并补齐楼栋与房间名称。
func (s *DestinationLogService) GetFrequentDestinations(timeframe string) (*DestinationReport, error) {
	if timeframe != "week" && timeframe != "month" && timeframe != "year" {
		timeframe = "month"
	}
	since := timeframeSince(timeframe)

	report := &DestinationReport{Timeframe: timeframe}

	base := s.DB.Model(&models.DestinationLog{}).Where("created_at >= ?", since)
	if err := base.Session(&gorm.Session{}).Count(&report.Total).Error; err != nil {
		return nil, err
	}

	if err := base.Session(&gorm.Session{}).
		Select("building_id, room_key, destination_type, COUNT(*) AS count").
		Group("building_id, room_key, destination_type").
		Order("count DESC").
		Limit(20).
		Scan(&report.Destinations).Error; err != nil {
		return nil, err
	}

	// 补齐楼栋名称
	buildingNames := make(map[uint]string)
	for i := range report.Destinations {
		dest := &report.Destinations[i]

		name, ok := buildingNames[dest.BuildingID]
		if !ok {
			var building models.Building
			if err := s.DB.First(&building, dest.BuildingID).Error; err == nil {
				name = building.Name
			}
			buildingNames[dest.BuildingID] = name
		}
		dest.BuildingName = name

		// 补齐房间名称
		if dest.RoomKey != "" {
			var room models.Room
			if err := s.DB.Where("room_key = ?", dest.RoomKey).First(&room).Error; err == nil {
				dest.RoomName = room.Name
			}
		}
	}

	return report, nil
}

// 3 ClearOldLogs 清理超过保留期的目的地日志
func (s *DestinationLogService) ClearOldLogs(days int) (int64, error) {
	if days <= 0 {
		days = s.Config.LogRetentionDays
	}
	cutoff := time.Now().AddDate(0, 0, -days)

	result := s.DB.Where("created_at < ?", cutoff).Delete(&models.DestinationLog{})
	return result.RowsAffected, result.Error
}
