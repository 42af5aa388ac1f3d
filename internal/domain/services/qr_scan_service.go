package services

import (
	"time"

	"marciaknow-http-service/internal/domain/models"
	"marciaknow-http-service/internal/infrastructure/config"

	"gorm.io/gorm"
)

// DailyScanCount 单日扫码次数
type DailyScanCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// QrScanReport 扫码日报，日期范围内无记录的日期以0补齐
type QrScanReport struct {
	StartDate string           `json:"startDate"`
	EndDate   string           `json:"endDate"`
	Daily     []DailyScanCount `json:"daily"`
	Total     int64            `json:"total"`
	PeakDate  string           `json:"peakDate,omitempty"`
	PeakCount int64            `json:"peakCount"`
}

// BuildingScanCount 按楼栋统计扫码次数
type BuildingScanCount struct {
	BuildingID   uint   `json:"buildingID" gorm:"column:building_id"`
	BuildingName string `json:"buildingName" gorm:"column:building_name"`
	Count        int64  `json:"count"`
}

// InterfaceQrScanService defines the QR scan service interface
type InterfaceQrScanService interface {
	LogScan(entry *models.QrScanLog) error
	GetDailyReport(start, end time.Time) (*QrScanReport, error)
	GetTopBuildings(limit int) ([]BuildingScanCount, error)
	GetTotal() (int64, error)
	ClearOldLogs(days int) (int64, error)
}

// QrScanService 提供二维码扫码日志相关的服务
type QrScanService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewQrScanService 创建一个新的扫码日志服务
func NewQrScanService(db *gorm.DB, cfg *config.Config) InterfaceQrScanService {
	return &QrScanService{
		DB:     db,
		Config: cfg,
	}
}

// 1 LogScan 记录一次扫码
func (s *QrScanService) LogScan(entry *models.QrScanLog) error {
	return s.DB.Create(entry).Error
}

// 2 GetDailyReport 按日统计扫码次数，范围内没有记录的日期补0
func (s *QrScanService) GetDailyReport(start, end time.Time) (*QrScanReport, error) {
	// 归一化到日期边界
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	end = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, end.Location())

	var rows []DailyScanCount
	if err := s.DB.Model(&models.QrScanLog{}).
		Where("created_at BETWEEN ? AND ?", start, end).
		Select("DATE(created_at) AS date, COUNT(*) AS count").
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Date] = row.Count
	}

	report := &QrScanReport{
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
	}

	// 补齐日期范围
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format("2006-01-02")
		count := counts[date]
		report.Daily = append(report.Daily, DailyScanCount{Date: date, Count: count})
		report.Total += count
		if count > report.PeakCount {
			report.PeakCount = count
			report.PeakDate = date
		}
	}

	return report, nil
}

// 3 GetTopBuildings 统计扫码次数最多的楼栋
func (s *QrScanService) GetTopBuildings(limit int) ([]BuildingScanCount, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var rows []BuildingScanCount
	if err := s.DB.Model(&models.QrScanLog{}).
		Select("building_id, building_name, COUNT(*) AS count").
		Group("building_id, building_name").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

// 4 GetTotal 获取扫码总次数
func (s *QrScanService) GetTotal() (int64, error) {
	var total int64
	err := s.DB.Model(&models.QrScanLog{}).Count(&total).Error
	return total, err
}

// 5 ClearOldLogs 清理超过保留期的扫码日志
func (s *QrScanService) ClearOldLogs(days int) (int64, error) {
	if days <= 0 {
		days = s.Config.LogRetentionDays
	}
	cutoff := time.Now().AddDate(0, 0, -days)

	result := s.DB.Where("created_at < ?", cutoff).Delete(&models.QrScanLog{})
	return result.RowsAffected, result.Error
}
