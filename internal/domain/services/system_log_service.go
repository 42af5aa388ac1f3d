package services

import (
	"fmt"
	"strings"
	"time"

	"marciaknow-http-service/internal/domain/models"
	"marciaknow-http-service/internal/infrastructure/config"

	"gorm.io/gorm"
)

// InterfaceSystemLogService defines the system log service interface
type InterfaceSystemLogService interface {
	CreateLog(entry *models.SystemLog) error
	GetLogs(query models.PaginationQuery, category string) ([]models.SystemLog, int64, error)
	GetRecentLogs(limit int) ([]models.SystemLog, error)
	ClearOldLogs(days int) (int64, error)
}

// SystemLogService 提供系统日志相关的服务
type SystemLogService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewSystemLogService 创建一个新的系统日志服务
func NewSystemLogService(db *gorm.DB, cfg *config.Config) InterfaceSystemLogService {
	return &SystemLogService{
		DB:     db,
		Config: cfg,
	}
}

// 1 CreateLog 记录一条系统日志
func (s *SystemLogService) CreateLog(entry *models.SystemLog) error {
	return s.DB.Create(entry).Error
}

// 2 GetLogs 分页获取系统日志，可按类别过滤
func (s *SystemLogService) GetLogs(query models.PaginationQuery, category string) ([]models.SystemLog, int64, error) {
	if query.PageNum < 1 {
		query.PageNum = 1
	}
	if query.PageSize < 1 || query.PageSize > 100 {
		query.PageSize = 20
	}

	db := s.DB.Model(&models.SystemLog{})
	if category != "" {
		db = db.Where("category = ?", category)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.SystemLog
	if err := db.Order("created_at DESC").
		Offset((query.PageNum - 1) * query.PageSize).
		Limit(query.PageSize).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

// 3 GetRecentLogs 获取最近的日志
func (s *SystemLogService) GetRecentLogs(limit int) ([]models.SystemLog, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var logs []models.SystemLog
	if err := s.DB.Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// 4 ClearOldLogs 清理超过保留期的日志，返回删除条数
func (s *SystemLogService) ClearOldLogs(days int) (int64, error) {
	if days <= 0 {
		days = s.Config.LogRetentionDays
	}
	cutoff := time.Now().AddDate(0, 0, -days)

	result := s.DB.Where("created_at < ?", cutoff).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}

// AppendChange 当字段值发生变化时追加一条可读的变更描述
func AppendChange(changes []string, field, oldVal, newVal string) []string {
	if oldVal == newVal {
		return changes
	}
	return append(changes, fmt.Sprintf("%s changed from '%s' to '%s'", field, oldVal, newVal))
}

// ChangeSummary 将变更描述合并为一条日志文本
func ChangeSummary(changes []string) string {
	if len(changes) == 0 {
		return "no field changes"
	}
	return strings.Join(changes, "; ")
}
