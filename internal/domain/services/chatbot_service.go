package services

import (
	"time"

	"marciaknow-http-service/internal/domain/models"
	"marciaknow-http-service/internal/infrastructure/config"

	"gorm.io/gorm"
)

// DailyBucket 按日统计的聚合桶
type DailyBucket struct {
	Date            string  `json:"date"`
	Count           int64   `json:"count"`
	AvgResponseTime float64 `json:"avgResponseTime"`
}

// QueryCount 高频问题统计
type QueryCount struct {
	Query string `json:"query" gorm:"column:user_message"`
	Count int64  `json:"count"`
}

// ActionCount 检测动作统计
type ActionCount struct {
	Action string `json:"action"`
	Count  int64  `json:"count"`
}

// KioskCount 按信息亭统计
type KioskCount struct {
	KioskID string `json:"kioskID" gorm:"column:kiosk_id"`
	Count   int64  `json:"count"`
}

// ConfidenceStats 置信度统计
type ConfidenceStats struct {
	Avg float64 `json:"avg"`
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ChatbotMetrics 聊天机器人使用指标
type ChatbotMetrics struct {
	Timeframe       string          `json:"timeframe"`
	Total           int64           `json:"total"`
	Daily           []DailyBucket   `json:"daily"`
	CommonQueries   []QueryCount    `json:"commonQueries"`
	ActionBreakdown []ActionCount   `json:"actionBreakdown"`
	Confidence      ConfidenceStats `json:"confidence"`
	KioskActivity   []KioskCount    `json:"kioskActivity"`
	AvgResponseTime float64         `json:"avgResponseTime"`
}

// SessionHistory 单个会话的问答记录与统计
type SessionHistory struct {
	SessionID       string                      `json:"sessionID"`
	Interactions    []models.ChatbotInteraction `json:"interactions"`
	Total           int64                       `json:"total"`
	AvgResponseTime float64                     `json:"avgResponseTime"`
	FirstSeen       *time.Time                  `json:"firstSeen,omitempty"`
	LastSeen        *time.Time                  `json:"lastSeen,omitempty"`
}

// timeframeSince 时间范围换算为起始时间
func timeframeSince(timeframe string) time.Time {
	now := time.Now()
	switch timeframe {
	case "week":
		return now.AddDate(0, 0, -7)
	case "year":
		return now.AddDate(-1, 0, 0)
	default: // month
		return now.AddDate(0, -1, 0)
	}
}

// InterfaceChatbotService defines the chatbot analytics service interface
type InterfaceChatbotService interface {
	LogInteraction(entry *models.ChatbotInteraction) error
	GetMetrics(timeframe string) (*ChatbotMetrics, error)
	GetLogs(query models.PaginationQuery, kioskID, action, sessionID string) ([]models.ChatbotInteraction, int64, error)
	GetSessionHistory(sessionID string) (*SessionHistory, error)
	ClearOldInteractions(days int) (int64, error)
}

// ChatbotService 提供聊天机器人分析相关的服务
type ChatbotService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewChatbotService 创建一个新的聊天机器人分析服务
func NewChatbotService(db *gorm.DB, cfg *config.Config) InterfaceChatbotService {
	return &ChatbotService{
		DB:     db,
		Config: cfg,
	}
}

// 1 LogInteraction 记录一次问答
func (s *ChatbotService) LogInteraction(entry *models.ChatbotInteraction) error {
	return s.DB.Create(entry).Error
}

// 2 GetMetrics 按时间范围聚合使用指标
func (s *ChatbotService) GetMetrics(timeframe string) (*ChatbotMetrics, error) {
	if timeframe != "week" && timeframe != "month" && timeframe != "year" {
		timeframe = "month"
	}
	since := timeframeSince(timeframe)

	metrics := &ChatbotMetrics{Timeframe: timeframe}
	base := s.DB.Model(&models.ChatbotInteraction{}).Where("created_at >= ?", since)

	if err := base.Session(&gorm.Session{}).Count(&metrics.Total).Error; err != nil {
		return nil, err
	}

	// 按日分桶
	if err := base.Session(&gorm.Session{}).
		Select("DATE(created_at) AS date, COUNT(*) AS count, AVG(response_time) AS avg_response_time").
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&metrics.Daily).Error; err != nil {
		return nil, err
	}

	// 高频问题（前10）
	if err := base.Session(&gorm.Session{}).
		Select("user_message, COUNT(*) AS count").
		Group("user_message").
		Order("count DESC").
		Limit(10).
		Scan(&metrics.CommonQueries).Error; err != nil {
		return nil, err
	}

	// 动作分布
	if err := base.Session(&gorm.Session{}).
		Where("action != ''").
		Select("action, COUNT(*) AS count").
		Group("action").
		Order("count DESC").
		Scan(&metrics.ActionBreakdown).Error; err != nil {
		return nil, err
	}

	// 置信度统计
	if err := base.Session(&gorm.Session{}).
		Select("COALESCE(AVG(confidence), 0) AS avg, COALESCE(MIN(confidence), 0) AS min, COALESCE(MAX(confidence), 0) AS max").
		Scan(&metrics.Confidence).Error; err != nil {
		return nil, err
	}

	// 按亭活跃度
	if err := base.Session(&gorm.Session{}).
		Select("kiosk_id, COUNT(*) AS count").
		Group("kiosk_id").
		Order("count DESC").
		Scan(&metrics.KioskActivity).Error; err != nil {
		return nil, err
	}

	// 平均响应时间
	var avg struct{ Avg float64 }
	if err := base.Session(&gorm.Session{}).
		Select("COALESCE(AVG(response_time), 0) AS avg").
		Scan(&avg).Error; err != nil {
		return nil, err
	}
	metrics.AvgResponseTime = avg.Avg

	return metrics, nil
}

// 3 GetLogs 分页获取问答记录，可按亭/动作/会话过滤
func (s *ChatbotService) GetLogs(query models.PaginationQuery, kioskID, action, sessionID string) ([]models.ChatbotInteraction, int64, error) {
	if query.PageNum < 1 {
		query.PageNum = 1
	}
	if query.PageSize < 1 || query.PageSize > 100 {
		query.PageSize = 20
	}

	db := s.DB.Model(&models.ChatbotInteraction{})
	if kioskID != "" {
		db = db.Where("kiosk_id = ?", kioskID)
	}
	if action != "" {
		db = db.Where("action = ?", action)
	}
	if sessionID != "" {
		db = db.Where("session_id = ?", sessionID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.ChatbotInteraction
	if err := db.Order("created_at DESC").
		Offset((query.PageNum - 1) * query.PageSize).
		Limit(query.PageSize).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

// 4 GetSessionHistory 获取单个会话的完整问答历史
func (s *ChatbotService) GetSessionHistory(sessionID string) (*SessionHistory, error) {
	var interactions []models.ChatbotInteraction
	if err := s.DB.Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&interactions).Error; err != nil {
		return nil, err
	}

	history := &SessionHistory{
		SessionID:    sessionID,
		Interactions: interactions,
		Total:        int64(len(interactions)),
	}

	if len(interactions) > 0 {
		var sum int64
		for _, it := range interactions {
			sum += it.ResponseTime
		}
		history.AvgResponseTime = float64(sum) / float64(len(interactions))
		history.FirstSeen = &interactions[0].CreatedAt
		history.LastSeen = &interactions[len(interactions)-1].CreatedAt
	}

	return history, nil
}

// 5 ClearOldInteractions 清理超过保留期的问答记录
func (s *ChatbotService) ClearOldInteractions(days int) (int64, error) {
	if days <= 0 {
		days = s.Config.LogRetentionDays
	}
	cutoff := time.Now().AddDate(0, 0, -days)

	result := s.DB.Where("created_at < ?", cutoff).Delete(&models.ChatbotInteraction{})
	return result.RowsAffected, result.Error
}
