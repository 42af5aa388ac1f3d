package services

import (
	"errors"
	"time"
	"unicode/utf8"

	"marciaknow-http-service/internal/domain/models"
	"marciaknow-http-service/internal/infrastructure/config"

	"gorm.io/gorm"
)

// 反馈服务的业务错误
var (
	ErrFeedbackNotFound       = errors.New("反馈不存在")
	ErrInvalidCategory        = errors.New("反馈类别无效")
	ErrInvalidStatus          = errors.New("反馈状态无效")
	ErrInvalidPriority        = errors.New("反馈优先级无效")
	ErrTooManyAttachments     = errors.New("附件数量超出限制")
	ErrFeedbackMessageEmpty   = errors.New("反馈内容不能为空")
	ErrFeedbackMessageTooLong = errors.New("反馈内容超出长度限制")
)

// FeedbackFilter 反馈列表过滤条件
type FeedbackFilter struct {
	Category      string
	Status        string
	Priority      string
	KioskLocation string
	StartDate     *time.Time
	EndDate       *time.Time
}

// NamedCount 通用的名称-数量统计项
type NamedCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// FeedbackStats 反馈统计
type FeedbackStats struct {
	Total      int64        `json:"total"`
	ByCategory []NamedCount `json:"byCategory"`
	ByStatus   []NamedCount `json:"byStatus"`
	ByPriority []NamedCount `json:"byPriority"`
}

// InterfaceFeedbackService defines the feedback service interface
type InterfaceFeedbackService interface {
	Submit(feedback *models.Feedback, attachments []models.Image) (*models.Feedback, error)
	GetFeedbacks(query models.PaginationQuery, filter FeedbackFilter) ([]models.Feedback, int64, error)
	GetFeedbackByID(id uint) (*models.Feedback, error)
	UpdateFeedback(id uint, updates map[string]interface{}) (*models.Feedback, error)
	DeleteFeedback(id uint) error
	BulkUpdateStatus(ids []uint, status string) (int64, error)
	GetStats() (*FeedbackStats, error)
}

// FeedbackService 提供访客反馈相关的服务
type FeedbackService struct {
	DB     *gorm.DB
	Config *config.Config
	Images InterfaceImageService
}

// NewFeedbackService 创建一个新的反馈服务
func NewFeedbackService(db *gorm.DB, cfg *config.Config, images InterfaceImageService) InterfaceFeedbackService {
	return &FeedbackService{
		DB:     db,
		Config: cfg,
		Images: images,
	}
}

// 1 Submit 提交反馈，默认状态 New、优先级 Medium
func (s *FeedbackService) Submit(feedback *models.Feedback, attachments []models.Image) (*models.Feedback, error) {
	if feedback.Message == "" {
		return nil, ErrFeedbackMessageEmpty
	}
	if utf8.RuneCountInString(feedback.Message) > models.MaxFeedbackMessageLength {
		return nil, ErrFeedbackMessageTooLong
	}
	if !models.IsValidFeedbackCategory(feedback.Category) {
		return nil, ErrInvalidCategory
	}
	if len(attachments) > models.MaxFeedbackAttachments {
		return nil, ErrTooManyAttachments
	}

	if feedback.Status == "" {
		feedback.Status = models.FeedbackStatusNew
	}
	if feedback.Priority == "" {
		feedback.Priority = models.FeedbackPriorityMedium
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(feedback).Error; err != nil {
			return err
		}
		for i := range attachments {
			attachments[i].FeedbackID = &feedback.ID
			if err := tx.Create(&attachments[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetFeedbackByID(feedback.ID)
}

// 2 GetFeedbacks 分页获取反馈列表
func (s *FeedbackService) GetFeedbacks(query models.PaginationQuery, filter FeedbackFilter) ([]models.Feedback, int64, error) {
	if query.PageNum < 1 {
		query.PageNum = 1
	}
	if query.PageSize < 1 || query.PageSize > 100 {
		query.PageSize = 20
	}

	db := s.DB.Model(&models.Feedback{})
	if filter.Category != "" {
		db = db.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		db = db.Where("priority = ?", filter.Priority)
	}
	if filter.KioskLocation != "" {
		db = db.Where("kiosk_location LIKE ?", "%"+filter.KioskLocation+"%")
	}
	if filter.StartDate != nil {
		db = db.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		db = db.Where("created_at <= ?", *filter.EndDate)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var feedbacks []models.Feedback
	if err := db.Preload("Attachments").
		Order("created_at DESC").
		Offset((query.PageNum - 1) * query.PageSize).
		Limit(query.PageSize).
		Find(&feedbacks).Error; err != nil {
		return nil, 0, err
	}

	return feedbacks, total, nil
}

// 3 GetFeedbackByID 根据ID获取反馈详情
func (s *FeedbackService) GetFeedbackByID(id uint) (*models.Feedback, error) {
	var feedback models.Feedback
	if err := s.DB.Preload("Attachments").First(&feedback, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeedbackNotFound
		}
		return nil, err
	}

	return &feedback, nil
}

// 4 UpdateFeedback 更新反馈处理信息，状态与优先级需为合法取值
func (s *FeedbackService) UpdateFeedback(id uint, updates map[string]interface{}) (*models.Feedback, error) {
	feedback, err := s.GetFeedbackByID(id)
	if err != nil {
		return nil, err
	}

	if status, ok := updates["status"].(string); ok && !models.IsValidFeedbackStatus(status) {
		return nil, ErrInvalidStatus
	}
	if priority, ok := updates["priority"].(string); ok && !models.IsValidFeedbackPriority(priority) {
		return nil, ErrInvalidPriority
	}

	if err := s.DB.Model(feedback).Updates(updates).Error; err != nil {
		return nil, err
	}

	return s.GetFeedbackByID(id)
}

// 5 DeleteFeedback 删除反馈及其附件
func (s *FeedbackService) DeleteFeedback(id uint) error {
	feedback, err := s.GetFeedbackByID(id)
	if err != nil {
		return err
	}

	var removedFiles []string
	for _, img := range feedback.Attachments {
		removedFiles = append(removedFiles, img.FilePath)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("feedback_id = ?", id).Delete(&models.Image{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Feedback{}, id).Error
	})
	if err != nil {
		return err
	}

	if len(removedFiles) > 0 {
		s.Images.DeleteImages(removedFiles)
	}

	return nil
}

// 6 BulkUpdateStatus 批量更新反馈状态
func (s *FeedbackService) BulkUpdateStatus(ids []uint, status string) (int64, error) {
	if !models.IsValidFeedbackStatus(status) {
		return 0, ErrInvalidStatus
	}
	if len(ids) == 0 {
		return 0, nil
	}

	result := s.DB.Model(&models.Feedback{}).Where("id IN ?", ids).Update("status", status)
	return result.RowsAffected, result.Error
}

// 7 GetStats 获取按类别/状态/优先级的反馈统计
func (s *FeedbackService) GetStats() (*FeedbackStats, error) {
	stats := &FeedbackStats{}

	if err := s.DB.Model(&models.Feedback{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	if err := s.DB.Model(&models.Feedback{}).
		Select("category AS name, COUNT(*) AS count").
		Group("category").
		Scan(&stats.ByCategory).Error; err != nil {
		return nil, err
	}

	if err := s.DB.Model(&models.Feedback{}).
		Select("status AS name, COUNT(*) AS count").
		Group("status").
		Scan(&stats.ByStatus).Error; err != nil {
		return nil, err
	}

	if err := s.DB.Model(&models.Feedback{}).
		Select("priority AS name, COUNT(*) AS count").
		Group("priority").
		Scan(&stats.ByPriority).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
