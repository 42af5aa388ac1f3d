package services

import (
	"errors"
	"fmt"
	"time"

	"marciaknow-http-service/internal/domain/models"
	"marciaknow-http-service/internal/infrastructure/config"
	Logger "marciaknow-http-service/pkg/logger"
	"marciaknow-http-service/utils"

	"gorm.io/gorm"
)

// InterfaceKioskService defines the kiosk service interface
type InterfaceKioskService interface {
	GetAllKiosks() ([]models.Kiosk, error)
	GetKioskByID(kioskID string) (*models.Kiosk, error)
	CreateKiosk(kiosk *models.Kiosk, adminID uint, adminName string) error
	UpdateKiosk(kioskID string, updates map[string]interface{}, adminID uint, adminName string) (*models.Kiosk, error)
	DeleteKiosk(kioskID string, adminID uint, adminName string) error
	Ping(kioskID string) error
	MarkStaleOffline(threshold time.Duration) (int64, error)
}

// KioskService 提供信息亭相关的服务
type KioskService struct {
	DB          *gorm.DB
	Config      *config.Config
	Propagation InterfacePropagationService
	Images      InterfaceImageService
	Logs        InterfaceSystemLogService
}

// NewKioskService 创建一个新的信息亭服务
func NewKioskService(db *gorm.DB, cfg *config.Config, propagation InterfacePropagationService, images InterfaceImageService, logs InterfaceSystemLogService) InterfaceKioskService {
	return &KioskService{
		DB:          db,
		Config:      cfg,
		Propagation: propagation,
		Images:      images,
		Logs:        logs,
	}
}

// 1 GetAllKiosks 获取所有信息亭列表
func (s *KioskService) GetAllKiosks() ([]models.Kiosk, error) {
	var kiosks []models.Kiosk
	if err := s.DB.Order("kiosk_id ASC").Find(&kiosks).Error; err != nil {
		return nil, err
	}

	return kiosks, nil
}

// 2 GetKioskByID 根据编号获取信息亭
func (s *KioskService) GetKioskByID(kioskID string) (*models.Kiosk, error) {
	var kiosk models.Kiosk
	if err := s.DB.Where("kiosk_id = ?", kioskID).First(&kiosk).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("信息亭不存在")
		}
		return nil, err
	}

	return &kiosk, nil
}

// 3 CreateKiosk 创建新信息亭并向所有楼栋传播
func (s *KioskService) CreateKiosk(kiosk *models.Kiosk, adminID uint, adminName string) error {
	// 生成唯一编号，冲突时重试
	generated := false
	for attempt := 0; attempt < 10; attempt++ {
		candidate := utils.GenerateKioskID()
		var count int64
		if err := s.DB.Model(&models.Kiosk{}).Where("kiosk_id = ?", candidate).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			kiosk.KioskID = candidate
			generated = true
			break
		}
	}
	if !generated {
		return errors.New("信息亭编号生成失败")
	}

	// 设置默认状态
	if kiosk.Status == "" {
		kiosk.Status = models.KioskStatusOffline
	}
	kiosk.AddedBy = adminName

	if err := s.DB.Create(kiosk).Error; err != nil {
		return err
	}

	// 为所有楼栋补齐该亭的导航条目
	if err := s.Propagation.OnKioskCreated(kiosk); err != nil {
		Logger.Error("信息亭 %s 创建后传播失败: %v", kiosk.KioskID, err)
	}

	if err := s.Logs.CreateLog(&models.SystemLog{
		AdminID:     adminID,
		AdminName:   adminName,
		Category:    models.LogCategoryKiosk,
		Action:      "Added Kiosk",
		Description: fmt.Sprintf("kiosk '%s' created at (%.1f, %.1f)", kiosk.Name, kiosk.CoordinateX, kiosk.CoordinateY),
		KioskID:     kiosk.KioskID,
		KioskName:   kiosk.Name,
	}); err != nil {
		Logger.Warning("记录信息亭创建日志失败: %v", err)
	}

	return nil
}

// 4 UpdateKiosk 更新信息亭信息，坐标变化时传播到导航数据
func (s *KioskService) UpdateKiosk(kioskID string, updates map[string]interface{}, adminID uint, adminName string) (*models.Kiosk, error) {
	kiosk, err := s.GetKioskByID(kioskID)
	if err != nil {
		return nil, err
	}

	// 组装变更描述
	var changes []string
	if name, ok := updates["name"].(string); ok {
		changes = AppendChange(changes, "name", kiosk.Name, name)
	}
	if location, ok := updates["location"].(string); ok {
		changes = AppendChange(changes, "location", kiosk.Location, location)
	}
	if status, ok := updates["status"].(string); ok {
		changes = AppendChange(changes, "status", string(kiosk.Status), status)
	}

	// 检测坐标变更
	coordinateChanged := false
	newX, newY := kiosk.CoordinateX, kiosk.CoordinateY
	if x, ok := updates["coordinate_x"].(float64); ok && x != kiosk.CoordinateX {
		coordinateChanged = true
		newX = x
	}
	if y, ok := updates["coordinate_y"].(float64); ok && y != kiosk.CoordinateY {
		coordinateChanged = true
		newY = y
	}
	if coordinateChanged {
		changes = append(changes, fmt.Sprintf("coordinates changed from (%.1f, %.1f) to (%.1f, %.1f)",
			kiosk.CoordinateX, kiosk.CoordinateY, newX, newY))
	}

	updates["edited_by"] = adminName
	if err := s.DB.Model(kiosk).Updates(updates).Error; err != nil {
		return nil, err
	}

	// 坐标变化重写各导航路径的起点
	if coordinateChanged {
		if err := s.Propagation.OnKioskCoordinatesChanged(kioskID, newX, newY); err != nil {
			Logger.Error("信息亭 %s 坐标传播失败: %v", kioskID, err)
		}
	}

	if len(changes) > 0 {
		if err := s.Logs.CreateLog(&models.SystemLog{
			AdminID:     adminID,
			AdminName:   adminName,
			Category:    models.LogCategoryKiosk,
			Action:      "Edited Kiosk",
			Description: ChangeSummary(changes),
			KioskID:     kiosk.KioskID,
			KioskName:   kiosk.Name,
		}); err != nil {
			Logger.Warning("记录信息亭更新日志失败: %v", err)
		}
	}

	return s.GetKioskByID(kioskID)
}

// 5 DeleteKiosk 删除信息亭并清理其在各楼栋下的导航数据
func (s *KioskService) DeleteKiosk(kioskID string, adminID uint, adminName string) error {
	kiosk, err := s.GetKioskByID(kioskID)
	if err != nil {
		return err
	}

	if err := s.DB.Delete(kiosk).Error; err != nil {
		return err
	}

	orphaned, err := s.Propagation.OnKioskDeleted(kioskID)
	if err != nil {
		Logger.Error("信息亭 %s 删除传播失败: %v", kioskID, err)
	}
	if len(orphaned) > 0 {
		s.Images.DeleteImages(orphaned)
	}

	if err := s.Logs.CreateLog(&models.SystemLog{
		AdminID:     adminID,
		AdminName:   adminName,
		Category:    models.LogCategoryKiosk,
		Action:      "Deleted Kiosk",
		Description: fmt.Sprintf("kiosk '%s' deleted", kiosk.Name),
		KioskID:     kiosk.KioskID,
		KioskName:   kiosk.Name,
	}); err != nil {
		Logger.Warning("记录信息亭删除日志失败: %v", err)
	}

	return nil
}

// 6 Ping 信息亭心跳上报，刷新在线状态
func (s *KioskService) Ping(kioskID string) error {
	kiosk, err := s.GetKioskByID(kioskID)
	if err != nil {
		return err
	}

	now := time.Now()
	return s.DB.Model(kiosk).Updates(map[string]interface{}{
		"status":        models.KioskStatusOnline,
		"last_check_in": now,
	}).Error
}

// 7 MarkStaleOffline 将超过阈值未上报的在线信息亭标记为离线
func (s *KioskService) MarkStaleOffline(threshold time.Duration) (int64, error) {
	cutoff := time.Now().Add(-threshold)

	result := s.DB.Model(&models.Kiosk{}).
		Where("status = ? AND (last_check_in IS NULL OR last_check_in < ?)", models.KioskStatusOnline, cutoff).
		Update("status", models.KioskStatusOffline)

	return result.RowsAffected, result.Error
}
