package services

import (
	"errors"
	"fmt"
	"strconv"

	"marciaknow-http-service/internal/domain/models"
	"marciaknow-http-service/internal/infrastructure/config"
	Logger "marciaknow-http-service/pkg/logger"
	"marciaknow-http-service/utils"

	"gorm.io/gorm"
)

// RoomCreateInput 新增房间的输入
type RoomCreateInput struct {
	Name            string
	Description     string
	Floor           int
	NavigationPath  models.PathPoints
	NavigationGuide models.GuideSteps
	Images          []models.Image
}

// RoomUpdateInput 更新房间的输入，nil 字段表示不修改
type RoomUpdateInput struct {
	Name             *string
	Description      *string
	Floor            *int
	NavigationPath   *models.PathPoints
	NavigationGuide  *models.GuideSteps
	NewImages        []models.Image
	RetainedImageIDs []uint // nil 表示保留全部现有图片
}

// InterfaceRoomService defines the room service interface
type InterfaceRoomService interface {
	GetRoomsByKiosk(buildingID uint, kioskID string) ([]RoomDetail, error)
	AddRoom(buildingID uint, kioskID string, input *RoomCreateInput, adminID uint, adminName string) (*models.Room, error)
	UpdateRoom(buildingID uint, kioskID string, roomID uint, input *RoomUpdateInput, adminID uint, adminName string) (*models.Room, error)
	DeleteRoom(buildingID uint, roomKey string, name string, floor int, adminID uint, adminName string) error
}

// RoomService 提供房间相关的服务
type RoomService struct {
	DB     *gorm.DB
	Config *config.Config
	Images InterfaceImageService
	Logs   InterfaceSystemLogService
}

// NewRoomService 创建一个新的房间服务
func NewRoomService(db *gorm.DB, cfg *config.Config, images InterfaceImageService, logs InterfaceSystemLogService) InterfaceRoomService {
	return &RoomService{
		DB:     db,
		Config: cfg,
		Images: images,
		Logs:   logs,
	}
}

// 1 GetRoomsByKiosk 获取某楼栋在指定信息亭下的房间列表
func (s *RoomService) GetRoomsByKiosk(buildingID uint, kioskID string) ([]RoomDetail, error) {
	var rooms []models.Room
	if err := s.DB.Where("building_id = ? AND kiosk_id = ?", buildingID, kioskID).
		Order("floor ASC, name ASC").Find(&rooms).Error; err != nil {
		return nil, err
	}

	details := make([]RoomDetail, 0, len(rooms))
	for _, room := range rooms {
		var images []models.Image
		if err := s.DB.Where("room_key = ?", room.RoomKey).Find(&images).Error; err != nil {
			return nil, err
		}
		details = append(details, RoomDetail{Room: room, Images: images})
	}

	return details, nil
}

// 2 AddRoom 在楼栋下新增房间。基础字段扇出到该楼栋的所有信息亭，
// 导航数据只落在发起亭；同一房间的各亭条目共享分组键与图片。
func (s *RoomService) AddRoom(buildingID uint, kioskID string, input *RoomCreateInput, adminID uint, adminName string) (*models.Room, error) {
	var building models.Building
	if err := s.DB.First(&building, buildingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("楼栋不存在")
		}
		return nil, err
	}

	var kiosk models.Kiosk
	if err := s.DB.Where("kiosk_id = ?", kioskID).First(&kiosk).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("信息亭不存在")
		}
		return nil, err
	}

	var kiosks []models.Kiosk
	if err := s.DB.Find(&kiosks).Error; err != nil {
		return nil, err
	}

	roomKey := utils.GenerateRoomKey()
	var created models.Room

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for _, k := range kiosks {
			room := models.Room{
				RoomKey:         roomKey,
				BuildingID:      buildingID,
				KioskID:         k.KioskID,
				Name:            input.Name,
				Description:     input.Description,
				Floor:           input.Floor,
				NavigationPath:  models.PathPoints{},
				NavigationGuide: models.GuideSteps{},
			}
			if k.KioskID == kioskID {
				room.NavigationPath = input.NavigationPath
				room.NavigationGuide = input.NavigationGuide
			}
			if err := tx.Create(&room).Error; err != nil {
				return err
			}
			if k.KioskID == kioskID {
				created = room
			}
		}

		// 图片按分组键挂载，所有亭的条目共享
		for i := range input.Images {
			input.Images[i].RoomKey = roomKey
			if err := tx.Create(&input.Images[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.Logs.CreateLog(&models.SystemLog{
		AdminID:      adminID,
		AdminName:    adminName,
		Category:     models.LogCategoryRoom,
		Action:       "Added Room",
		Description:  fmt.Sprintf("room '%s' added on floor %d", input.Name, input.Floor),
		KioskID:      kiosk.KioskID,
		KioskName:    kiosk.Name,
		BuildingID:   &building.ID,
		BuildingName: building.Name,
		RoomName:     input.Name,
		Floor:        input.Floor,
	}); err != nil {
		Logger.Warning("记录房间新增日志失败: %v", err)
	}

	return &created, nil
}

// 3 UpdateRoom 更新房间。基础字段同步到同分组的所有亭条目，
// 导航数据只更新指定亭；图片按保留列表做差量删除。
func (s *RoomService) UpdateRoom(buildingID uint, kioskID string, roomID uint, input *RoomUpdateInput, adminID uint, adminName string) (*models.Room, error) {
	var room models.Room
	if err := s.DB.Where("id = ? AND building_id = ? AND kiosk_id = ?", roomID, buildingID, kioskID).
		First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("房间不存在")
		}
		return nil, err
	}

	var changes []string
	sharedUpdates := make(map[string]interface{})
	if input.Name != nil && *input.Name != "" {
		changes = AppendChange(changes, "name", room.Name, *input.Name)
		sharedUpdates["name"] = *input.Name
	}
	if input.Description != nil {
		changes = AppendChange(changes, "description", room.Description, *input.Description)
		sharedUpdates["description"] = *input.Description
	}
	if input.Floor != nil {
		changes = AppendChange(changes, "floor", strconv.Itoa(room.Floor), strconv.Itoa(*input.Floor))
		sharedUpdates["floor"] = *input.Floor
	}

	var removedFiles []string

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// 基础字段扇出到同分组的所有条目
		if len(sharedUpdates) > 0 {
			if err := tx.Model(&models.Room{}).
				Where("room_key = ?", room.RoomKey).
				Updates(sharedUpdates).Error; err != nil {
				return err
			}
		}

		// 导航数据只属于发起亭，内容一致时跳过
		navUpdates := make(map[string]interface{})
		if input.NavigationPath != nil && !room.NavigationPath.Equal(*input.NavigationPath) {
			navUpdates["navigation_path"] = *input.NavigationPath
			changes = append(changes, fmt.Sprintf("navigation path updated for kiosk %s", kioskID))
		}
		if input.NavigationGuide != nil && !room.NavigationGuide.Equal(*input.NavigationGuide) {
			navUpdates["navigation_guide"] = *input.NavigationGuide
			changes = append(changes, fmt.Sprintf("navigation guide updated for kiosk %s", kioskID))
		}
		if len(navUpdates) > 0 {
			if err := tx.Model(&models.Room{}).Where("id = ?", room.ID).Updates(navUpdates).Error; err != nil {
				return err
			}
		}

		// 图片差量
		if input.RetainedImageIDs != nil {
			retained := make(map[uint]bool, len(input.RetainedImageIDs))
			for _, imgID := range input.RetainedImageIDs {
				retained[imgID] = true
			}

			var existing []models.Image
			if err := tx.Where("room_key = ?", room.RoomKey).Find(&existing).Error; err != nil {
				return err
			}
			for _, img := range existing {
				if retained[img.ID] {
					continue
				}
				removedFiles = append(removedFiles, img.FilePath)
				if err := tx.Delete(&models.Image{}, img.ID).Error; err != nil {
					return err
				}
			}
			if len(removedFiles) > 0 {
				changes = append(changes, fmt.Sprintf("%d image(s) removed", len(removedFiles)))
			}
		}

		for i := range input.NewImages {
			input.NewImages[i].RoomKey = room.RoomKey
			if err := tx.Create(&input.NewImages[i]).Error; err != nil {
				return err
			}
		}
		if len(input.NewImages) > 0 {
			changes = append(changes, fmt.Sprintf("%d image(s) added", len(input.NewImages)))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(removedFiles) > 0 {
		s.Images.DeleteImages(removedFiles)
	}

	if len(changes) > 0 {
		var building models.Building
		_ = s.DB.First(&building, buildingID).Error

		if err := s.Logs.CreateLog(&models.SystemLog{
			AdminID:      adminID,
			AdminName:    adminName,
			Category:     models.LogCategoryRoom,
			Action:       "Edited Room",
			Description:  ChangeSummary(changes),
			KioskID:      kioskID,
			BuildingID:   &buildingID,
			BuildingName: building.Name,
			RoomName:     room.Name,
			Floor:        room.Floor,
		}); err != nil {
			Logger.Warning("记录房间更新日志失败: %v", err)
		}
	}

	var updated models.Room
	if err := s.DB.First(&updated, room.ID).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

// 4 DeleteRoom 删除房间在所有信息亭下的条目。优先按分组键删除，
// 分组键缺失时退回按 (名称, 楼层) 匹配，并清理孤儿图片。
func (s *RoomService) DeleteRoom(buildingID uint, roomKey string, name string, floor int, adminID uint, adminName string) error {
	var building models.Building
	if err := s.DB.First(&building, buildingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("楼栋不存在")
		}
		return err
	}

	query := s.DB.Where("building_id = ?", buildingID)
	if roomKey != "" {
		query = query.Where("room_key = ?", roomKey)
	} else {
		query = query.Where("name = ? AND floor = ?", name, floor)
	}

	var rooms []models.Room
	if err := query.Find(&rooms).Error; err != nil {
		return err
	}
	if len(rooms) == 0 {
		return errors.New("房间不存在")
	}

	var removedFiles []string

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		seen := make(map[string]bool)
		for _, room := range rooms {
			if err := tx.Delete(&models.Room{}, room.ID).Error; err != nil {
				return err
			}

			if seen[room.RoomKey] {
				continue
			}
			seen[room.RoomKey] = true

			var images []models.Image
			if err := tx.Where("room_key = ?", room.RoomKey).Find(&images).Error; err != nil {
				return err
			}
			for _, img := range images {
				removedFiles = append(removedFiles, img.FilePath)
			}
			if err := tx.Where("room_key = ?", room.RoomKey).Delete(&models.Image{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if len(removedFiles) > 0 {
		s.Images.DeleteImages(removedFiles)
	}

	if err := s.Logs.CreateLog(&models.SystemLog{
		AdminID:      adminID,
		AdminName:    adminName,
		Category:     models.LogCategoryRoom,
		Action:       "Deleted Room",
		Description:  fmt.Sprintf("room '%s' deleted from all kiosks", rooms[0].Name),
		BuildingID:   &building.ID,
		BuildingName: building.Name,
		RoomName:     rooms[0].Name,
		Floor:        rooms[0].Floor,
	}); err != nil {
		Logger.Warning("记录房间删除日志失败: %v", err)
	}

	return nil
}
