package services

import (
	"errors"
	"fmt"
	"strconv"

	"marciaknow-http-service/internal/domain/models"
	"marciaknow-http-service/internal/infrastructure/config"
	Logger "marciaknow-http-service/pkg/logger"

	"gorm.io/gorm"
)

// RoomDetail 房间条目及其图片
type RoomDetail struct {
	models.Room
	Images []models.Image `json:"images"`
}

// BuildingDetail 楼栋详情，导航数据按信息亭编号分组，
// 保持前端使用的 existingRoom/navigationPath/navigationGuide 形态。
type BuildingDetail struct {
	models.Building
	ExistingRooms    map[string][]RoomDetail      `json:"existingRoom"`
	NavigationPaths  map[string]models.PathPoints `json:"navigationPath"`
	NavigationGuides map[string]models.GuideSteps `json:"navigationGuide"`
}

// BuildingCreateInput 创建楼栋的输入
type BuildingCreateInput struct {
	Name            string
	Description     string
	Path            string
	NumberOfFloor   int
	KioskID         string
	NavigationPath  models.PathPoints
	NavigationGuide models.GuideSteps
	Images          []models.Image
}

// BuildingUpdateInput 更新楼栋的输入，nil 字段表示不修改
type BuildingUpdateInput struct {
	Name             *string
	Description      *string
	Path             *string
	NumberOfFloor    *int
	KioskID          string
	NavigationPath   *models.PathPoints
	NavigationGuide  *models.GuideSteps
	NewImages        []models.Image
	RetainedImageIDs []uint // nil 表示保留全部现有图片
}

// InterfaceBuildingService defines the building service interface
type InterfaceBuildingService interface {
	GetAllBuildings() ([]BuildingDetail, error)
	GetBuildingByID(id uint) (*BuildingDetail, error)
	CreateBuilding(input *BuildingCreateInput, adminID uint, adminName string) (*models.Building, error)
	UpdateBuilding(id uint, input *BuildingUpdateInput, adminID uint, adminName string) (*models.Building, error)
	DeleteBuilding(id uint, adminID uint, adminName string) error
}

// BuildingService 提供楼栋相关的服务
type BuildingService struct {
	DB     *gorm.DB
	Config *config.Config
	Images InterfaceImageService
	Logs   InterfaceSystemLogService
}

// NewBuildingService 创建一个新的楼栋服务
func NewBuildingService(db *gorm.DB, cfg *config.Config, images InterfaceImageService, logs InterfaceSystemLogService) InterfaceBuildingService {
	return &BuildingService{
		DB:     db,
		Config: cfg,
		Images: images,
		Logs:   logs,
	}
}

// assembleDetail 将楼栋的房间、导航与图片组装为按亭分组的详情
func (s *BuildingService) assembleDetail(building models.Building) (*BuildingDetail, error) {
	detail := &BuildingDetail{
		Building:         building,
		ExistingRooms:    make(map[string][]RoomDetail),
		NavigationPaths:  make(map[string]models.PathPoints),
		NavigationGuides: make(map[string]models.GuideSteps),
	}

	// 楼栋图片
	var buildingImages []models.Image
	if err := s.DB.Where("building_id = ?", building.ID).Find(&buildingImages).Error; err != nil {
		return nil, err
	}
	detail.Images = buildingImages

	// 楼栋级导航条目
	var navs []models.BuildingNavigation
	if err := s.DB.Where("building_id = ?", building.ID).Find(&navs).Error; err != nil {
		return nil, err
	}
	for _, nav := range navs {
		detail.NavigationPaths[nav.KioskID] = nav.NavigationPath
		detail.NavigationGuides[nav.KioskID] = nav.NavigationGuide
	}

	// 房间条目及图片，按房间分组键共享图片
	var rooms []models.Room
	if err := s.DB.Where("building_id = ?", building.ID).Order("floor ASC, name ASC").Find(&rooms).Error; err != nil {
		return nil, err
	}

	roomKeys := make([]string, 0, len(rooms))
	seen := make(map[string]bool)
	for _, room := range rooms {
		if !seen[room.RoomKey] {
			seen[room.RoomKey] = true
			roomKeys = append(roomKeys, room.RoomKey)
		}
	}

	imagesByKey := make(map[string][]models.Image)
	if len(roomKeys) > 0 {
		var roomImages []models.Image
		if err := s.DB.Where("room_key IN ?", roomKeys).Find(&roomImages).Error; err != nil {
			return nil, err
		}
		for _, img := range roomImages {
			imagesByKey[img.RoomKey] = append(imagesByKey[img.RoomKey], img)
		}
	}

	for _, room := range rooms {
		detail.ExistingRooms[room.KioskID] = append(detail.ExistingRooms[room.KioskID], RoomDetail{
			Room:   room,
			Images: imagesByKey[room.RoomKey],
		})
	}

	return detail, nil
}

// 1 GetAllBuildings 获取所有楼栋及其按亭分组的导航数据
func (s *BuildingService) GetAllBuildings() ([]BuildingDetail, error) {
	var buildings []models.Building
	if err := s.DB.Order("id ASC").Find(&buildings).Error; err != nil {
		return nil, err
	}

	details := make([]BuildingDetail, 0, len(buildings))
	for _, building := range buildings {
		detail, err := s.assembleDetail(building)
		if err != nil {
			return nil, err
		}
		details = append(details, *detail)
	}

	return details, nil
}

// 2 GetBuildingByID 根据ID获取楼栋详情
func (s *BuildingService) GetBuildingByID(id uint) (*BuildingDetail, error) {
	var building models.Building
	if err := s.DB.First(&building, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("楼栋不存在")
		}
		return nil, err
	}

	return s.assembleDetail(building)
}

// 3 CreateBuilding 创建新楼栋，并为所有信息亭建立导航条目
func (s *BuildingService) CreateBuilding(input *BuildingCreateInput, adminID uint, adminName string) (*models.Building, error) {
	// 创建楼栋必须挂在一个已存在的信息亭下
	var kiosk models.Kiosk
	if err := s.DB.Where("kiosk_id = ?", input.KioskID).First(&kiosk).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("信息亭不存在")
		}
		return nil, err
	}

	// 名称唯一性
	var count int64
	if err := s.DB.Model(&models.Building{}).Where("name = ?", input.Name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("楼栋名称已存在")
	}

	var kiosks []models.Kiosk
	if err := s.DB.Find(&kiosks).Error; err != nil {
		return nil, err
	}

	building := models.Building{
		Name:          input.Name,
		Description:   input.Description,
		Path:          input.Path,
		NumberOfFloor: input.NumberOfFloor,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&building).Error; err != nil {
			return err
		}

		// 发起亭携带提交的导航数据，其余亭为空条目
		for _, k := range kiosks {
			nav := models.BuildingNavigation{
				BuildingID:      building.ID,
				KioskID:         k.KioskID,
				NavigationPath:  models.PathPoints{},
				NavigationGuide: models.GuideSteps{},
			}
			if k.KioskID == input.KioskID {
				nav.NavigationPath = input.NavigationPath
				nav.NavigationGuide = input.NavigationGuide
			}
			if err := tx.Create(&nav).Error; err != nil {
				return err
			}
		}

		// 关联图片元数据
		for i := range input.Images {
			input.Images[i].BuildingID = &building.ID
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
		Category:     models.LogCategoryBuilding,
		Action:       "Added Building",
		Description:  fmt.Sprintf("building '%s' created with %d floor(s)", building.Name, building.NumberOfFloor),
		KioskID:      kiosk.KioskID,
		KioskName:    kiosk.Name,
		BuildingID:   &building.ID,
		BuildingName: building.Name,
	}); err != nil {
		Logger.Warning("记录楼栋创建日志失败: %v", err)
	}

	return &building, nil
}

// 4 UpdateBuilding 更新楼栋信息。标量字段合并更新，指定亭的导航数据
// 仅在内容确有差异时覆盖，并记录可读的变更描述。
func (s *BuildingService) UpdateBuilding(id uint, input *BuildingUpdateInput, adminID uint, adminName string) (*models.Building, error) {
	var building models.Building
	if err := s.DB.First(&building, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("楼栋不存在")
		}
		return nil, err
	}

	var changes []string
	updates := make(map[string]interface{})
	if input.Name != nil && *input.Name != "" {
		changes = AppendChange(changes, "name", building.Name, *input.Name)
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		changes = AppendChange(changes, "description", building.Description, *input.Description)
		updates["description"] = *input.Description
	}
	if input.Path != nil {
		changes = AppendChange(changes, "path", building.Path, *input.Path)
		updates["path"] = *input.Path
	}
	if input.NumberOfFloor != nil {
		changes = AppendChange(changes, "number of floors",
			strconv.Itoa(building.NumberOfFloor), strconv.Itoa(*input.NumberOfFloor))
		updates["number_of_floor"] = *input.NumberOfFloor
	}

	var removedFiles []string

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&building).Updates(updates).Error; err != nil {
				return err
			}
		}

		// 指定亭的导航数据按内容比较后覆盖
		if input.KioskID != "" && (input.NavigationPath != nil || input.NavigationGuide != nil) {
			var nav models.BuildingNavigation
			err := tx.Where("building_id = ? AND kiosk_id = ?", id, input.KioskID).First(&nav).Error
			if err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
				nav = models.BuildingNavigation{
					BuildingID:      id,
					KioskID:         input.KioskID,
					NavigationPath:  models.PathPoints{},
					NavigationGuide: models.GuideSteps{},
				}
				if err := tx.Create(&nav).Error; err != nil {
					return err
				}
			}

			navUpdates := make(map[string]interface{})
			if input.NavigationPath != nil && !nav.NavigationPath.Equal(*input.NavigationPath) {
				navUpdates["navigation_path"] = *input.NavigationPath
				changes = append(changes, fmt.Sprintf("navigation path updated for kiosk %s", input.KioskID))
			}
			if input.NavigationGuide != nil && !nav.NavigationGuide.Equal(*input.NavigationGuide) {
				navUpdates["navigation_guide"] = *input.NavigationGuide
				changes = append(changes, fmt.Sprintf("navigation guide updated for kiosk %s", input.KioskID))
			}
			if len(navUpdates) > 0 {
				if err := tx.Model(&models.BuildingNavigation{}).Where("id = ?", nav.ID).Updates(navUpdates).Error; err != nil {
					return err
				}
			}
		}

		// 图片差量：保留列表之外的现有图片被删除
		if input.RetainedImageIDs != nil {
			retained := make(map[uint]bool, len(input.RetainedImageIDs))
			for _, imgID := range input.RetainedImageIDs {
				retained[imgID] = true
			}

			var existing []models.Image
			if err := tx.Where("building_id = ?", id).Find(&existing).Error; err != nil {
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

		// 新增图片
		for i := range input.NewImages {
			input.NewImages[i].BuildingID = &building.ID
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

	// 事务提交后再清理二进制文件
	if len(removedFiles) > 0 {
		s.Images.DeleteImages(removedFiles)
	}

	if len(changes) > 0 {
		if err := s.Logs.CreateLog(&models.SystemLog{
			AdminID:      adminID,
			AdminName:    adminName,
			Category:     models.LogCategoryBuilding,
			Action:       "Edited Building",
			Description:  ChangeSummary(changes),
			KioskID:      input.KioskID,
			BuildingID:   &building.ID,
			BuildingName: building.Name,
		}); err != nil {
			Logger.Warning("记录楼栋更新日志失败: %v", err)
		}
	}

	var updated models.Building
	if err := s.DB.First(&updated, id).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

// 5 DeleteBuilding 删除楼栋及其房间、导航条目与图片
func (s *BuildingService) DeleteBuilding(id uint, adminID uint, adminName string) error {
	var building models.Building
	if err := s.DB.First(&building, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("楼栋不存在")
		}
		return err
	}

	var removedFiles []string

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// 楼栋图片
		var buildingImages []models.Image
		if err := tx.Where("building_id = ?", id).Find(&buildingImages).Error; err != nil {
			return err
		}
		for _, img := range buildingImages {
			removedFiles = append(removedFiles, img.FilePath)
		}
		if err := tx.Where("building_id = ?", id).Delete(&models.Image{}).Error; err != nil {
			return err
		}

		// 房间图片（按分组键）
		var rooms []models.Room
		if err := tx.Where("building_id = ?", id).Find(&rooms).Error; err != nil {
			return err
		}
		seen := make(map[string]bool)
		for _, room := range rooms {
			if seen[room.RoomKey] {
				continue
			}
			seen[room.RoomKey] = true

			var roomImages []models.Image
			if err := tx.Where("room_key = ?", room.RoomKey).Find(&roomImages).Error; err != nil {
				return err
			}
			for _, img := range roomImages {
				removedFiles = append(removedFiles, img.FilePath)
			}
			if err := tx.Where("room_key = ?", room.RoomKey).Delete(&models.Image{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("building_id = ?", id).Delete(&models.Room{}).Error; err != nil {
			return err
		}
		if err := tx.Where("building_id = ?", id).Delete(&models.BuildingNavigation{}).Error; err != nil {
			return err
		}

		return tx.Delete(&building).Error
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
		Category:     models.LogCategoryBuilding,
		Action:       "Deleted Building",
		Description:  fmt.Sprintf("building '%s' deleted", building.Name),
		BuildingID:   &building.ID,
		BuildingName: building.Name,
	}); err != nil {
		Logger.Warning("记录楼栋删除日志失败: %v", err)
	}

	return nil
}
