package services

import (
	"errors"

	"marciaknow-http-service/internal/domain/models"
	"marciaknow-http-service/internal/infrastructure/config"
	Logger "marciaknow-http-service/pkg/logger"

	"gorm.io/gorm"
)

// InterfacePropagationService defines the kiosk propagation service interface.
// 信息亭的增删与坐标变更需要同步到每栋楼的按亭导航数据中，
// 保证 (楼栋, 在线信息亭) 的导航条目始终一一对应。
type InterfacePropagationService interface {
	OnKioskCreated(kiosk *models.Kiosk) error
	OnKioskCoordinatesChanged(kioskID string, x, y float64) error
	OnKioskDeleted(kioskID string) ([]string, error)
}

// PropagationService 提供信息亭数据传播相关的服务
type PropagationService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewPropagationService 创建一个新的传播服务
func NewPropagationService(db *gorm.DB, cfg *config.Config) InterfacePropagationService {
	return &PropagationService{
		DB:     db,
		Config: cfg,
	}
}

// 1 OnKioskCreated 新信息亭创建后，为每栋楼补齐该亭的导航条目：
// 楼栋级条目为空导航，房间条目从参考亭复制基础字段（名称/描述/楼层），
// 导航数据不继承。逐楼栋独立事务，单栋失败只记录日志并跳过。
func (s *PropagationService) OnKioskCreated(kiosk *models.Kiosk) error {
	var buildings []models.Building
	if err := s.DB.Find(&buildings).Error; err != nil {
		return err
	}

	// 参考亭：最早创建的其他信息亭
	var reference models.Kiosk
	hasReference := true
	err := s.DB.Where("kiosk_id != ?", kiosk.KioskID).Order("id ASC").First(&reference).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		hasReference = false
	}

	for _, building := range buildings {
		buildingID := building.ID
		txErr := s.DB.Transaction(func(tx *gorm.DB) error {
			// 楼栋级导航条目，空路径空指引
			nav := models.BuildingNavigation{
				BuildingID:      buildingID,
				KioskID:         kiosk.KioskID,
				NavigationPath:  models.PathPoints{},
				NavigationGuide: models.GuideSteps{},
			}
			if err := tx.Where("building_id = ? AND kiosk_id = ?", buildingID, kiosk.KioskID).
				FirstOrCreate(&nav).Error; err != nil {
				return err
			}

			if !hasReference {
				return nil
			}

			// 从参考亭复制房间基础字段
			var referenceRooms []models.Room
			if err := tx.Where("building_id = ? AND kiosk_id = ?", buildingID, reference.KioskID).
				Find(&referenceRooms).Error; err != nil {
				return err
			}

			for _, room := range referenceRooms {
				var count int64
				if err := tx.Model(&models.Room{}).
					Where("room_key = ? AND kiosk_id = ?", room.RoomKey, kiosk.KioskID).
					Count(&count).Error; err != nil {
					return err
				}
				if count > 0 {
					continue
				}

				copied := models.Room{
					RoomKey:         room.RoomKey,
					BuildingID:      buildingID,
					KioskID:         kiosk.KioskID,
					Name:            room.Name,
					Description:     room.Description,
					Floor:           room.Floor,
					NavigationPath:  models.PathPoints{},
					NavigationGuide: models.GuideSteps{},
				}
				if err := tx.Create(&copied).Error; err != nil {
					return err
				}
			}

			return nil
		})

		if txErr != nil {
			Logger.Error("信息亭 %s 传播到楼栋 %d 失败: %v", kiosk.KioskID, buildingID, txErr)
		}
	}

	return nil
}

// 2 OnKioskCoordinatesChanged 信息亭坐标变更后，重写该亭在所有楼栋
// 导航路径中的首个路径点，其余路径点与空路径不受影响。
func (s *PropagationService) OnKioskCoordinatesChanged(kioskID string, x, y float64) error {
	var buildings []models.Building
	if err := s.DB.Find(&buildings).Error; err != nil {
		return err
	}

	origin := models.PathPoint{X: x, Y: y}

	for _, building := range buildings {
		buildingID := building.ID
		txErr := s.DB.Transaction(func(tx *gorm.DB) error {
			// 楼栋级导航路径
			var navs []models.BuildingNavigation
			if err := tx.Where("building_id = ? AND kiosk_id = ?", buildingID, kioskID).
				Find(&navs).Error; err != nil {
				return err
			}
			for i := range navs {
				if len(navs[i].NavigationPath) == 0 {
					continue
				}
				navs[i].NavigationPath[0] = origin
				if err := tx.Model(&models.BuildingNavigation{}).
					Where("id = ?", navs[i].ID).
					Update("navigation_path", navs[i].NavigationPath).Error; err != nil {
					return err
				}
			}

			// 房间级导航路径
			var rooms []models.Room
			if err := tx.Where("building_id = ? AND kiosk_id = ?", buildingID, kioskID).
				Find(&rooms).Error; err != nil {
				return err
			}
			for i := range rooms {
				if len(rooms[i].NavigationPath) == 0 {
					continue
				}
				rooms[i].NavigationPath[0] = origin
				if err := tx.Model(&models.Room{}).
					Where("id = ?", rooms[i].ID).
					Update("navigation_path", rooms[i].NavigationPath).Error; err != nil {
					return err
				}
			}

			return nil
		})

		if txErr != nil {
			Logger.Error("信息亭 %s 坐标传播到楼栋 %d 失败: %v", kioskID, buildingID, txErr)
		}
	}

	return nil
}

// 3 OnKioskDeleted 信息亭删除后，移除该亭在所有楼栋下的房间与导航条目，
// 返回因此失去全部宿主房间的孤儿图片文件名，供调用方清理存储。
func (s *PropagationService) OnKioskDeleted(kioskID string) ([]string, error) {
	var buildings []models.Building
	if err := s.DB.Find(&buildings).Error; err != nil {
		return nil, err
	}

	var orphanedFiles []string

	for _, building := range buildings {
		buildingID := building.ID
		txErr := s.DB.Transaction(func(tx *gorm.DB) error {
			// 删除前记录受影响的房间分组
			var affected []models.Room
			if err := tx.Where("building_id = ? AND kiosk_id = ?", buildingID, kioskID).
				Find(&affected).Error; err != nil {
				return err
			}

			if err := tx.Where("building_id = ? AND kiosk_id = ?", buildingID, kioskID).
				Delete(&models.Room{}).Error; err != nil {
				return err
			}

			if err := tx.Where("building_id = ? AND kiosk_id = ?", buildingID, kioskID).
				Delete(&models.BuildingNavigation{}).Error; err != nil {
				return err
			}

			// 分组下已无任何亭的房间时，其图片成为孤儿
			for _, room := range affected {
				var remaining int64
				if err := tx.Model(&models.Room{}).
					Where("room_key = ?", room.RoomKey).
					Count(&remaining).Error; err != nil {
					return err
				}
				if remaining > 0 {
					continue
				}

				var images []models.Image
				if err := tx.Where("room_key = ?", room.RoomKey).Find(&images).Error; err != nil {
					return err
				}
				for _, img := range images {
					orphanedFiles = append(orphanedFiles, img.FilePath)
				}
				if err := tx.Where("room_key = ?", room.RoomKey).Delete(&models.Image{}).Error; err != nil {
					return err
				}
			}

			return nil
		})

		if txErr != nil {
			Logger.Error("信息亭 %s 删除传播到楼栋 %d 失败: %v", kioskID, buildingID, txErr)
		}
	}

	return orphanedFiles, nil
}
