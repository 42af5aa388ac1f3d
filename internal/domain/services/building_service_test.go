package services

import (
	"testing"

	"marciaknow-http-service/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestBuildingService(t *testing.T, db *gorm.DB) InterfaceBuildingService {
	t.Helper()

	cfg := testConfig()
	images, _ := newTestImageService(t)
	logs := NewSystemLogService(db, cfg)
	return NewBuildingService(db, cfg, images, logs)
}

func TestCreateBuildingSeedsNavigationForAllKiosks(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestBuildingService(t, db)

	origin := seedKiosk(t, db, "K100A1Y1", "North", 0, 0)
	other := seedKiosk(t, db, "K200B2Y2", "South", 0, 0)

	building, err := svc.CreateBuilding(&BuildingCreateInput{
		Name:            "Library",
		Description:     "Main campus library",
		NumberOfFloor:   4,
		KioskID:         origin.KioskID,
		NavigationPath:  models.PathPoints{{X: 1, Y: 2}, {X: 3, Y: 4}},
		NavigationGuide: models.GuideSteps{{Icon: "straight", Description: "Head north"}},
		Images:          []models.Image{{FilePath: "library.jpg"}},
	}, 1, "Alice Admin")
	require.NoError(t, err)
	assert.NotZero(t, building.ID)

	// 发起亭携带提交的导航数据
	var originNav models.BuildingNavigation
	require.NoError(t, db.Where("building_id = ? AND kiosk_id = ?", building.ID, origin.KioskID).First(&originNav).Error)
	assert.Len(t, originNav.NavigationPath, 2)
	assert.Len(t, originNav.NavigationGuide, 1)

	// 其余亭得到空条目
	var otherNav models.BuildingNavigation
	require.NoError(t, db.Where("building_id = ? AND kiosk_id = ?", building.ID, other.KioskID).First(&otherNav).Error)
	assert.Empty(t, otherNav.NavigationPath)
	assert.Empty(t, otherNav.NavigationGuide)

	// 图片挂在楼栋上
	var imageCount int64
	require.NoError(t, db.Model(&models.Image{}).Where("building_id = ?", building.ID).Count(&imageCount).Error)
	assert.EqualValues(t, 1, imageCount)
}

func TestCreateBuildingRejectsDuplicateName(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestBuildingService(t, db)

	origin := seedKiosk(t, db, "K300C3Y3", "North", 0, 0)
	seedBuilding(t, db, "Library")

	_, err := svc.CreateBuilding(&BuildingCreateInput{
		Name:    "Library",
		KioskID: origin.KioskID,
	}, 1, "Alice Admin")
	require.Error(t, err)
	assert.Equal(t, "楼栋名称已存在", err.Error())

	_, err = svc.CreateBuilding(&BuildingCreateInput{
		Name:    "Gym",
		KioskID: "K999Z9Y9",
	}, 1, "Alice Admin")
	require.Error(t, err)
	assert.Equal(t, "信息亭不存在", err.Error())
}

func TestUpdateBuildingNavigationPerKiosk(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestBuildingService(t, db)

	origin := seedKiosk(t, db, "K400D4Y4", "North", 0, 0)
	other := seedKiosk(t, db, "K500E5Y5", "South", 0, 0)

	building, err := svc.CreateBuilding(&BuildingCreateInput{
		Name:    "Science Hall",
		KioskID: origin.KioskID,
	}, 1, "Alice Admin")
	require.NoError(t, err)

	newName := "Science Center"
	newPath := models.PathPoints{{X: 7, Y: 8}}
	_, err = svc.UpdateBuilding(building.ID, &BuildingUpdateInput{
		Name:           &newName,
		KioskID:        other.KioskID,
		NavigationPath: &newPath,
	}, 1, "Alice Admin")
	require.NoError(t, err)

	var reloaded models.Building
	require.NoError(t, db.First(&reloaded, building.ID).Error)
	assert.Equal(t, "Science Center", reloaded.Name)

	// 只有指定亭的导航数据被覆盖
	var otherNav models.BuildingNavigation
	require.NoError(t, db.Where("building_id = ? AND kiosk_id = ?", building.ID, other.KioskID).First(&otherNav).Error)
	require.Len(t, otherNav.NavigationPath, 1)
	assert.Equal(t, models.PathPoint{X: 7, Y: 8}, otherNav.NavigationPath[0])

	var originNav models.BuildingNavigation
	require.NoError(t, db.Where("building_id = ? AND kiosk_id = ?", building.ID, origin.KioskID).First(&originNav).Error)
	assert.Empty(t, originNav.NavigationPath)
}

func TestGetBuildingDetailGroupsByKiosk(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestBuildingService(t, db)

	origin := seedKiosk(t, db, "K600F6Y6", "North", 0, 0)

	building, err := svc.CreateBuilding(&BuildingCreateInput{
		Name:           "Dormitory",
		KioskID:        origin.KioskID,
		NavigationPath: models.PathPoints{{X: 1, Y: 1}},
	}, 1, "Alice Admin")
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.Room{
		RoomKey:    "room_dorm_101",
		BuildingID: building.ID,
		KioskID:    origin.KioskID,
		Name:       "Room 101",
		Floor:      1,
	}).Error)

	detail, err := svc.GetBuildingByID(building.ID)
	require.NoError(t, err)

	assert.Len(t, detail.NavigationPaths[origin.KioskID], 1)
	require.Len(t, detail.ExistingRooms[origin.KioskID], 1)
	assert.Equal(t, "Room 101", detail.ExistingRooms[origin.KioskID][0].Name)
}

func TestDeleteBuildingCascades(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestBuildingService(t, db)

	origin := seedKiosk(t, db, "K700G7Y7", "North", 0, 0)

	building, err := svc.CreateBuilding(&BuildingCreateInput{
		Name:    "Old Annex",
		KioskID: origin.KioskID,
		Images:  []models.Image{{FilePath: "annex.jpg"}},
	}, 1, "Alice Admin")
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.Room{
		RoomKey:    "room_annex_1",
		BuildingID: building.ID,
		KioskID:    origin.KioskID,
		Name:       "Archive",
	}).Error)
	require.NoError(t, db.Create(&models.Image{RoomKey: "room_annex_1", FilePath: "archive.jpg"}).Error)

	require.NoError(t, svc.DeleteBuilding(building.ID, 1, "Alice Admin"))

	for model, cond := range map[interface{}]string{
		&models.Room{}:               "building_id = ?",
		&models.BuildingNavigation{}: "building_id = ?",
	} {
		var count int64
		require.NoError(t, db.Model(model).Where(cond, building.ID).Count(&count).Error)
		assert.EqualValues(t, 0, count)
	}

	var imageCount int64
	require.NoError(t, db.Model(&models.Image{}).Count(&imageCount).Error)
	assert.EqualValues(t, 0, imageCount)

	assert.EqualValues(t, "楼栋不存在", svc.DeleteBuilding(building.ID, 1, "Alice Admin").Error())
}
