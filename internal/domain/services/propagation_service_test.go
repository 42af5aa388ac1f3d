package services

import (
	"testing"

	"marciaknow-http-service/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnKioskCreatedCopiesRoomsWithoutNavigation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPropagationService(db, testConfig())

	reference := seedKiosk(t, db, "K100A1Y1", "North Entrance", 10, 20)
	building := seedBuilding(t, db, "Library")

	require.NoError(t, db.Create(&models.BuildingNavigation{
		BuildingID:      building.ID,
		KioskID:         reference.KioskID,
		NavigationPath:  models.PathPoints{{X: 10, Y: 20}, {X: 30, Y: 40}},
		NavigationGuide: models.GuideSteps{{Icon: "straight", Description: "Walk straight"}},
	}).Error)
	require.NoError(t, db.Create(&models.Room{
		RoomKey:         "room_1_abc",
		BuildingID:      building.ID,
		KioskID:         reference.KioskID,
		Name:            "Reading Hall",
		Description:     "Second floor hall",
		Floor:           2,
		NavigationPath:  models.PathPoints{{X: 10, Y: 20}},
		NavigationGuide: models.GuideSteps{{Icon: "up", Description: "Take the stairs"}},
	}).Error)

	newKiosk := seedKiosk(t, db, "K200B2Y2", "South Entrance", 50, 60)
	require.NoError(t, svc.OnKioskCreated(newKiosk))

	// 楼栋级条目存在且导航为空
	var nav models.BuildingNavigation
	require.NoError(t, db.Where("building_id = ? AND kiosk_id = ?", building.ID, newKiosk.KioskID).First(&nav).Error)
	assert.Empty(t, nav.NavigationPath)
	assert.Empty(t, nav.NavigationGuide)

	// 房间复制了基础字段，共享分组键，但不继承导航数据
	var copied models.Room
	require.NoError(t, db.Where("kiosk_id = ? AND building_id = ?", newKiosk.KioskID, building.ID).First(&copied).Error)
	assert.Equal(t, "room_1_abc", copied.RoomKey)
	assert.Equal(t, "Reading Hall", copied.Name)
	assert.Equal(t, "Second floor hall", copied.Description)
	assert.Equal(t, 2, copied.Floor)
	assert.Empty(t, copied.NavigationPath)
	assert.Empty(t, copied.NavigationGuide)
}

func TestOnKioskCreatedWithoutReference(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPropagationService(db, testConfig())

	building := seedBuilding(t, db, "Gymnasium")
	first := seedKiosk(t, db, "K300C3Y3", "Main Gate", 0, 0)

	require.NoError(t, svc.OnKioskCreated(first))

	var navCount int64
	require.NoError(t, db.Model(&models.BuildingNavigation{}).
		Where("building_id = ? AND kiosk_id = ?", building.ID, first.KioskID).
		Count(&navCount).Error)
	assert.EqualValues(t, 1, navCount)

	var roomCount int64
	require.NoError(t, db.Model(&models.Room{}).Count(&roomCount).Error)
	assert.EqualValues(t, 0, roomCount)
}

func TestOnKioskCoordinatesChangedRewritesFirstWaypointOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPropagationService(db, testConfig())

	kiosk := seedKiosk(t, db, "K400D4Y4", "East Wing", 1, 1)
	building := seedBuilding(t, db, "Admin Building")

	require.NoError(t, db.Create(&models.BuildingNavigation{
		BuildingID:     building.ID,
		KioskID:        kiosk.KioskID,
		NavigationPath: models.PathPoints{{X: 1, Y: 1}, {X: 5, Y: 5}},
	}).Error)
	require.NoError(t, db.Create(&models.Room{
		RoomKey:        "room_2_def",
		BuildingID:     building.ID,
		KioskID:        kiosk.KioskID,
		Name:           "Office 101",
		NavigationPath: models.PathPoints{},
	}).Error)

	require.NoError(t, svc.OnKioskCoordinatesChanged(kiosk.KioskID, 99, 88))

	var nav models.BuildingNavigation
	require.NoError(t, db.Where("building_id = ? AND kiosk_id = ?", building.ID, kiosk.KioskID).First(&nav).Error)
	require.Len(t, nav.NavigationPath, 2)
	assert.Equal(t, models.PathPoint{X: 99, Y: 88}, nav.NavigationPath[0])
	assert.Equal(t, models.PathPoint{X: 5, Y: 5}, nav.NavigationPath[1])

	// 空路径不受影响
	var room models.Room
	require.NoError(t, db.Where("room_key = ?", "room_2_def").First(&room).Error)
	assert.Empty(t, room.NavigationPath)
}

func TestOnKioskDeletedCleansUpAndReportsOrphans(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPropagationService(db, testConfig())

	doomed := seedKiosk(t, db, "K500E5Y5", "West Wing", 0, 0)
	survivor := seedKiosk(t, db, "K600F6Y6", "Cafeteria", 0, 0)
	building := seedBuilding(t, db, "Science Hall")

	require.NoError(t, db.Create(&models.BuildingNavigation{
		BuildingID: building.ID,
		KioskID:    doomed.KioskID,
	}).Error)

	// shared 房间在另一亭仍有条目，orphan 房间只属于被删亭
	require.NoError(t, db.Create(&models.Room{
		RoomKey: "shared", BuildingID: building.ID, KioskID: doomed.KioskID, Name: "Lab A",
	}).Error)
	require.NoError(t, db.Create(&models.Room{
		RoomKey: "shared", BuildingID: building.ID, KioskID: survivor.KioskID, Name: "Lab A",
	}).Error)
	require.NoError(t, db.Create(&models.Room{
		RoomKey: "orphan", BuildingID: building.ID, KioskID: doomed.KioskID, Name: "Lab B",
	}).Error)

	require.NoError(t, db.Create(&models.Image{RoomKey: "shared", FilePath: "shared.jpg"}).Error)
	require.NoError(t, db.Create(&models.Image{RoomKey: "orphan", FilePath: "orphan.jpg"}).Error)

	orphaned, err := svc.OnKioskDeleted(doomed.KioskID)
	require.NoError(t, err)
	assert.Equal(t, []string{"orphan.jpg"}, orphaned)

	var navCount int64
	require.NoError(t, db.Model(&models.BuildingNavigation{}).
		Where("kiosk_id = ?", doomed.KioskID).Count(&navCount).Error)
	assert.EqualValues(t, 0, navCount)

	var roomCount int64
	require.NoError(t, db.Model(&models.Room{}).Where("kiosk_id = ?", doomed.KioskID).Count(&roomCount).Error)
	assert.EqualValues(t, 0, roomCount)

	// 共享图片仍在，孤儿图片已删
	var sharedImages int64
	require.NoError(t, db.Model(&models.Image{}).Where("room_key = ?", "shared").Count(&sharedImages).Error)
	assert.EqualValues(t, 1, sharedImages)

	var orphanImages int64
	require.NoError(t, db.Model(&models.Image{}).Where("room_key = ?", "orphan").Count(&orphanImages).Error)
	assert.EqualValues(t, 0, orphanImages)
}
