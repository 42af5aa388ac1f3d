package services

import (
	"testing"

	"marciaknow-http-service/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestRoomService(t *testing.T, db *gorm.DB) InterfaceRoomService {
	t.Helper()

	cfg := testConfig()
	images, _ := newTestImageService(t)
	logs := NewSystemLogService(db, cfg)
	return NewRoomService(db, cfg, images, logs)
}

func TestAddRoomFansOutToAllKiosks(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestRoomService(t, db)

	origin := seedKiosk(t, db, "K100A1Y1", "North", 0, 0)
	other := seedKiosk(t, db, "K200B2Y2", "South", 0, 0)
	building := seedBuilding(t, db, "Library")

	input := &RoomCreateInput{
		Name:            "Reading Hall",
		Description:     "Quiet study area",
		Floor:           2,
		NavigationPath:  models.PathPoints{{X: 1, Y: 2}},
		NavigationGuide: models.GuideSteps{{Icon: "up", Description: "Take the stairs"}},
		Images:          []models.Image{{FilePath: "hall.jpg", Width: 1920, Height: 1080}},
	}

	created, err := svc.AddRoom(building.ID, origin.KioskID, input, 1, "Alice Admin")
	require.NoError(t, err)
	assert.Equal(t, origin.KioskID, created.KioskID)
	assert.Len(t, created.NavigationPath, 1)

	// 每个信息亭都得到一条共享分组键的条目
	var rooms []models.Room
	require.NoError(t, db.Where("building_id = ?", building.ID).Find(&rooms).Error)
	require.Len(t, rooms, 2)
	assert.Equal(t, rooms[0].RoomKey, rooms[1].RoomKey)

	// 导航数据只落在发起亭
	for _, room := range rooms {
		if room.KioskID == other.KioskID {
			assert.Empty(t, room.NavigationPath)
			assert.Empty(t, room.NavigationGuide)
		} else {
			assert.Len(t, room.NavigationPath, 1)
		}
		assert.Equal(t, "Reading Hall", room.Name)
		assert.Equal(t, 2, room.Floor)
	}

	// 图片挂在分组键上，只存一份
	var imageCount int64
	require.NoError(t, db.Model(&models.Image{}).Where("room_key = ?", created.RoomKey).Count(&imageCount).Error)
	assert.EqualValues(t, 1, imageCount)
}

func TestAddRoomRequiresBuildingAndKiosk(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestRoomService(t, db)

	kiosk := seedKiosk(t, db, "K300C3Y3", "North", 0, 0)

	_, err := svc.AddRoom(999, kiosk.KioskID, &RoomCreateInput{Name: "Nowhere"}, 1, "Alice Admin")
	require.Error(t, err)
	assert.Equal(t, "楼栋不存在", err.Error())

	building := seedBuilding(t, db, "Library")
	_, err = svc.AddRoom(building.ID, "K999Z9Y9", &RoomCreateInput{Name: "Nowhere"}, 1, "Alice Admin")
	require.Error(t, err)
	assert.Equal(t, "信息亭不存在", err.Error())
}

func TestUpdateRoomSharedFieldsFanOut(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestRoomService(t, db)

	origin := seedKiosk(t, db, "K400D4Y4", "North", 0, 0)
	other := seedKiosk(t, db, "K500E5Y5", "South", 0, 0)
	building := seedBuilding(t, db, "Library")

	created, err := svc.AddRoom(building.ID, origin.KioskID, &RoomCreateInput{Name: "Lab", Floor: 1}, 1, "Alice Admin")
	require.NoError(t, err)

	newName := "Chemistry Lab"
	newFloor := 3
	newPath := models.PathPoints{{X: 9, Y: 9}}
	_, err = svc.UpdateRoom(building.ID, origin.KioskID, created.ID, &RoomUpdateInput{
		Name:           &newName,
		Floor:          &newFloor,
		NavigationPath: &newPath,
	}, 1, "Alice Admin")
	require.NoError(t, err)

	// 基础字段同步到所有亭的条目
	var peer models.Room
	require.NoError(t, db.Where("room_key = ? AND kiosk_id = ?", created.RoomKey, other.KioskID).First(&peer).Error)
	assert.Equal(t, "Chemistry Lab", peer.Name)
	assert.Equal(t, 3, peer.Floor)
	// 导航数据只更新发起亭
	assert.Empty(t, peer.NavigationPath)

	var mine models.Room
	require.NoError(t, db.First(&mine, created.ID).Error)
	require.Len(t, mine.NavigationPath, 1)
	assert.Equal(t, models.PathPoint{X: 9, Y: 9}, mine.NavigationPath[0])
}

func TestUpdateRoomImageDiff(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestRoomService(t, db)

	origin := seedKiosk(t, db, "K600F6Y6", "North", 0, 0)
	building := seedBuilding(t, db, "Library")

	created, err := svc.AddRoom(building.ID, origin.KioskID, &RoomCreateInput{
		Name:  "Lab",
		Floor: 1,
		Images: []models.Image{
			{FilePath: "keep.jpg"},
			{FilePath: "drop.jpg"},
		},
	}, 1, "Alice Admin")
	require.NoError(t, err)

	var keep models.Image
	require.NoError(t, db.Where("file_path = ?", "keep.jpg").First(&keep).Error)

	_, err = svc.UpdateRoom(building.ID, origin.KioskID, created.ID, &RoomUpdateInput{
		RetainedImageIDs: []uint{keep.ID},
		NewImages:        []models.Image{{FilePath: "added.jpg"}},
	}, 1, "Alice Admin")
	require.NoError(t, err)

	var remaining []models.Image
	require.NoError(t, db.Where("room_key = ?", created.RoomKey).Order("file_path ASC").Find(&remaining).Error)
	require.Len(t, remaining, 2)
	assert.Equal(t, "added.jpg", remaining[0].FilePath)
	assert.Equal(t, "keep.jpg", remaining[1].FilePath)
}

func TestDeleteRoomByNameAndFloorFallback(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestRoomService(t, db)

	origin := seedKiosk(t, db, "K700G7Y7", "North", 0, 0)
	seedKiosk(t, db, "K800H8Y8", "South", 0, 0)
	building := seedBuilding(t, db, "Library")

	created, err := svc.AddRoom(building.ID, origin.KioskID, &RoomCreateInput{
		Name:   "Storage",
		Floor:  1,
		Images: []models.Image{{FilePath: "storage.jpg"}},
	}, 1, "Alice Admin")
	require.NoError(t, err)

	// 分组键缺失时退回 (名称, 楼层) 匹配
	require.NoError(t, svc.DeleteRoom(building.ID, "", "Storage", 1, 1, "Alice Admin"))

	var roomCount int64
	require.NoError(t, db.Model(&models.Room{}).Where("room_key = ?", created.RoomKey).Count(&roomCount).Error)
	assert.EqualValues(t, 0, roomCount)

	var imageCount int64
	require.NoError(t, db.Model(&models.Image{}).Where("room_key = ?", created.RoomKey).Count(&imageCount).Error)
	assert.EqualValues(t, 0, imageCount)
}

func TestDeleteRoomNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestRoomService(t, db)

	building := seedBuilding(t, db, "Library")
	err := svc.DeleteRoom(building.ID, "missing-key", "", 0, 1, "Alice Admin")
	require.Error(t, err)
	assert.Equal(t, "房间不存在", err.Error())
}
