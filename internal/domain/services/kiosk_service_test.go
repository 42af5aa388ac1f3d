package services

import (
	"regexp"
	"testing"
	"time"

	"marciaknow-http-service/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var kioskIDPattern = regexp.MustCompile(`^K\d{3}[A-Z]\dY\d$`)

func newTestKioskService(t *testing.T, db *gorm.DB) InterfaceKioskService {
	t.Helper()

	cfg := testConfig()
	images, _ := newTestImageService(t)
	logs := NewSystemLogService(db, cfg)
	propagation := NewPropagationService(db, cfg)
	return NewKioskService(db, cfg, propagation, images, logs)
}

func TestCreateKioskGeneratesIDAndPropagates(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestKioskService(t, db)

	building := seedBuilding(t, db, "Library")

	kiosk := &models.Kiosk{Name: "Main Lobby", Location: "Building A lobby", CoordinateX: 12, CoordinateY: 34}
	require.NoError(t, svc.CreateKiosk(kiosk, 1, "Alice Admin"))

	assert.Regexp(t, kioskIDPattern, kiosk.KioskID)
	assert.Equal(t, models.KioskStatusOffline, kiosk.Status)
	assert.Equal(t, "Alice Admin", kiosk.AddedBy)

	// 每栋楼都补齐了该亭的导航条目
	var navCount int64
	require.NoError(t, db.Model(&models.BuildingNavigation{}).
		Where("building_id = ? AND kiosk_id = ?", building.ID, kiosk.KioskID).
		Count(&navCount).Error)
	assert.EqualValues(t, 1, navCount)

	// 创建动作写入了系统日志
	var logEntry models.SystemLog
	require.NoError(t, db.Where("category = ? AND action = ?", models.LogCategoryKiosk, "Added Kiosk").First(&logEntry).Error)
	assert.Equal(t, kiosk.KioskID, logEntry.KioskID)
}

func TestUpdateKioskCoordinateChangePropagates(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestKioskService(t, db)

	kiosk := seedKiosk(t, db, "K111A1Y1", "Lobby", 1, 2)
	building := seedBuilding(t, db, "Library")
	require.NoError(t, db.Create(&models.BuildingNavigation{
		BuildingID:     building.ID,
		KioskID:        kiosk.KioskID,
		NavigationPath: models.PathPoints{{X: 1, Y: 2}, {X: 7, Y: 8}},
	}).Error)

	updated, err := svc.UpdateKiosk(kiosk.KioskID, map[string]interface{}{
		"name":         "Lobby East",
		"coordinate_x": 40.0,
		"coordinate_y": 50.0,
	}, 1, "Alice Admin")
	require.NoError(t, err)
	assert.Equal(t, "Lobby East", updated.Name)
	assert.Equal(t, 40.0, updated.CoordinateX)
	assert.Equal(t, "Alice Admin", updated.EditedBy)

	var nav models.BuildingNavigation
	require.NoError(t, db.Where("kiosk_id = ?", kiosk.KioskID).First(&nav).Error)
	require.Len(t, nav.NavigationPath, 2)
	assert.Equal(t, models.PathPoint{X: 40, Y: 50}, nav.NavigationPath[0])
}

func TestUpdateKioskNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestKioskService(t, db)

	_, err := svc.UpdateKiosk("K999Z9Y9", map[string]interface{}{"name": "Ghost"}, 1, "Alice Admin")
	require.Error(t, err)
	assert.Equal(t, "信息亭不存在", err.Error())
}

func TestPingMarksOnline(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestKioskService(t, db)

	kiosk := seedKiosk(t, db, "K222B2Y2", "Lobby", 0, 0)
	require.NoError(t, db.Model(kiosk).Update("status", models.KioskStatusOffline).Error)

	require.NoError(t, svc.Ping(kiosk.KioskID))

	var reloaded models.Kiosk
	require.NoError(t, db.Where("kiosk_id = ?", kiosk.KioskID).First(&reloaded).Error)
	assert.Equal(t, models.KioskStatusOnline, reloaded.Status)
	require.NotNil(t, reloaded.LastCheckIn)
	assert.WithinDuration(t, time.Now(), *reloaded.LastCheckIn, 5*time.Second)
}

func TestMarkStaleOffline(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestKioskService(t, db)

	stale := seedKiosk(t, db, "K333C3Y3", "Stale", 0, 0)
	old := time.Now().Add(-30 * time.Minute)
	require.NoError(t, db.Model(stale).Update("last_check_in", old).Error)

	fresh := seedKiosk(t, db, "K444D4Y4", "Fresh", 0, 0)
	require.NoError(t, db.Model(fresh).Update("last_check_in", time.Now()).Error)

	// 从未签到的在线亭也视为过期
	seedKiosk(t, db, "K555E5Y5", "Never", 0, 0)

	n, err := svc.MarkStaleOffline(5 * time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	var freshReloaded models.Kiosk
	require.NoError(t, db.Where("kiosk_id = ?", fresh.KioskID).First(&freshReloaded).Error)
	assert.Equal(t, models.KioskStatusOnline, freshReloaded.Status)

	var staleReloaded models.Kiosk
	require.NoError(t, db.Where("kiosk_id = ?", stale.KioskID).First(&staleReloaded).Error)
	assert.Equal(t, models.KioskStatusOffline, staleReloaded.Status)
}

func TestDeleteKioskCleansNavigationData(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestKioskService(t, db)

	kiosk := seedKiosk(t, db, "K666F6Y6", "Doomed", 0, 0)
	building := seedBuilding(t, db, "Library")
	require.NoError(t, db.Create(&models.BuildingNavigation{
		BuildingID: building.ID,
		KioskID:    kiosk.KioskID,
	}).Error)

	require.NoError(t, svc.DeleteKiosk(kiosk.KioskID, 1, "Alice Admin"))

	var kioskCount int64
	require.NoError(t, db.Model(&models.Kiosk{}).Where("kiosk_id = ?", kiosk.KioskID).Count(&kioskCount).Error)
	assert.EqualValues(t, 0, kioskCount)

	var navCount int64
	require.NoError(t, db.Model(&models.BuildingNavigation{}).Where("kiosk_id = ?", kiosk.KioskID).Count(&navCount).Error)
	assert.EqualValues(t, 0, navCount)
}
