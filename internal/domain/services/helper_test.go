package services

import (
	"testing"

	"marciaknow-http-service/internal/domain/models"
	"marciaknow-http-service/internal/infrastructure/config"
	"marciaknow-http-service/internal/storage"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB 创建内存数据库并迁移全部模型
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Admin{},
		&models.Kiosk{},
		&models.Building{},
		&models.BuildingNavigation{},
		&models.Room{},
		&models.Image{},
		&models.NavigationIcon{},
		&models.SystemLog{},
		&models.ChatbotInteraction{},
		&models.DestinationLog{},
		&models.QrScanLog{},
		&models.Feedback{},
	))

	return db
}

// testConfig 返回测试用配置
func testConfig() *config.Config {
	return &config.Config{
		AccessTokenSecret:    "test-access-secret",
		RefreshTokenSecret:   "test-refresh-secret",
		LogRetentionDays:     30,
		KioskOfflineMinutes:  5,
		RoleSuperAdmin:       5150,
		DefaultAdminEmail:    "admin@test.local",
		DefaultAdminPassword: "test-password",
	}
}

// newTestImageService 基于临时目录创建图片服务
func newTestImageService(t *testing.T) (InterfaceImageService, *storage.BlobStore) {
	t.Helper()

	store, err := storage.NewBlobStore(t.TempDir())
	require.NoError(t, err)
	return NewImageService(testConfig(), store), store
}

// seedKiosk 插入一个信息亭
func seedKiosk(t *testing.T, db *gorm.DB, kioskID, name string, x, y float64) *models.Kiosk {
	t.Helper()

	kiosk := &models.Kiosk{
		KioskID:     kioskID,
		Name:        name,
		CoordinateX: x,
		CoordinateY: y,
		Status:      models.KioskStatusOnline,
	}
	require.NoError(t, db.Create(kiosk).Error)
	return kiosk
}

// seedBuilding 插入一栋楼
func seedBuilding(t *testing.T, db *gorm.DB, name string) *models.Building {
	t.Helper()

	building := &models.Building{Name: name, NumberOfFloor: 3}
	require.NoError(t, db.Create(building).Error)
	return building
}
