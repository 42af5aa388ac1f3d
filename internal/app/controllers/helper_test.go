package controllers

import (
	"testing"

	"marciaknow-http-service/internal/domain/models"
	"marciaknow-http-service/internal/domain/services/container"
	"marciaknow-http-service/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestContainer 构造带内存数据库的服务容器
func newTestContainer(t *testing.T) (*container.ServiceContainer, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Admin{}))

	cfg := &config.Config{
		AccessTokenSecret:  "test-access-secret",
		RefreshTokenSecret: "test-refresh-secret",
		BlobStoreDir:       t.TempDir(),
		RoleSuperAdmin:     5150,
	}

	return container.NewServiceContainer(db, cfg, nil), db
}

// seedAdminAccount 插入一个可登录的管理员账户
func seedAdminAccount(t *testing.T, db *gorm.DB, email, password string) *models.Admin {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	admin := &models.Admin{
		FullName: "Test Admin",
		Email:    email,
		Username: "tester",
		Password: string(hashed),
	}
	require.NoError(t, db.Create(admin).Error)
	return admin
}
