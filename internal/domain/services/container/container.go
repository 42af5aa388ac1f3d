package container

import (
	"context"
	"log"
	"sync"
	"time"

	"marciaknow-http-service/internal/domain/services"
	"marciaknow-http-service/internal/infrastructure/config"
	"marciaknow-http-service/internal/storage"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// ServiceContainer 管理所有服务的依赖注入
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config
	redis  *redis.Client

	// 基础服务
	jwtService services.InterfaceJWTService

	// 数据存储服务
	redisService services.InterfaceRedisService
	blobStore    *storage.BlobStore
	imageService services.InterfaceImageService

	// 业务服务
	kioskService          services.InterfaceKioskService
	propagationService    services.InterfacePropagationService
	buildingService       services.InterfaceBuildingService
	roomService           services.InterfaceRoomService
	adminService          services.InterfaceAdminService
	systemLogService      services.InterfaceSystemLogService
	feedbackService       services.InterfaceFeedbackService
	chatbotService        services.InterfaceChatbotService
	destinationLogService services.InterfaceDestinationLogService
	qrScanService         services.InterfaceQrScanService
	assistantService      services.InterfaceAssistantService

	mu sync.RWMutex
}

// NewServiceContainer 创建新的服务容器
func NewServiceContainer(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) *ServiceContainer {
	if db == nil {
		panic("数据库连接为空")
	}

	if cfg == nil {
		panic("配置为空")
	}

	// 测试Redis连接
	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("Redis连接测试失败: %v，将不使用Redis缓存", err)
		}
	}

	container := &ServiceContainer{
		db:     db,
		config: cfg,
		redis:  redisClient,
	}
	container.initializeServices()
	return container
}

// initializeServices 初始化所有服务
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 初始化基础服务
	c.jwtService = services.NewJWTService(c.config, c.db)

	// 初始化Redis服务
	c.redisService = services.NewRedisService(c.config)

	// 初始化图片存储服务
	store, err := storage.NewBlobStore(c.config.BlobStoreDir)
	if err != nil {
		panic("初始化图片存储目录失败: " + err.Error())
	}
	c.blobStore = store
	c.imageService = services.NewImageService(c.config, c.blobStore)

	// 初始化业务服务
	c.systemLogService = services.NewSystemLogService(c.db, c.config)
	c.propagationService = services.NewPropagationService(c.db, c.config)
	c.kioskService = services.NewKioskService(c.db, c.config, c.propagationService, c.imageService, c.systemLogService)
	c.buildingService = services.NewBuildingService(c.db, c.config, c.imageService, c.systemLogService)
	c.roomService = services.NewRoomService(c.db, c.config, c.imageService, c.systemLogService)
	c.adminService = services.NewAdminService(c.db, c.config)
	c.feedbackService = services.NewFeedbackService(c.db, c.config, c.imageService)

	// 初始化分析与助手服务
	c.chatbotService = services.NewChatbotService(c.db, c.config)
	c.destinationLogService = services.NewDestinationLogService(c.db, c.config)
	c.qrScanService = services.NewQrScanService(c.db, c.config)
	c.assistantService = services.NewAssistantService(c.db, c.config, c.redisService)
}

// GetService 获取指定名称的服务
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "jwt":
		return c.jwtService
	case "redis":
		return c.redisService
	case "image":
		return c.imageService
	case "kiosk":
		return c.kioskService
	case "propagation":
		return c.propagationService
	case "building":
		return c.buildingService
	case "room":
		return c.roomService
	case "admin":
		return c.adminService
	case "system_log":
		return c.systemLogService
	case "feedback":
		return c.feedbackService
	case "chatbot":
		return c.chatbotService
	case "destination_log":
		return c.destinationLogService
	case "qr_scan":
		return c.qrScanService
	case "assistant":
		return c.assistantService
	default:
		return nil
	}
}

// GetDB 获取数据库连接
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}
