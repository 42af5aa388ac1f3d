package routes

import (
	"strings"
	"time"

	_ "marciaknow-http-service/docs"
	"marciaknow-http-service/internal/app/controllers"
	"marciaknow-http-service/internal/app/middleware"
	"marciaknow-http-service/internal/domain/services/container"
	"marciaknow-http-service/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRouter 初始化并返回配置好的路由
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// 初始化 Gin
	r := gin.Default()

	// 添加 CORS 中间件，来源白名单取自配置
	allowedOrigins := strings.Split(cfg.CORSAllowedOrigins, ",")
	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		for _, allowed := range allowedOrigins {
			if origin == strings.TrimSpace(allowed) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
				break
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})
	// 设置正确的Content-Type，确保UTF-8编码
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json; charset=utf-8")
		c.Next()
	})

	// Redis客户端用于容器连通性检查与上下文缓存
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.GetRedisAddr(),
		DB:   cfg.RedisDB,
	})

	// 创建服务容器
	serviceContainer := container.NewServiceContainer(db, cfg, redisClient)
	// 初始化中间件
	middleware.InitAuthMiddleware(cfg, db)
	// 添加 Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 注册路由
	registerRoutes(r, serviceContainer)
	return r
}

// registerRoutes 配置所有API路由
func registerRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
) {
	// 路由挂载在根路径，与信息亭前端的既有调用保持一致
	root := r.Group("/")
	// 注册公共路由
	registerPublicRoutes(root, container)
	// 注册需要认证的路由
	registerAuthenticatedRoutes(root, container)
}

// registerPublicRoutes 注册公共路由
func registerPublicRoutes(
	root *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 添加IP限流中间件 - 每秒允许10个请求，最多突发20个请求
	root.Use(middleware.IPRateLimiter(10, 20))

	// 健康检查路由
	healthController := controllers.NewHealthCheckController()
	root.GET("/ping", healthController.Ping)
	root.GET("/health", healthController.Ping) // 兼容Docker健康检查

	// 认证路由
	root.POST("/auth", controllers.HandleJWTFunc(container, "login"))
	root.GET("/refresh", controllers.HandleJWTFunc(container, "refresh"))
	root.POST("/logout", controllers.HandleJWTFunc(container, "logout"))

	// 图片与图标路由
	root.GET("/image/:filename", controllers.HandleImageFunc(container, "getImage"))
	root.GET("/icon", middleware.Cache(middleware.CacheConfig{Expiration: 5 * time.Minute}), controllers.HandleImageFunc(container, "getIcons"))
	root.POST("/icon", controllers.HandleImageFunc(container, "uploadIcon"))

	// 智能助手路由 - 上游调用昂贵，限流从严
	groqGroup := root.Group("/groq")
	groqGroup.Use(middleware.CombinedRateLimiter(2, 5))
	groqGroup.POST("/ask/:kioskID", controllers.HandleAssistantFunc(container, "ask"))

	// 信息亭签到
	root.POST("/kiosk/:kioskID/ping", controllers.HandleKioskFunc(container, "ping"))

	// 前端埋点路由
	root.POST("/qrscan/:buildingId/:kioskId", controllers.HandleQrScanFunc(container, "logScan"))
	root.POST("/destinationlog", controllers.HandleDestinationLogFunc(container, "create"))
	root.POST("/chatbot/log", controllers.HandleChatbotFunc(container, "logInteraction"))
	root.POST("/feedback/submit", controllers.HandleFeedbackFunc(container, "submit"))
}

// registerAuthenticatedRoutes 注册需要认证的路由
func registerAuthenticatedRoutes(
	root *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 添加认证中间件
	auth := root.Group("/")
	auth.Use(middleware.AuthenticateAdmin())

	// 添加通用限流中间件 - 每秒30个请求，最多突发50个请求
	auth.Use(middleware.IPRateLimiter(30, 50))

	// 管理员路由
	adminGroup := auth.Group("/admin")
	adminGroup.GET("", controllers.HandleAdminFunc(container, "getAdmins"))
	adminGroup.GET("/logs", controllers.HandleAdminFunc(container, "getSystemLogs"))
	adminGroup.GET("/ping", controllers.HandleAdminFunc(container, "ping"))
	adminGroup.GET("/:id", controllers.HandleAdminFunc(container, "getAdmin"))
	adminGroup.POST("", controllers.HandleAdminFunc(container, "register"))
	adminGroup.PUT("/:id", controllers.HandleAdminFunc(container, "updateAdmin"))
	adminGroup.PATCH("/:id/field", controllers.HandleAdminFunc(container, "updateField"))
	adminGroup.PUT("/:id/password", controllers.HandleAdminFunc(container, "updatePassword"))
	adminGroup.PUT("/:id/disable", controllers.HandleAdminFunc(container, "disable"))
	adminGroup.PUT("/:id/enable", controllers.HandleAdminFunc(container, "enable"))
	adminGroup.POST("/:id/reset-password", controllers.HandleAdminFunc(container, "resetPassword"))
	adminGroup.DELETE("/:id", controllers.HandleAdminFunc(container, "deleteAdmin"))

	// 信息亭路由
	kioskGroup := auth.Group("/kiosk")
	kioskGroup.GET("", middleware.Cache(middleware.CacheConfig{Expiration: 30 * time.Second}), controllers.HandleKioskFunc(container, "getKiosks"))
	kioskGroup.GET("/:kioskID", controllers.HandleKioskFunc(container, "getKiosk"))
	kioskGroup.POST("", controllers.HandleKioskFunc(container, "createKiosk"))
	kioskGroup.PUT("/:kioskID", controllers.HandleKioskFunc(container, "updateKiosk"))
	kioskGroup.DELETE("/:kioskID", controllers.HandleKioskFunc(container, "deleteKiosk"))

	// 楼栋路由
	buildingGroup := auth.Group("/building")
	buildingGroup.GET("", middleware.Cache(middleware.CacheConfig{Expiration: 1 * time.Minute}), controllers.HandleBuildingFunc(container, "getBuildings"))
	buildingGroup.GET("/:id", controllers.HandleBuildingFunc(container, "getBuilding"))
	buildingGroup.POST("", controllers.HandleBuildingFunc(container, "createBuilding"))
	buildingGroup.PUT("/:id", controllers.HandleBuildingFunc(container, "updateBuilding"))
	buildingGroup.DELETE("/:id", controllers.HandleBuildingFunc(container, "deleteBuilding"))

	// 房间路由
	roomGroup := auth.Group("/room")
	roomGroup.GET("/:buildingId/:kioskID", controllers.HandleRoomFunc(container, "getRooms"))
	roomGroup.POST("/:buildingId/:kioskID", controllers.HandleRoomFunc(container, "addRoom"))
	roomGroup.PUT("/:buildingId/:kioskID/:roomId", controllers.HandleRoomFunc(container, "updateRoom"))
	roomGroup.DELETE("/:buildingId", controllers.HandleRoomFunc(container, "deleteRoom"))

	// 问答分析路由
	chatbotGroup := auth.Group("/chatbot")
	chatbotGroup.GET("/metrics", middleware.Cache(middleware.CacheConfig{Expiration: 1 * time.Minute}), controllers.HandleChatbotFunc(container, "getMetrics"))
	chatbotGroup.GET("/logs", controllers.HandleChatbotFunc(container, "getLogs"))
	chatbotGroup.GET("/session/:sessionID", controllers.HandleChatbotFunc(container, "getSessionHistory"))

	// 目的地统计路由
	auth.GET("/destinationlog/reports/frequent", middleware.Cache(middleware.CacheConfig{Expiration: 1 * time.Minute}), controllers.HandleDestinationLogFunc(container, "getFrequentDestinations"))

	// 扫码统计路由
	qrScanGroup := auth.Group("/qrscan/reports")
	qrScanGroup.GET("/daily", middleware.Cache(middleware.CacheConfig{Expiration: 1 * time.Minute}), controllers.HandleQrScanFunc(container, "getDailyReport"))
	qrScanGroup.GET("/top-buildings", middleware.Cache(middleware.CacheConfig{Expiration: 1 * time.Minute}), controllers.HandleQrScanFunc(container, "getTopBuildings"))

	// 反馈管理路由
	feedbackGroup := auth.Group("/feedback")
	feedbackGroup.GET("", controllers.HandleFeedbackFunc(container, "getFeedbacks"))
	feedbackGroup.GET("/stats", controllers.HandleFeedbackFunc(container, "getStats"))
	feedbackGroup.GET("/:id", controllers.HandleFeedbackFunc(container, "getFeedback"))
	feedbackGroup.PUT("/bulk-status", controllers.HandleFeedbackFunc(container, "bulkUpdateStatus"))
	feedbackGroup.PUT("/:id", controllers.HandleFeedbackFunc(container, "updateFeedback"))
	feedbackGroup.DELETE("/:id", controllers.HandleFeedbackFunc(container, "deleteFeedback"))
}
