// @title           MarciaKnow Wayfinding API
// @version         1.0
// @description     Campus wayfinding kiosk backend with building and room catalog, navigation data, analytics and an LLM assistant

// @contact.name   API Support
// @contact.email  support@marciaknow.local

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Enter the token with the `Bearer: ` prefix
package main

import (
	"fmt"
	"log"
	"marciaknow-http-service/internal/app/routes"
	"marciaknow-http-service/internal/domain/models"
	"marciaknow-http-service/internal/domain/services"
	"marciaknow-http-service/internal/infrastructure/config"
	"marciaknow-http-service/internal/infrastructure/database"
	"marciaknow-http-service/internal/storage"
	Logger "marciaknow-http-service/pkg/logger"
	"os"
	"runtime"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	// 设置最大处理器数量，提高并发性能
	runtime.GOMAXPROCS(runtime.NumCPU())

	// 初始化日志配置
	if err := Logger.SetupLogger(); err != nil {
		fmt.Printf("初始化日志配置失败: %v\n", err)
		os.Exit(1)
	}

	// 加载.env文件
	if err := godotenv.Load(); err != nil {
		Logger.Warning("无法加载.env文件: %v", err)
		// 即使加载失败也继续执行，可能环境变量已经通过其他方式设置
	} else {
		Logger.Info("成功加载.env文件")
	}

	// 获取配置
	cfg := config.GetConfig()

	// 创建优化的数据库连接池
	pool, err := database.NewConnectionPool(cfg)
	if err != nil {
		log.Fatalf("无法创建数据库连接池: %v", err)
	}
	db := pool.GetDB()

	// 根据配置执行不同的数据库操作
	if cfg.DBMigrationMode == "drop" {
		// 删除并重建表
		log.Println("警告: 在drop模式下运行，将删除并重建所有表")
		err = dropAndRecreateTables(db)
		if err != nil {
			log.Fatalf("删除并重建表失败: %v", err)
		}
	} else if cfg.DBMigrationMode == "alter" {
		// 执行高级迁移，允许修改既有列
		log.Println("在alter模式下运行，将修改表结构以匹配模型")
		err = advancedMigrate(db, cfg)
		if err != nil {
			log.Fatalf("高级迁移失败: %v", err)
		}
	} else {
		// 默认AutoMigrate，只会添加新列和新表，不会删除或修改列
		log.Println("在标准模式下运行，将只添加新列和新表")
		if err := autoMigrate(db); err != nil {
			log.Fatalf("自动迁移失败: %v", err)
		}
	}

	// 确保系统中有管理员账户
	ensureAdminExists(db, cfg)

	// 启动后台任务：信息亭离线监测与日志保留清理
	startBackgroundWorkers(db, cfg)

	// 初始化路由
	r := routes.SetupRouter(db, cfg)

	// 使用配置中的端口，而不是直接从环境变量获取
	port := cfg.ServerPort

	// 打印系统信息
	printSystemInfo(pool)

	// 启动服务器 - 注意监听所有接口(0.0.0.0)而不是只监听localhost
	Logger.Info("服务器启动在: http://0.0.0.0:%s", port)
	if err := r.Run("0.0.0.0:" + port); err != nil {
		Logger.Error("启动服务器失败: %v", err)
		os.Exit(1)
	}
}

// autoMigrate 自动迁移所有模型（只添加新列和新表）
func autoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
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
	)

	if err != nil {
		return err
	}

	fmt.Println("Database migration completed")
	return nil
}

// advancedMigrate 执行高级迁移，删除模型中已不存在的列
func advancedMigrate(db *gorm.DB, cfg *config.Config) error {
	// 获取底层SQL连接
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get DB connection: %w", err)
	}

	// 禁用外键约束检查
	_, err = sqlDB.Exec("SET FOREIGN_KEY_CHECKS = 0")
	if err != nil {
		log.Printf("禁用外键约束检查失败: %v", err)
	}
	defer sqlDB.Exec("SET FOREIGN_KEY_CHECKS = 1") // 确保在函数结束时重新启用外键约束

	// 处理 buildings 表的特殊迁移：早期版本把导航数据内联在楼栋行上
	log.Println("开始处理buildings表的特殊迁移")

	var tableExists bool
	err = sqlDB.QueryRow("SELECT COUNT(*) FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_NAME = 'buildings'", cfg.DBName).Scan(&tableExists)
	if err != nil {
		log.Printf("检查表是否存在失败: %v", err)
	}

	if tableExists {
		rows, err := sqlDB.Query(`
			SELECT COLUMN_NAME
			FROM INFORMATION_SCHEMA.COLUMNS
			WHERE TABLE_SCHEMA = ? AND TABLE_NAME = 'buildings'
		`, cfg.DBName)

		if err != nil {
			log.Printf("查询表列失败: %v", err)
		} else {
			defer rows.Close()

			// 当前模型中 buildings 表应有的列，导航路径已迁出到 building_navigations
			modelColumns := map[string]bool{
				"id": true, "name": true, "description": true, "path": true,
				"number_of_floor": true, "created_at": true, "updated_at": true,
			}

			for rows.Next() {
				var columnName string
				if err := rows.Scan(&columnName); err != nil {
					log.Printf("扫描列信息失败: %v", err)
					continue
				}

				if !modelColumns[columnName] {
					log.Printf("在buildings表中发现多余列: %s，尝试删除", columnName)
					_, err = sqlDB.Exec(fmt.Sprintf("ALTER TABLE buildings DROP COLUMN %s", columnName))
					if err != nil {
						log.Printf("删除列失败: %v", err)
					}
				}
			}
		}
	}

	// 自动迁移其他表
	return autoMigrate(db)
}

// dropAndRecreateTables 删除并重建所有表
func dropAndRecreateTables(db *gorm.DB) error {
	// 获取底层SQL连接
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get DB connection: %w", err)
	}

	// 禁用外键约束检查
	_, err = sqlDB.Exec("SET FOREIGN_KEY_CHECKS = 0")
	if err != nil {
		log.Printf("禁用外键约束检查失败: %v", err)
	}
	defer sqlDB.Exec("SET FOREIGN_KEY_CHECKS = 1") // 确保在函数结束时重新启用外键约束

	// 删除所有表
	tables := []string{
		"admins", "kiosks", "buildings", "building_navigations", "rooms",
		"images", "navigation_icons", "system_logs", "chatbot_interactions",
		"destination_logs", "qr_scan_logs", "feedbacks",
	}

	for _, table := range tables {
		log.Printf("删除表: %s", table)
		_, err := sqlDB.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table))
		if err != nil {
			log.Printf("删除表失败: %v", err)
		}
	}

	// 重新创建表
	return autoMigrate(db)
}

// ensureAdminExists 确保系统中有超级管理员账户
func ensureAdminExists(db *gorm.DB, cfg *config.Config) {
	var count int64
	db.Model(&models.Admin{}).Count(&count)

	if count == 0 {
		// 如果没有管理员，创建默认超级管理员
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(cfg.DefaultAdminPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("生成密码哈希失败: %v", err)
		}

		admin := models.Admin{
			FullName: "System Administrator",
			Email:    cfg.DefaultAdminEmail,
			Username: "admin",
			Password: string(hashedPassword),
			Roles:    models.RoleList{cfg.RoleSuperAdmin},
		}

		if err := db.Create(&admin).Error; err != nil {
			log.Fatalf("创建默认管理员失败: %v", err)
		}

		log.Println("已创建默认超级管理员账户")
	}
}

// startBackgroundWorkers 启动离线监测与数据保留清理的后台协程
func startBackgroundWorkers(db *gorm.DB, cfg *config.Config) {
	store, err := storage.NewBlobStore(cfg.BlobStoreDir)
	if err != nil {
		log.Fatalf("初始化图片存储失败: %v", err)
	}

	imageService := services.NewImageService(cfg, store)
	systemLogService := services.NewSystemLogService(db, cfg)
	propagationService := services.NewPropagationService(db, cfg)
	kioskService := services.NewKioskService(db, cfg, propagationService, imageService, systemLogService)
	chatbotService := services.NewChatbotService(db, cfg)
	destinationLogService := services.NewDestinationLogService(db, cfg)
	qrScanService := services.NewQrScanService(db, cfg)

	// 每分钟把超过阈值未签到的在线信息亭标记为离线
	go func() {
		threshold := time.Duration(cfg.KioskOfflineMinutes) * time.Minute
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			if n, err := kioskService.MarkStaleOffline(threshold); err != nil {
				Logger.Error("信息亭离线监测失败: %v", err)
			} else if n > 0 {
				Logger.Info("已将 %d 台信息亭标记为离线", n)
			}
		}
	}()

	// 每天清理超过保留期的日志与分析记录
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			days := cfg.LogRetentionDays
			if n, err := systemLogService.ClearOldLogs(days); err != nil {
				Logger.Error("清理系统日志失败: %v", err)
			} else {
				Logger.Info("已清理 %d 条过期系统日志", n)
			}
			if n, err := chatbotService.ClearOldInteractions(days); err != nil {
				Logger.Error("清理问答记录失败: %v", err)
			} else {
				Logger.Info("已清理 %d 条过期问答记录", n)
			}
			if n, err := destinationLogService.ClearOldLogs(days); err != nil {
				Logger.Error("清理目的地日志失败: %v", err)
			} else {
				Logger.Info("已清理 %d 条过期目的地日志", n)
			}
			if n, err := qrScanService.ClearOldLogs(days); err != nil {
				Logger.Error("清理扫码日志失败: %v", err)
			} else {
				Logger.Info("已清理 %d 条过期扫码日志", n)
			}
		}
	}()
}

// printSystemInfo 打印系统信息
func printSystemInfo(pool *database.ConnectionPool) {
	// 打印数据库连接池信息
	stats, err := pool.Stats()
	if err == nil {
		log.Printf("数据库连接池状态: %+v", stats)
	}

	// 打印系统资源信息
	log.Printf("系统CPU核心数: %d", runtime.NumCPU())
	log.Printf("当前Go协程数: %d", runtime.NumGoroutine())

	// 打印内存信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	log.Printf("系统内存使用: Alloc=%v MiB, TotalAlloc=%v MiB, Sys=%v MiB",
		m.Alloc/1024/1024, m.TotalAlloc/1024/1024, m.Sys/1024/1024)
}
