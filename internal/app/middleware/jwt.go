package middleware

import (
	"net/http"
	"strings"

	"marciaknow-http-service/internal/domain/services"
	"marciaknow-http-service/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	jwtService   services.InterfaceJWTService
	adminService services.InterfaceAdminService
)

// InitAuthMiddleware 初始化认证中间件
func InitAuthMiddleware(cfg *config.Config, db *gorm.DB) {
	jwtService = services.NewJWTService(cfg, db)
	adminService = services.NewAdminService(db, cfg)
}

// extractToken 从授权头中提取token
func extractToken(authHeader string) string {
	// 检查并移除 "Bearer " 前缀
	if len(authHeader) > 7 && strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return authHeader
}

// AuthenticateAdmin 验证管理员访问令牌
func AuthenticateAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "Authorization header is required",
				"data":    nil,
			})
			c.Abort()
			return
		}

		tokenString := extractToken(authHeader)
		claims, err := jwtService.ExtractAccessClaims(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "Invalid token: " + err.Error(),
				"data":    nil,
			})
			c.Abort()
			return
		}

		// 令牌有效还需确认账号仍然存在且未被禁用
		admin, err := adminService.GetAdminByID(claims.AdminID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "Account no longer exists",
				"data":    nil,
			})
			c.Abort()
			return
		}
		if admin.IsDisabled {
			c.JSON(http.StatusForbidden, gin.H{
				"code":    403,
				"message": "Account is disabled",
				"data":    nil,
			})
			c.Abort()
			return
		}

		c.Set("adminID", claims.AdminID)
		c.Set("adminName", admin.FullName)
		c.Set("email", claims.Email)
		c.Set("claims", claims)
		c.Next()
	}
}
