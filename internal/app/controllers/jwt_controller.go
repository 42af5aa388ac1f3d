package controllers

import (
	"errors"
	"net/http"

	"marciaknow-http-service/internal/domain/services"
	"marciaknow-http-service/internal/domain/services/container"
	"marciaknow-http-service/internal/error/code"
	"marciaknow-http-service/internal/error/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// 刷新令牌cookie有效期（秒）
const refreshCookieMaxAge = 86400

// InterfaceJWTController 定义认证控制器接口
type InterfaceJWTController interface {
	Login()
	Refresh()
	Logout()
}

// JWTController 处理身份验证请求
type JWTController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewJWTController 创建一个新的认证控制器
func NewJWTController(ctx *gin.Context, container *container.ServiceContainer) *JWTController {
	return &JWTController{
		Ctx:       ctx,
		Container: container,
	}
}

// LoginRequest 表示登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@marciaknow.edu"`
	Password string `json:"password" binding:"required" example:"Admin@123"`
}

// LoginResponse 表示登录响应
type LoginResponse struct {
	Code    int         `json:"code" example:"100000"`
	Message string      `json:"message" example:"Login successful"`
	Data    interface{} `json:"data"`
}

// ErrorResponse 表示错误响应
type ErrorResponse struct {
	Code    int         `json:"code" example:"100004"`
	Message string      `json:"message" example:"Invalid email or password"`
	Data    interface{} `json:"data"`
}

// HandleJWTFunc 返回一个处理认证请求的Gin处理函数
func HandleJWTFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewJWTController(ctx, container)

		switch method {
		case "login":
			controller.Login()
		case "refresh":
			controller.Refresh()
		case "logout":
			controller.Logout()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// setRefreshCookie 下发httpOnly刷新令牌cookie
func (c *JWTController) setRefreshCookie(token string, maxAge int) {
	c.Ctx.SetSameSite(http.SameSiteNoneMode)
	c.Ctx.SetCookie("jwt", token, maxAge, "/", "", true, true)
}

// 1. Login 处理管理员登录
// @Summary      Admin Login
// @Description  Verify admin credentials, return an access token and set the refresh token cookie
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login request parameters"
// @Success      200  {object}  LoginResponse  "Success response with access token"
// @Failure      400  {object}  ErrorResponse  "Bad request"
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Failure      403  {object}  ErrorResponse  "Account disabled"
// @Router       /auth [post]
func (c *JWTController) Login() {
	var req LoginRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)

	admin, err := adminService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAccountDisabled):
			response.Fail(c.Ctx, code.ErrAdminDisabled, nil)
		case errors.Is(err, services.ErrAdminNotFound), errors.Is(err, services.ErrWrongPassword):
			response.Fail(c.Ctx, code.ErrAdminPasswordIncorrect, nil)
		default:
			response.FailWithMessage(c.Ctx, code.ErrDatabase, "登录失败: "+err.Error(), nil)
		}
		return
	}

	accessToken, err := jwtService.GenerateAccessToken(admin)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrUnknown, "生成令牌失败", nil)
		return
	}

	refreshToken, err := jwtService.GenerateRefreshToken(admin)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrUnknown, "生成令牌失败", nil)
		return
	}

	// 只保留一个有效刷新令牌
	if err := adminService.StoreRefreshToken(admin.ID, refreshToken); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "保存刷新令牌失败", nil)
		return
	}

	c.setRefreshCookie(refreshToken, refreshCookieMaxAge)

	// 刷新令牌除cookie外同时随响应体返回，供不支持cookie的客户端使用
	response.Success(c.Ctx, gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
		"admin": gin.H{
			"id":       admin.ID,
			"fullName": admin.FullName,
			"email":    admin.Email,
			"username": admin.Username,
			"roles":    admin.Roles,
			"profile":  admin.Profile,
		},
	})
}

// 2. Refresh 使用刷新令牌换取新的访问令牌
// @Summary      Refresh Access Token
// @Description  Exchange the refresh token cookie for a new access token
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  LoginResponse  "New access token"
// @Failure      401  {object}  ErrorResponse  "Missing refresh token"
// @Failure      403  {object}  ErrorResponse  "Invalid refresh token"
// @Router       /refresh [get]
func (c *JWTController) Refresh() {
	refreshToken, err := c.Ctx.Cookie("jwt")
	if err != nil || refreshToken == "" {
		response.Fail(c.Ctx, code.ErrRefreshTokenMissing, nil)
		return
	}

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)

	// 刷新令牌必须与某个账户当前存储的令牌一致
	admin, err := adminService.FindByRefreshToken(refreshToken)
	if err != nil {
		response.Fail(c.Ctx, code.ErrRefreshTokenInvalid, nil)
		return
	}

	token, err := jwtService.ValidateRefreshToken(refreshToken)
	if err != nil || !token.Valid {
		response.Fail(c.Ctx, code.ErrTokenVerification, nil)
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		response.Fail(c.Ctx, code.ErrTokenVerification, nil)
		return
	}
	if email, _ := claims["email"].(string); email != admin.Email {
		response.Fail(c.Ctx, code.ErrEmailMismatch, nil)
		return
	}

	accessToken, err := jwtService.GenerateAccessToken(admin)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrUnknown, "生成令牌失败", nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"accessToken": accessToken,
	})
}

// 3. Logout 退出登录
// @Summary      Admin Logout
// @Description  Clear the stored refresh token and the cookie; always succeeds
// @Tags         Auth
// @Produce      json
// @Success      204  "No content"
// @Router       /logout [post]
func (c *JWTController) Logout() {
	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)

	// 退出操作幂等，未知令牌也视为成功
	if refreshToken, err := c.Ctx.Cookie("jwt"); err == nil && refreshToken != "" {
		_ = adminService.Logout(refreshToken)
	}

	c.setRefreshCookie("", -1)
	c.Ctx.Status(http.StatusNoContent)
}
