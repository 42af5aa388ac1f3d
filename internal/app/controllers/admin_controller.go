package controllers

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"marciaknow-http-service/internal/domain/models"
	"marciaknow-http-service/internal/domain/services"
	"marciaknow-http-service/internal/domain/services/container"
	"marciaknow-http-service/internal/error/code"
	"marciaknow-http-service/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceAdminController 定义管理员控制器接口
type InterfaceAdminController interface {
	GetAdmins()
	GetAdmin()
	Register()
	UpdateAdmin()
	UpdateField()
	UpdatePassword()
	ResetPassword()
	SetDisabled()
	Enable()
	DeleteAdmin()
	GetSystemLogs()
	Ping()
}

// AdminController 管理员控制器
type AdminController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAdminController 创建一个新的管理员控制器
func NewAdminController(ctx *gin.Context, container *container.ServiceContainer) *AdminController {
	return &AdminController{
		Ctx:       ctx,
		Container: container,
	}
}

// UpdateAdminRequest 更新管理员请求
type UpdateAdminRequest struct {
	FullName    string `json:"fullName" example:"Marcia Know"`
	Username    string `json:"username" example:"marcia"`
	Email       string `json:"email" binding:"omitempty,email" example:"marcia@marciaknow.edu"`
	Description string `json:"description" example:"校区管理员"`
	Contact     string `json:"contact" example:"13800138000"`
}

// UpdateFieldRequest 单字段更新请求
type UpdateFieldRequest struct {
	Field string `json:"field" binding:"required" example:"full_name"`
	Value string `json:"value" binding:"required" example:"Marcia Know"`
}

// UpdatePasswordRequest 修改密码请求
type UpdatePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// HandleAdminFunc 返回一个处理管理员请求的Gin处理函数
func HandleAdminFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAdminController(ctx, container)

		switch method {
		case "getAdmins":
			controller.GetAdmins()
		case "getAdmin":
			controller.GetAdmin()
		case "register":
			controller.Register()
		case "updateAdmin":
			controller.UpdateAdmin()
		case "updateField":
			controller.UpdateField()
		case "updatePassword":
			controller.UpdatePassword()
		case "resetPassword":
			controller.ResetPassword()
		case "disable":
			controller.SetDisabled()
		case "enable":
			controller.Enable()
		case "deleteAdmin":
			controller.DeleteAdmin()
		case "getSystemLogs":
			controller.GetSystemLogs()
		case "ping":
			controller.Ping()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// adminView 管理员信息视图，不含敏感字段
func adminView(admin *models.Admin) gin.H {
	return gin.H{
		"id":          admin.ID,
		"fullName":    admin.FullName,
		"username":    admin.Username,
		"email":       admin.Email,
		"profile":     admin.Profile,
		"description": admin.Description,
		"contact":     admin.Contact,
		"roles":       admin.Roles,
		"status":      admin.Status,
		"isDisabled":  admin.IsDisabled,
		"lastLogin":   admin.LastLogin,
		"joined":      admin.CreatedAt,
	}
}

// parseIDParam 解析URL中的数字ID参数
func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		response.ParamError(ctx, "无效的ID参数")
		return 0, false
	}
	return uint(id), true
}

// 1. GetAdmins 获取管理员列表
// @Summary      List admins
// @Description  Get all admin accounts without sensitive fields
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /admin [get]
// @Security     BearerAuth
func (c *AdminController) GetAdmins() {
	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	admins, err := adminService.GetAllAdmins()
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询管理员列表失败: "+err.Error(), nil)
		return
	}

	var views []gin.H
	for i := range admins {
		views = append(views, adminView(&admins[i]))
	}

	response.Success(c.Ctx, views)
}

// 2. GetAdmin 获取管理员详情
// @Summary      Get admin
// @Description  Get one admin account by ID
// @Tags         Admin
// @Produce      json
// @Param        id path int true "Admin ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/{id} [get]
// @Security     BearerAuth
func (c *AdminController) GetAdmin() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	admin, err := adminService.GetAdminByID(id)
	if err != nil {
		response.Fail(c.Ctx, code.ErrAdminNotFound, nil)
		return
	}

	response.Success(c.Ctx, adminView(admin))
}

// 3. Register 注册新管理员（multipart，含可选头像）
// @Summary      Register admin
// @Description  Create a new admin account with an optional profile image
// @Tags         Admin
// @Accept       multipart/form-data
// @Produce      json
// @Param        fullName formData string true "Full name"
// @Param        email formData string true "Email"
// @Param        username formData string true "Username"
// @Param        password formData string true "Password (min 8 chars)"
// @Param        description formData string false "Description"
// @Param        contact formData string false "Contact"
// @Param        roles formData string false "Roles as JSON array, e.g. [1,2]"
// @Param        image formData file false "Profile image"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /admin [post]
// @Security     BearerAuth
func (c *AdminController) Register() {
	fullName := strings.TrimSpace(c.Ctx.PostForm("fullName"))
	email := strings.TrimSpace(c.Ctx.PostForm("email"))
	username := strings.TrimSpace(c.Ctx.PostForm("username"))
	password := c.Ctx.PostForm("password")

	if fullName == "" || email == "" || username == "" || password == "" {
		response.ParamError(c.Ctx, "fullName、email、username、password 均为必填")
		return
	}

	var roles models.RoleList
	if rolesStr := c.Ctx.PostForm("roles"); rolesStr != "" {
		if err := json.Unmarshal([]byte(rolesStr), &roles); err != nil {
			response.ParamError(c.Ctx, "roles 必须是JSON数字数组")
			return
		}
	}

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	imageService := c.Container.GetService("image").(services.InterfaceImageService)

	// 先处理头像，入库失败时删除已存储的文件
	profile := ""
	if file, err := c.Ctx.FormFile("image"); err == nil && file != nil {
		profile, err = imageService.ProcessProfileImage(file)
		if err != nil {
			response.FailWithMessage(c.Ctx, code.ErrImageDimension, err.Error(), nil)
			return
		}
	}

	admin := &models.Admin{
		FullName:    fullName,
		Email:       email,
		Username:    username,
		Profile:     profile,
		Description: c.Ctx.PostForm("description"),
		Contact:     c.Ctx.PostForm("contact"),
		Roles:       roles,
	}

	if err := adminService.CreateAdmin(admin, password); err != nil {
		if profile != "" {
			imageService.DeleteImages([]string{profile})
		}
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			response.Fail(c.Ctx, code.ErrAdminAlreadyExist, nil)
		case errors.Is(err, services.ErrPasswordTooShort):
			response.ParamError(c.Ctx, err.Error())
		default:
			response.FailWithMessage(c.Ctx, code.ErrDatabase, "创建管理员失败: "+err.Error(), nil)
		}
		return
	}

	response.Created(c.Ctx, adminView(admin))
}

// 4. UpdateAdmin 更新管理员资料
// @Summary      Update admin
// @Description  Update basic profile fields of an admin account
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id path int true "Admin ID"
// @Param        request body UpdateAdminRequest true "Fields to update"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/{id} [put]
// @Security     BearerAuth
func (c *AdminController) UpdateAdmin() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	var req UpdateAdminRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数: "+err.Error(), nil)
		return
	}

	updates := make(map[string]interface{})
	if req.FullName != "" {
		updates["full_name"] = strings.TrimSpace(req.FullName)
	}
	if req.Username != "" {
		updates["username"] = strings.TrimSpace(req.Username)
	}
	if req.Email != "" {
		updates["email"] = strings.TrimSpace(req.Email)
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Contact != "" {
		updates["contact"] = req.Contact
	}

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	admin, err := adminService.UpdateAdmin(id, updates)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAdminNotFound):
			response.Fail(c.Ctx, code.ErrAdminNotFound, nil)
		case errors.Is(err, services.ErrEmailTaken):
			response.Fail(c.Ctx, code.ErrAdminAlreadyExist, nil)
		default:
			response.FailWithMessage(c.Ctx, code.ErrDatabase, "更新管理员失败: "+err.Error(), nil)
		}
		return
	}

	response.Success(c.Ctx, adminView(admin))
}

// 允许通过单字段接口修改的列
var updatableAdminFields = map[string]bool{
	"full_name":   true,
	"email":       true,
	"contact":     true,
	"description": true,
	"username":    true,
}

// 5. UpdateField 更新管理员的单个资料字段
// @Summary      Update one admin field
// @Description  Update a single whitelisted profile field (full_name, email, contact, description, username)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id path int true "Admin ID"
// @Param        request body UpdateFieldRequest true "Field name and new value"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/{id}/field [patch]
// @Security     BearerAuth
func (c *AdminController) UpdateField() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	var req UpdateFieldRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	if !updatableAdminFields[req.Field] {
		response.ParamError(c.Ctx, "不支持修改该字段: "+req.Field)
		return
	}

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	admin, err := adminService.UpdateAdmin(id, map[string]interface{}{req.Field: strings.TrimSpace(req.Value)})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAdminNotFound):
			response.Fail(c.Ctx, code.ErrAdminNotFound, nil)
		case errors.Is(err, services.ErrEmailTaken):
			response.Fail(c.Ctx, code.ErrAdminAlreadyExist, nil)
		default:
			response.FailWithMessage(c.Ctx, code.ErrDatabase, "更新管理员失败: "+err.Error(), nil)
		}
		return
	}

	response.Success(c.Ctx, adminView(admin))
}

// 6. UpdatePassword 修改密码
// @Summary      Change password
// @Description  Change an admin's password after verifying the old one
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id path int true "Admin ID"
// @Param        request body UpdatePasswordRequest true "Old and new passwords"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /admin/{id}/password [put]
// @Security     BearerAuth
func (c *AdminController) UpdatePassword() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	var req UpdatePasswordRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	if err := adminService.UpdatePassword(id, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, services.ErrAdminNotFound):
			response.Fail(c.Ctx, code.ErrAdminNotFound, nil)
		case errors.Is(err, services.ErrWrongPassword):
			response.Fail(c.Ctx, code.ErrAdminPasswordIncorrect, nil)
		case errors.Is(err, services.ErrPasswordTooShort):
			response.ParamError(c.Ctx, err.Error())
		default:
			response.FailWithMessage(c.Ctx, code.ErrDatabase, "修改密码失败: "+err.Error(), nil)
		}
		return
	}

	response.Success(c.Ctx, nil)
}

// 7. ResetPassword 重置密码为默认口令
// @Summary      Reset password
// @Description  Reset an admin's password to the default one
// @Tags         Admin
// @Produce      json
// @Param        id path int true "Admin ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/{id}/reset-password [post]
// @Security     BearerAuth
func (c *AdminController) ResetPassword() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	if err := adminService.ResetPassword(id); err != nil {
		if errors.Is(err, services.ErrAdminNotFound) {
			response.Fail(c.Ctx, code.ErrAdminNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "重置密码失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, nil)
}

// 8. SetDisabled 启用或禁用管理员账户
// @Summary      Enable or disable admin
// @Description  Disable revokes the stored refresh token; enable restores access
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id path int true "Admin ID"
// @Param        request body object true "{\"disabled\": true}"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/{id}/disable [put]
// @Security     BearerAuth
func (c *AdminController) SetDisabled() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	var req struct {
		Disabled *bool `json:"disabled" binding:"required"`
	}
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	if err := adminService.SetDisabled(id, *req.Disabled); err != nil {
		if errors.Is(err, services.ErrAdminNotFound) {
			response.Fail(c.Ctx, code.ErrAdminNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "更新账户状态失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{"disabled": *req.Disabled})
}

// 9. Enable 恢复已禁用的管理员账户
// @Summary      Enable admin
// @Description  Clear the disabled flag so the account can log in again
// @Tags         Admin
// @Produce      json
// @Param        id path int true "Admin ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/{id}/enable [put]
// @Security     BearerAuth
func (c *AdminController) Enable() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	if err := adminService.SetDisabled(id, false); err != nil {
		if errors.Is(err, services.ErrAdminNotFound) {
			response.Fail(c.Ctx, code.ErrAdminNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "更新账户状态失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{"disabled": false})
}

// 10. DeleteAdmin 删除管理员，超级管理员受保护
// @Summary      Delete admin
// @Description  Delete an admin account; super-admin accounts cannot be deleted
// @Tags         Admin
// @Produce      json
// @Param        id path int true "Admin ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/{id} [delete]
// @Security     BearerAuth
func (c *AdminController) DeleteAdmin() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	if err := adminService.DeleteAdmin(id); err != nil {
		switch {
		case errors.Is(err, services.ErrAdminNotFound):
			response.Fail(c.Ctx, code.ErrAdminNotFound, nil)
		case errors.Is(err, services.ErrSuperAdminProtected):
			response.Fail(c.Ctx, code.ErrAdminProtected, nil)
		default:
			response.FailWithMessage(c.Ctx, code.ErrDatabase, "删除管理员失败: "+err.Error(), nil)
		}
		return
	}

	response.Success(c.Ctx, nil)
}

// 11. GetSystemLogs 获取内容变更日志
// @Summary      List system logs
// @Description  Paged change log entries for kiosk/building/room edits
// @Tags         Admin
// @Produce      json
// @Param        page query int false "Page number, default 1"
// @Param        page_size query int false "Page size, default 20"
// @Param        category query string false "kiosk | building | room"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /admin/logs [get]
// @Security     BearerAuth
func (c *AdminController) GetSystemLogs() {
	page, _ := strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Ctx.DefaultQuery("page_size", "20"))
	category := c.Ctx.Query("category")

	logService := c.Container.GetService("system_log").(services.InterfaceSystemLogService)
	logs, total, err := logService.GetLogs(models.PaginationQuery{PageNum: page, PageSize: pageSize}, category)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询系统日志失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total": total,
		"data":  logs,
	})
}

// 12. Ping 管理端心跳，刷新当前账户的最近活跃时间
// @Summary      Admin heartbeat
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /ping [get]
// @Security     BearerAuth
func (c *AdminController) Ping() {
	if adminID, exists := c.Ctx.Get("adminID"); exists {
		if id, ok := adminID.(uint); ok {
			adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
			_ = adminService.TouchLastSeen(id)
		}
	}

	response.Success(c.Ctx, gin.H{"status": "healthy"})
}
