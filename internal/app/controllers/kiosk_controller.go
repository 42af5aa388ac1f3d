package controllers

import (
	"marciaknow-http-service/internal/domain/models"
	"marciaknow-http-service/internal/domain/services"
	"marciaknow-http-service/internal/domain/services/container"
	"marciaknow-http-service/internal/error/code"
	"marciaknow-http-service/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceKioskController 定义信息亭控制器接口
type InterfaceKioskController interface {
	GetKiosks()
	GetKiosk()
	CreateKiosk()
	UpdateKiosk()
	DeleteKiosk()
	Ping()
}

// KioskController 信息亭控制器
type KioskController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewKioskController 创建一个新的信息亭控制器
func NewKioskController(ctx *gin.Context, container *container.ServiceContainer) *KioskController {
	return &KioskController{
		Ctx:       ctx,
		Container: container,
	}
}

// CreateKioskRequest 创建信息亭请求
type CreateKioskRequest struct {
	Name        string  `json:"name" binding:"required" example:"图书馆入口亭"`
	Location    string  `json:"location" example:"图书馆一层大厅"`
	CoordinateX float64 `json:"coordinateX" example:"120.5"`
	CoordinateY float64 `json:"coordinateY" example:"88.25"`
}

// UpdateKioskRequest 更新信息亭请求
type UpdateKioskRequest struct {
	Name        *string  `json:"name"`
	Location    *string  `json:"location"`
	CoordinateX *float64 `json:"coordinateX"`
	CoordinateY *float64 `json:"coordinateY"`
	Status      *string  `json:"status"`
}

// HandleKioskFunc 返回一个处理信息亭请求的Gin处理函数
func HandleKioskFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewKioskController(ctx, container)

		switch method {
		case "getKiosks":
			controller.GetKiosks()
		case "getKiosk":
			controller.GetKiosk()
		case "createKiosk":
			controller.CreateKiosk()
		case "updateKiosk":
			controller.UpdateKiosk()
		case "deleteKiosk":
			controller.DeleteKiosk()
		case "ping":
			controller.Ping()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// currentAdmin 从认证上下文取当前管理员信息
func currentAdmin(ctx *gin.Context) (uint, string) {
	var id uint
	var name string
	if v, exists := ctx.Get("adminID"); exists {
		if n, ok := v.(uint); ok {
			id = n
		}
	}
	if v, exists := ctx.Get("adminName"); exists {
		if s, ok := v.(string); ok {
			name = s
		}
	}
	return id, name
}

// 1. GetKiosks 获取信息亭列表
// @Summary      List kiosks
// @Description  Get all kiosks ordered by kiosk ID
// @Tags         Kiosk
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /kiosk [get]
// @Security     BearerAuth
func (c *KioskController) GetKiosks() {
	kioskService := c.Container.GetService("kiosk").(services.InterfaceKioskService)
	kiosks, err := kioskService.GetAllKiosks()
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询信息亭列表失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, kiosks)
}

// 2. GetKiosk 获取信息亭详情
// @Summary      Get kiosk
// @Description  Get one kiosk by its kiosk ID
// @Tags         Kiosk
// @Produce      json
// @Param        kioskID path string true "Kiosk ID, e.g. K123A4Y5"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /kiosk/{kioskID} [get]
// @Security     BearerAuth
func (c *KioskController) GetKiosk() {
	kioskID := c.Ctx.Param("kioskID")

	kioskService := c.Container.GetService("kiosk").(services.InterfaceKioskService)
	kiosk, err := kioskService.GetKioskByID(kioskID)
	if err != nil {
		response.Fail(c.Ctx, code.ErrKioskNotFound, nil)
		return
	}

	response.Success(c.Ctx, kiosk)
}

// 3. CreateKiosk 创建新信息亭，创建后继承既有房间数据
// @Summary      Create kiosk
// @Description  Create a kiosk; it inherits a copy of room data from an existing kiosk
// @Tags         Kiosk
// @Accept       json
// @Produce      json
// @Param        request body CreateKioskRequest true "Kiosk fields"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /kiosk [post]
// @Security     BearerAuth
func (c *KioskController) CreateKiosk() {
	var req CreateKioskRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数: "+err.Error(), nil)
		return
	}

	adminID, adminName := currentAdmin(c.Ctx)
	kiosk := &models.Kiosk{
		Name:        req.Name,
		Location:    req.Location,
		CoordinateX: req.CoordinateX,
		CoordinateY: req.CoordinateY,
	}

	kioskService := c.Container.GetService("kiosk").(services.InterfaceKioskService)
	if err := kioskService.CreateKiosk(kiosk, adminID, adminName); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "创建信息亭失败: "+err.Error(), nil)
		return
	}

	response.Created(c.Ctx, kiosk)
}

// 4. UpdateKiosk 更新信息亭，坐标变化会同步所有路径起点
// @Summary      Update kiosk
// @Description  Update kiosk fields; a coordinate change rewrites the first waypoint of every path of this kiosk
// @Tags         Kiosk
// @Accept       json
// @Produce      json
// @Param        kioskID path string true "Kiosk ID"
// @Param        request body UpdateKioskRequest true "Fields to update"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /kiosk/{kioskID} [put]
// @Security     BearerAuth
func (c *KioskController) UpdateKiosk() {
	kioskID := c.Ctx.Param("kioskID")

	var req UpdateKioskRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数: "+err.Error(), nil)
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.CoordinateX != nil {
		updates["coordinate_x"] = *req.CoordinateX
	}
	if req.CoordinateY != nil {
		updates["coordinate_y"] = *req.CoordinateY
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}

	adminID, adminName := currentAdmin(c.Ctx)
	kioskService := c.Container.GetService("kiosk").(services.InterfaceKioskService)
	kiosk, err := kioskService.UpdateKiosk(kioskID, updates, adminID, adminName)
	if err != nil {
		if err.Error() == "信息亭不存在" {
			response.Fail(c.Ctx, code.ErrKioskNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "更新信息亭失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, kiosk)
}

// 5. DeleteKiosk 删除信息亭及其全部房间副本与导航数据
// @Summary      Delete kiosk
// @Description  Delete a kiosk; its room copies and navigation entries in every building are removed
// @Tags         Kiosk
// @Produce      json
// @Param        kioskID path string true "Kiosk ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /kiosk/{kioskID} [delete]
// @Security     BearerAuth
func (c *KioskController) DeleteKiosk() {
	kioskID := c.Ctx.Param("kioskID")

	adminID, adminName := currentAdmin(c.Ctx)
	kioskService := c.Container.GetService("kiosk").(services.InterfaceKioskService)
	if err := kioskService.DeleteKiosk(kioskID, adminID, adminName); err != nil {
		if err.Error() == "信息亭不存在" {
			response.Fail(c.Ctx, code.ErrKioskNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "删除信息亭失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, nil)
}

// 6. Ping 信息亭签到，状态置为在线并刷新签到时间
// @Summary      Kiosk check-in
// @Description  Mark a kiosk online and refresh its last check-in time
// @Tags         Kiosk
// @Produce      json
// @Param        kioskID path string true "Kiosk ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /kiosk/{kioskID}/ping [post]
func (c *KioskController) Ping() {
	kioskID := c.Ctx.Param("kioskID")

	kioskService := c.Container.GetService("kiosk").(services.InterfaceKioskService)
	if err := kioskService.Ping(kioskID); err != nil {
		if err.Error() == "信息亭不存在" {
			response.Fail(c.Ctx, code.ErrKioskNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "信息亭签到失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{"status": models.KioskStatusOnline})
}
