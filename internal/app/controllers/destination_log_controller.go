package controllers

import (
	"marciaknow-http-service/internal/domain/models"
	"marciaknow-http-service/internal/domain/services"
	"marciaknow-http-service/internal/domain/services/container"
	"marciaknow-http-service/internal/error/code"
	"marciaknow-http-service/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceDestinationLogController 定义目的地日志控制器接口
type InterfaceDestinationLogController interface {
	Create()
	GetFrequentDestinations()
}

// DestinationLogController 目的地日志控制器
type DestinationLogController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewDestinationLogController 创建一个新的目的地日志控制器
func NewDestinationLogController(ctx *gin.Context, container *container.ServiceContainer) *DestinationLogController {
	return &DestinationLogController{
		Ctx:       ctx,
		Container: container,
	}
}

// CreateDestinationLogRequest 记录目的地选择请求
type CreateDestinationLogRequest struct {
	BuildingID      uint   `json:"buildingID" binding:"required"`
	RoomKey         string `json:"roomKey"`
	SearchQuery     string `json:"searchQuery"`
	DestinationType string `json:"destinationType" binding:"required"`
	KioskID         string `json:"kioskID" binding:"required"`
	SessionID       string `json:"sessionID"`
}

// HandleDestinationLogFunc 返回一个处理目的地日志请求的Gin处理函数
func HandleDestinationLogFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewDestinationLogController(ctx, container)

		switch method {
		case "create":
			controller.Create()
		case "getFrequentDestinations":
			controller.GetFrequentDestinations()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// 1. Create 记录一次目的地选择
// @Summary      Log destination selection
// @Tags         Destination
// @Accept       json
// @Produce      json
// @Param        request body CreateDestinationLogRequest true "Destination fields"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /destinationlog [post]
func (c *DestinationLogController) Create() {
	var req CreateDestinationLogRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数: "+err.Error(), nil)
		return
	}

	if req.DestinationType != models.DestinationTypeBuilding && req.DestinationType != models.DestinationTypeRoom {
		response.ParamError(c.Ctx, "destinationType 必须是 building 或 room")
		return
	}

	entry := &models.DestinationLog{
		BuildingID:      req.BuildingID,
		RoomKey:         req.RoomKey,
		SearchQuery:     req.SearchQuery,
		DestinationType: req.DestinationType,
		KioskID:         req.KioskID,
		SessionID:       req.SessionID,
	}

	destinationService := c.Container.GetService("destination_log").(services.InterfaceDestinationLogService)
	if err := destinationService.Create(entry); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "记录目的地失败: "+err.Error(), nil)
		return
	}

	response.Created(c.Ctx, gin.H{"id": entry.ID})
}

// 2. GetFrequentDestinations 获取高频目的地排行
// @Summary      Frequent destinations report
// @Description  Top destinations for a timeframe with building/room names resolved
// @Tags         Destination
// @Produce      json
// @Param        timeframe query string false "week | month | year, default month"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /destinationlog/reports/frequent [get]
// @Security     BearerAuth
func (c *DestinationLogController) GetFrequentDestinations() {
	timeframe := c.Ctx.DefaultQuery("timeframe", "month")

	destinationService := c.Container.GetService("destination_log").(services.InterfaceDestinationLogService)
	report, err := destinationService.GetFrequentDestinations(timeframe)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "统计目的地失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, report)
}
