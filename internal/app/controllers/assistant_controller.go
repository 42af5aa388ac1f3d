package controllers

import (
	"marciaknow-http-service/internal/domain/services"
	"marciaknow-http-service/internal/domain/services/container"
	"marciaknow-http-service/internal/error/code"
	"marciaknow-http-service/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceAssistantController 定义智能助手控制器接口
type InterfaceAssistantController interface {
	Ask()
}

// AssistantController 智能助手控制器
type AssistantController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAssistantController 创建一个新的智能助手控制器
func NewAssistantController(ctx *gin.Context, container *container.ServiceContainer) *AssistantController {
	return &AssistantController{
		Ctx:       ctx,
		Container: container,
	}
}

// AskRequest 问答请求
type AskRequest struct {
	Question  string `json:"question" binding:"required" example:"图书馆怎么走？"`
	SessionID string `json:"sessionID"`
}

// HandleAssistantFunc 返回一个处理智能助手请求的Gin处理函数
func HandleAssistantFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAssistantController(ctx, container)

		switch method {
		case "ask":
			controller.Ask()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// 1. Ask 向智能助手提问
// @Summary      Ask the wayfinding assistant
// @Description  Answer a visitor question with campus context for the asking kiosk; the reply includes any detected destination and navigation hints
// @Tags         Assistant
// @Accept       json
// @Produce      json
// @Param        kioskID path string true "Kiosk ID"
// @Param        request body AskRequest true "Visitor question"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /groq/ask/{kioskID} [post]
func (c *AssistantController) Ask() {
	kioskID := c.Ctx.Param("kioskID")

	var req AskRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	// 信息亭必须存在，上下文提示词依赖其房间数据
	kioskService := c.Container.GetService("kiosk").(services.InterfaceKioskService)
	if _, err := kioskService.GetKioskByID(kioskID); err != nil {
		response.Fail(c.Ctx, code.ErrKioskNotFound, nil)
		return
	}

	assistantService := c.Container.GetService("assistant").(services.InterfaceAssistantService)
	reply, err := assistantService.Ask(kioskID, req.Question, req.SessionID)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrAssistantUpstream, "助手服务暂不可用: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, reply)
}
