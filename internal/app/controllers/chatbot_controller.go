package controllers

import (
	"strconv"

	"marciaknow-http-service/internal/domain/models"
	"marciaknow-http-service/internal/domain/services"
	"marciaknow-http-service/internal/domain/services/container"
	"marciaknow-http-service/internal/error/code"
	"marciaknow-http-service/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceChatbotController 定义聊天分析控制器接口
type InterfaceChatbotController interface {
	LogInteraction()
	GetMetrics()
	GetLogs()
	GetSessionHistory()
}

// ChatbotController 聊天分析控制器
type ChatbotController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewChatbotController 创建一个新的聊天分析控制器
func NewChatbotController(ctx *gin.Context, container *container.ServiceContainer) *ChatbotController {
	return &ChatbotController{
		Ctx:       ctx,
		Container: container,
	}
}

// LogInteractionRequest 记录问答请求
type LogInteractionRequest struct {
	KioskID      string  `json:"kioskID" binding:"required"`
	UserMessage  string  `json:"userMessage" binding:"required"`
	AIResponse   string  `json:"aiResponse"`
	DetectedName string  `json:"detectedName"`
	DetectedType string  `json:"detectedType"`
	Confidence   float64 `json:"confidence"`
	Action       string  `json:"action"`
	ResponseTime int64   `json:"responseTime"`
	SessionID    string  `json:"sessionID"`
}

// HandleChatbotFunc 返回一个处理聊天分析请求的Gin处理函数
func HandleChatbotFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewChatbotController(ctx, container)

		switch method {
		case "logInteraction":
			controller.LogInteraction()
		case "getMetrics":
			controller.GetMetrics()
		case "getLogs":
			controller.GetLogs()
		case "getSessionHistory":
			controller.GetSessionHistory()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// 1. LogInteraction 记录一次前端上报的问答
// @Summary      Log chatbot interaction
// @Description  Store an interaction reported by the kiosk frontend
// @Tags         Chatbot
// @Accept       json
// @Produce      json
// @Param        request body LogInteractionRequest true "Interaction fields"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /chatbot/log [post]
func (c *ChatbotController) LogInteraction() {
	var req LogInteractionRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数: "+err.Error(), nil)
		return
	}

	entry := &models.ChatbotInteraction{
		KioskID:      req.KioskID,
		UserMessage:  req.UserMessage,
		AIResponse:   req.AIResponse,
		DetectedName: req.DetectedName,
		DetectedType: req.DetectedType,
		Confidence:   req.Confidence,
		Action:       req.Action,
		ResponseTime: req.ResponseTime,
		SessionID:    req.SessionID,
	}

	chatbotService := c.Container.GetService("chatbot").(services.InterfaceChatbotService)
	if err := chatbotService.LogInteraction(entry); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "记录问答失败: "+err.Error(), nil)
		return
	}

	response.Created(c.Ctx, gin.H{"id": entry.ID})
}

// 2. GetMetrics 获取问答统计指标
// @Summary      Chatbot metrics
// @Description  Usage metrics for a timeframe: totals, daily buckets, common queries, action/confidence breakdowns, per-kiosk activity
// @Tags         Chatbot
// @Produce      json
// @Param        timeframe query string false "week | month | year, default month"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /chatbot/metrics [get]
// @Security     BearerAuth
func (c *ChatbotController) GetMetrics() {
	timeframe := c.Ctx.DefaultQuery("timeframe", "month")

	chatbotService := c.Container.GetService("chatbot").(services.InterfaceChatbotService)
	metrics, err := chatbotService.GetMetrics(timeframe)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "统计问答指标失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, metrics)
}

// 3. GetLogs 获取问答日志列表
// @Summary      Chatbot interaction logs
// @Description  Paged interaction log, filterable by kiosk, action and session
// @Tags         Chatbot
// @Produce      json
// @Param        page query int false "Page number, default 1"
// @Param        page_size query int false "Page size, default 20"
// @Param        kioskID query string false "Filter by kiosk ID"
// @Param        action query string false "Filter by detected action"
// @Param        sessionID query string false "Filter by session ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /chatbot/logs [get]
// @Security     BearerAuth
func (c *ChatbotController) GetLogs() {
	page, _ := strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Ctx.DefaultQuery("page_size", "20"))

	chatbotService := c.Container.GetService("chatbot").(services.InterfaceChatbotService)
	logs, total, err := chatbotService.GetLogs(
		models.PaginationQuery{PageNum: page, PageSize: pageSize},
		c.Ctx.Query("kioskID"),
		c.Ctx.Query("action"),
		c.Ctx.Query("sessionID"),
	)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询问答日志失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total": total,
		"data":  logs,
	})
}

// 4. GetSessionHistory 获取单个会话的完整问答历史
// @Summary      Session history
// @Tags         Chatbot
// @Produce      json
// @Param        sessionID path string true "Session ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /chatbot/session/{sessionID} [get]
// @Security     BearerAuth
func (c *ChatbotController) GetSessionHistory() {
	sessionID := c.Ctx.Param("sessionID")

	chatbotService := c.Container.GetService("chatbot").(services.InterfaceChatbotService)
	history, err := chatbotService.GetSessionHistory(sessionID)
	if err != nil {
		response.NotFound(c.Ctx, "会话不存在")
		return
	}

	response.Success(c.Ctx, history)
}
