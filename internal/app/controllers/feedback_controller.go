package controllers

import (
	"errors"
	"strconv"
	"time"

	"marciaknow-http-service/internal/domain/models"
	"marciaknow-http-service/internal/domain/services"
	"marciaknow-http-service/internal/domain/services/container"
	"marciaknow-http-service/internal/error/code"
	"marciaknow-http-service/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceFeedbackController 定义反馈控制器接口
type InterfaceFeedbackController interface {
	Submit()
	GetFeedbacks()
	GetFeedback()
	UpdateFeedback()
	DeleteFeedback()
	BulkUpdateStatus()
	GetStats()
}

// FeedbackController 反馈控制器
type FeedbackController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewFeedbackController 创建一个新的反馈控制器
func NewFeedbackController(ctx *gin.Context, container *container.ServiceContainer) *FeedbackController {
	return &FeedbackController{
		Ctx:       ctx,
		Container: container,
	}
}

// UpdateFeedbackRequest 更新反馈处理信息请求
type UpdateFeedbackRequest struct {
	Status     string `json:"status"`
	Priority   string `json:"priority"`
	AssignedTo string `json:"assignedTo"`
	AdminNotes string `json:"adminNotes"`
}

// BulkStatusRequest 批量更新状态请求
type BulkStatusRequest struct {
	IDs    []uint `json:"ids" binding:"required"`
	Status string `json:"status" binding:"required"`
}

// HandleFeedbackFunc 返回一个处理反馈请求的Gin处理函数
func HandleFeedbackFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewFeedbackController(ctx, container)

		switch method {
		case "submit":
			controller.Submit()
		case "getFeedbacks":
			controller.GetFeedbacks()
		case "getFeedback":
			controller.GetFeedback()
		case "updateFeedback":
			controller.UpdateFeedback()
		case "deleteFeedback":
			controller.DeleteFeedback()
		case "bulkUpdateStatus":
			controller.BulkUpdateStatus()
		case "getStats":
			controller.GetStats()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// 1. Submit 提交访客反馈（multipart，附件最多5张）
// @Summary      Submit feedback
// @Description  Submit visitor feedback with up to 5 image attachments; status defaults to New and priority to Medium
// @Tags         Feedback
// @Accept       multipart/form-data
// @Produce      json
// @Param        message formData string true "Feedback message (max 2000 chars)"
// @Param        category formData string true "Bug | Suggestion | Complaint | Praise"
// @Param        kioskLocation formData string false "Kiosk location label"
// @Param        pageSection formData string false "Page or section the feedback refers to"
// @Param        userEmail formData string false "Contact email"
// @Param        userPhone formData string false "Contact phone"
// @Param        sessionID formData string false "Frontend session ID"
// @Param        attachments formData file false "Image attachments"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /feedback/submit [post]
func (c *FeedbackController) Submit() {
	files := formImages(c.Ctx, "attachments")
	if len(files) > models.MaxFeedbackAttachments {
		response.Fail(c.Ctx, code.ErrImageTooMany, nil)
		return
	}

	imageService := c.Container.GetService("image").(services.InterfaceImageService)
	attachments, err := imageService.ProcessImages(files)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrImageDimension, err.Error(), nil)
		return
	}

	feedback := &models.Feedback{
		Message:       c.Ctx.PostForm("message"),
		Category:      c.Ctx.PostForm("category"),
		KioskLocation: c.Ctx.PostForm("kioskLocation"),
		PageSection:   c.Ctx.PostForm("pageSection"),
		UserEmail:     c.Ctx.PostForm("userEmail"),
		UserPhone:     c.Ctx.PostForm("userPhone"),
		SessionID:     c.Ctx.PostForm("sessionID"),
		IPAddress:     c.Ctx.ClientIP(),
		UserAgent:     c.Ctx.Request.UserAgent(),
	}

	feedbackService := c.Container.GetService("feedback").(services.InterfaceFeedbackService)
	created, err := feedbackService.Submit(feedback, attachments)
	if err != nil {
		var files []string
		for _, img := range attachments {
			files = append(files, img.FilePath)
		}
		imageService.DeleteImages(files)

		switch {
		case errors.Is(err, services.ErrFeedbackMessageEmpty),
			errors.Is(err, services.ErrFeedbackMessageTooLong):
			response.ParamError(c.Ctx, err.Error())
		case errors.Is(err, services.ErrInvalidCategory):
			response.Fail(c.Ctx, code.ErrFeedbackCategory, nil)
		case errors.Is(err, services.ErrTooManyAttachments):
			response.Fail(c.Ctx, code.ErrImageTooMany, nil)
		default:
			response.FailWithMessage(c.Ctx, code.ErrDatabase, "提交反馈失败: "+err.Error(), nil)
		}
		return
	}

	response.Created(c.Ctx, gin.H{
		"id":        created.ID,
		"message":   created.Message,
		"category":  created.Category,
		"status":    created.Status,
		"createdAt": created.CreatedAt,
	})
}

// 2. GetFeedbacks 获取反馈列表
// @Summary      List feedback
// @Description  Paged feedback list with category/status/priority/location/date filters
// @Tags         Feedback
// @Produce      json
// @Param        page query int false "Page number, default 1"
// @Param        page_size query int false "Page size, default 20"
// @Param        category query string false "Category filter"
// @Param        status query string false "Status filter"
// @Param        priority query string false "Priority filter"
// @Param        kioskLocation query string false "Kiosk location substring filter"
// @Param        start query string false "Start date YYYY-MM-DD"
// @Param        end query string false "End date YYYY-MM-DD"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /feedback [get]
// @Security     BearerAuth
func (c *FeedbackController) GetFeedbacks() {
	page, _ := strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Ctx.DefaultQuery("page_size", "20"))

	filter := services.FeedbackFilter{
		Category:      c.Ctx.Query("category"),
		Status:        c.Ctx.Query("status"),
		Priority:      c.Ctx.Query("priority"),
		KioskLocation: c.Ctx.Query("kioskLocation"),
	}
	if s := c.Ctx.Query("start"); s != "" {
		if parsed, err := time.Parse("2006-01-02", s); err == nil {
			filter.StartDate = &parsed
		}
	}
	if s := c.Ctx.Query("end"); s != "" {
		if parsed, err := time.Parse("2006-01-02", s); err == nil {
			endOfDay := parsed.Add(24*time.Hour - time.Second)
			filter.EndDate = &endOfDay
		}
	}

	feedbackService := c.Container.GetService("feedback").(services.InterfaceFeedbackService)
	feedbacks, total, err := feedbackService.GetFeedbacks(models.PaginationQuery{PageNum: page, PageSize: pageSize}, filter)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询反馈列表失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total": total,
		"data":  feedbacks,
	})
}

// 3. GetFeedback 获取反馈详情
// @Summary      Get feedback
// @Tags         Feedback
// @Produce      json
// @Param        id path int true "Feedback ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /feedback/{id} [get]
// @Security     BearerAuth
func (c *FeedbackController) GetFeedback() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	feedbackService := c.Container.GetService("feedback").(services.InterfaceFeedbackService)
	feedback, err := feedbackService.GetFeedbackByID(id)
	if err != nil {
		response.Fail(c.Ctx, code.ErrFeedbackNotFound, nil)
		return
	}

	response.Success(c.Ctx, feedback)
}

// 4. UpdateFeedback 更新反馈处理信息
// @Summary      Update feedback
// @Description  Update handling fields; status and priority values are validated
// @Tags         Feedback
// @Accept       json
// @Produce      json
// @Param        id path int true "Feedback ID"
// @Param        request body UpdateFeedbackRequest true "Fields to update"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /feedback/{id} [put]
// @Security     BearerAuth
func (c *FeedbackController) UpdateFeedback() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	var req UpdateFeedbackRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	updates := make(map[string]interface{})
	if req.Status != "" {
		updates["status"] = req.Status
	}
	if req.Priority != "" {
		updates["priority"] = req.Priority
	}
	if req.AssignedTo != "" {
		updates["assigned_to"] = req.AssignedTo
	}
	if req.AdminNotes != "" {
		updates["admin_notes"] = req.AdminNotes
	}

	feedbackService := c.Container.GetService("feedback").(services.InterfaceFeedbackService)
	feedback, err := feedbackService.UpdateFeedback(id, updates)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFeedbackNotFound):
			response.Fail(c.Ctx, code.ErrFeedbackNotFound, nil)
		case errors.Is(err, services.ErrInvalidStatus):
			response.Fail(c.Ctx, code.ErrFeedbackStatus, nil)
		case errors.Is(err, services.ErrInvalidPriority):
			response.Fail(c.Ctx, code.ErrFeedbackPriority, nil)
		default:
			response.FailWithMessage(c.Ctx, code.ErrDatabase, "更新反馈失败: "+err.Error(), nil)
		}
		return
	}

	response.Success(c.Ctx, feedback)
}

// 5. DeleteFeedback 删除反馈及其附件
// @Summary      Delete feedback
// @Tags         Feedback
// @Produce      json
// @Param        id path int true "Feedback ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /feedback/{id} [delete]
// @Security     BearerAuth
func (c *FeedbackController) DeleteFeedback() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	feedbackService := c.Container.GetService("feedback").(services.InterfaceFeedbackService)
	if err := feedbackService.DeleteFeedback(id); err != nil {
		if errors.Is(err, services.ErrFeedbackNotFound) {
			response.Fail(c.Ctx, code.ErrFeedbackNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "删除反馈失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, nil)
}

// 6. BulkUpdateStatus 批量更新反馈状态
// @Summary      Bulk update feedback status
// @Tags         Feedback
// @Accept       json
// @Produce      json
// @Param        request body BulkStatusRequest true "IDs and target status"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /feedback/bulk-status [put]
// @Security     BearerAuth
func (c *FeedbackController) BulkUpdateStatus() {
	var req BulkStatusRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	feedbackService := c.Container.GetService("feedback").(services.InterfaceFeedbackService)
	updated, err := feedbackService.BulkUpdateStatus(req.IDs, req.Status)
	if err != nil {
		if errors.Is(err, services.ErrInvalidStatus) {
			response.Fail(c.Ctx, code.ErrFeedbackStatus, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "批量更新反馈失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{"updated": updated})
}

// 7. GetStats 获取反馈统计
// @Summary      Feedback statistics
// @Description  Feedback counts grouped by category, status and priority
// @Tags         Feedback
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /feedback/stats [get]
// @Security     BearerAuth
func (c *FeedbackController) GetStats() {
	feedbackService := c.Container.GetService("feedback").(services.InterfaceFeedbackService)
	stats, err := feedbackService.GetStats()
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "统计反馈失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, stats)
}
