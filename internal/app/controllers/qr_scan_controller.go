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
	"gorm.io/gorm"
)

// InterfaceQrScanController 定义扫码日志控制器接口
type InterfaceQrScanController interface {
	LogScan()
	GetDailyReport()
	GetTopBuildings()
}

// QrScanController 扫码日志控制器
type QrScanController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewQrScanController 创建一个新的扫码日志控制器
func NewQrScanController(ctx *gin.Context, container *container.ServiceContainer) *QrScanController {
	return &QrScanController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleQrScanFunc 返回一个处理扫码日志请求的Gin处理函数
func HandleQrScanFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewQrScanController(ctx, container)

		switch method {
		case "logScan":
			controller.LogScan()
		case "getDailyReport":
			controller.GetDailyReport()
		case "getTopBuildings":
			controller.GetTopBuildings()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// 1. LogScan 记录一次二维码扫码
// @Summary      Log QR scan
// @Description  Record a scan of a building QR code, capturing request metadata
// @Tags         QrScan
// @Produce      json
// @Param        buildingId path int true "Building ID"
// @Param        kioskId path string true "Kiosk ID"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /qrscan/{buildingId}/{kioskId} [post]
func (c *QrScanController) LogScan() {
	buildingID, ok := parseIDParam(c.Ctx, "buildingId")
	if !ok {
		return
	}
	kioskID := c.Ctx.Param("kioskId")

	// 楼栋名称冗余存储，楼栋删除后报表仍可读
	buildingName := ""
	var building models.Building
	if err := c.Container.GetDB().First(&building, buildingID).Error; err == nil {
		buildingName = building.Name
	} else if errors.Is(err, gorm.ErrRecordNotFound) {
		response.Fail(c.Ctx, code.ErrBuildingNotFound, nil)
		return
	}

	entry := &models.QrScanLog{
		BuildingID:   buildingID,
		BuildingName: buildingName,
		KioskID:      kioskID,
		IPAddress:    c.Ctx.ClientIP(),
		UserAgent:    c.Ctx.Request.UserAgent(),
		Referrer:     c.Ctx.Request.Referer(),
		SessionID:    c.Ctx.Query("sessionID"),
	}

	qrScanService := c.Container.GetService("qr_scan").(services.InterfaceQrScanService)
	if err := qrScanService.LogScan(entry); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "记录扫码失败: "+err.Error(), nil)
		return
	}

	response.Created(c.Ctx, gin.H{"id": entry.ID})
}

// 2. GetDailyReport 获取扫码日报
// @Summary      Daily QR scan report
// @Description  Per-day scan counts for a date range; days without scans are zero-filled
// @Tags         QrScan
// @Produce      json
// @Param        start query string false "Start date YYYY-MM-DD, default 30 days ago"
// @Param        end query string false "End date YYYY-MM-DD, default today"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /qrscan/reports/daily [get]
// @Security     BearerAuth
func (c *QrScanController) GetDailyReport() {
	end := time.Now()
	start := end.AddDate(0, 0, -30)

	if s := c.Ctx.Query("start"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			response.ParamError(c.Ctx, "start 日期格式应为 YYYY-MM-DD")
			return
		}
		start = parsed
	}
	if s := c.Ctx.Query("end"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			response.ParamError(c.Ctx, "end 日期格式应为 YYYY-MM-DD")
			return
		}
		end = parsed
	}
	if end.Before(start) {
		response.ParamError(c.Ctx, "end 不能早于 start")
		return
	}

	qrScanService := c.Container.GetService("qr_scan").(services.InterfaceQrScanService)
	report, err := qrScanService.GetDailyReport(start, end)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "统计扫码日报失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, report)
}

// 3. GetTopBuildings 获取扫码最多的楼栋排行
// @Summary      Top scanned buildings
// @Tags         QrScan
// @Produce      json
// @Param        limit query int false "Max entries, default 10"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /qrscan/reports/top-buildings [get]
// @Security     BearerAuth
func (c *QrScanController) GetTopBuildings() {
	limit, _ := strconv.Atoi(c.Ctx.DefaultQuery("limit", "10"))

	qrScanService := c.Container.GetService("qr_scan").(services.InterfaceQrScanService)
	rows, err := qrScanService.GetTopBuildings(limit)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "统计楼栋扫码失败: "+err.Error(), nil)
		return
	}

	total, err := qrScanService.GetTotal()
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "统计扫码总量失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total":     total,
		"buildings": rows,
	})
}
