package controllers

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"strconv"

	"marciaknow-http-service/internal/domain/models"
	"marciaknow-http-service/internal/domain/services"
	"marciaknow-http-service/internal/domain/services/container"
	"marciaknow-http-service/internal/error/code"
	"marciaknow-http-service/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceBuildingController 定义楼栋控制器接口
type InterfaceBuildingController interface {
	GetBuildings()
	GetBuilding()
	CreateBuilding()
	UpdateBuilding()
	DeleteBuilding()
}

// BuildingController 楼栋控制器
type BuildingController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewBuildingController 创建一个新的楼栋控制器
func NewBuildingController(ctx *gin.Context, container *container.ServiceContainer) *BuildingController {
	return &BuildingController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleBuildingFunc 返回一个处理楼栋请求的Gin处理函数
func HandleBuildingFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewBuildingController(ctx, container)

		switch method {
		case "getBuildings":
			controller.GetBuildings()
		case "getBuilding":
			controller.GetBuilding()
		case "createBuilding":
			controller.CreateBuilding()
		case "updateBuilding":
			controller.UpdateBuilding()
		case "deleteBuilding":
			controller.DeleteBuilding()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// parseNavigationForms 解析表单中的导航JSON字符串
func parseNavigationForms(ctx *gin.Context) (models.PathPoints, models.GuideSteps, error) {
	var path models.PathPoints
	var guide models.GuideSteps

	if raw := ctx.PostForm("navigationPath"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &path); err != nil {
			return nil, nil, errors.New("navigationPath 必须是合法的JSON数组")
		}
	}
	if raw := ctx.PostForm("navigationGuide"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &guide); err != nil {
			return nil, nil, errors.New("navigationGuide 必须是合法的JSON数组")
		}
	}

	return path, guide, nil
}

// formImages 取出multipart表单中的图片文件
func formImages(ctx *gin.Context, field string) []*multipart.FileHeader {
	form, err := ctx.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File[field]
}

// parseRetainedImageIDs 解析保留图片ID列表，表单缺省时返回nil（保留全部）
func parseRetainedImageIDs(ctx *gin.Context) ([]uint, error) {
	raw, exists := ctx.GetPostForm("retainedImageIds")
	if !exists {
		return nil, nil
	}

	var ids []uint
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, errors.New("retainedImageIds 必须是JSON数字数组")
	}
	if ids == nil {
		ids = []uint{}
	}
	return ids, nil
}

// 1. GetBuildings 获取楼栋列表，含按信息亭分组的房间与导航数据
// @Summary      List buildings
// @Description  Get all buildings with rooms and navigation data grouped by kiosk ID
// @Tags         Building
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /building [get]
// @Security     BearerAuth
func (c *BuildingController) GetBuildings() {
	buildingService := c.Container.GetService("building").(services.InterfaceBuildingService)
	buildings, err := buildingService.GetAllBuildings()
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询楼栋列表失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, buildings)
}

// 2. GetBuilding 获取楼栋详情
// @Summary      Get building
// @Description  Get one building with per-kiosk room and navigation maps
// @Tags         Building
// @Produce      json
// @Param        id path int true "Building ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /building/{id} [get]
// @Security     BearerAuth
func (c *BuildingController) GetBuilding() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	buildingService := c.Container.GetService("building").(services.InterfaceBuildingService)
	building, err := buildingService.GetBuildingByID(id)
	if err != nil {
		response.Fail(c.Ctx, code.ErrBuildingNotFound, nil)
		return
	}

	response.Success(c.Ctx, building)
}

// 3. CreateBuilding 创建楼栋（multipart），为所有信息亭建立导航条目
// @Summary      Create building
// @Description  Create a building with images and navigation data for the submitting kiosk; navigation rows are created for every kiosk
// @Tags         Building
// @Accept       multipart/form-data
// @Produce      json
// @Param        name formData string true "Building name (unique)"
// @Param        description formData string false "Description"
// @Param        path formData string false "Map path identifier"
// @Param        numberOfFloor formData int false "Number of floors"
// @Param        kioskID formData string true "Originating kiosk ID"
// @Param        navigationPath formData string false "JSON array of {x,y} waypoints"
// @Param        navigationGuide formData string false "JSON array of {icon,description} steps"
// @Param        images formData file false "Building images (JPEG/PNG, 16:9)"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /building [post]
// @Security     BearerAuth
func (c *BuildingController) CreateBuilding() {
	name := c.Ctx.PostForm("name")
	kioskID := c.Ctx.PostForm("kioskID")
	if name == "" || kioskID == "" {
		response.ParamError(c.Ctx, "name 和 kioskID 为必填")
		return
	}

	numberOfFloor, _ := strconv.Atoi(c.Ctx.DefaultPostForm("numberOfFloor", "1"))

	navPath, navGuide, err := parseNavigationForms(c.Ctx)
	if err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	imageService := c.Container.GetService("image").(services.InterfaceImageService)
	images, err := imageService.ProcessImages(formImages(c.Ctx, "images"))
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrImageDimension, err.Error(), nil)
		return
	}

	input := &services.BuildingCreateInput{
		Name:            name,
		Description:     c.Ctx.PostForm("description"),
		Path:            c.Ctx.PostForm("path"),
		NumberOfFloor:   numberOfFloor,
		KioskID:         kioskID,
		NavigationPath:  navPath,
		NavigationGuide: navGuide,
		Images:          images,
	}

	adminID, adminName := currentAdmin(c.Ctx)
	buildingService := c.Container.GetService("building").(services.InterfaceBuildingService)
	building, err := buildingService.CreateBuilding(input, adminID, adminName)
	if err != nil {
		// 入库失败时清理已保存的图片
		var files []string
		for _, img := range images {
			files = append(files, img.FilePath)
		}
		imageService.DeleteImages(files)

		switch err.Error() {
		case "信息亭不存在":
			response.Fail(c.Ctx, code.ErrKioskNotFound, nil)
			return
		case "楼栋名称已存在":
			response.Fail(c.Ctx, code.ErrBuildingAlreadyExist, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "创建楼栋失败: "+err.Error(), nil)
		return
	}

	response.Created(c.Ctx, building)
}

// 4. UpdateBuilding 更新楼栋（multipart），导航内容变化时才覆盖
// @Summary      Update building
// @Description  Merge scalar fields, overwrite navigation only when content differs, and diff images against the retained list
// @Tags         Building
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path int true "Building ID"
// @Param        name formData string false "Building name"
// @Param        description formData string false "Description"
// @Param        path formData string false "Map path identifier"
// @Param        numberOfFloor formData int false "Number of floors"
// @Param        kioskID formData string false "Kiosk whose navigation data is being edited"
// @Param        navigationPath formData string false "JSON array of {x,y} waypoints"
// @Param        navigationGuide formData string false "JSON array of {icon,description} steps"
// @Param        retainedImageIds formData string false "JSON array of image IDs to keep"
// @Param        images formData file false "New building images"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /building/{id} [put]
// @Security     BearerAuth
func (c *BuildingController) UpdateBuilding() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	input := &services.BuildingUpdateInput{
		KioskID: c.Ctx.PostForm("kioskID"),
	}

	if name, exists := c.Ctx.GetPostForm("name"); exists {
		input.Name = &name
	}
	if desc, exists := c.Ctx.GetPostForm("description"); exists {
		input.Description = &desc
	}
	if path, exists := c.Ctx.GetPostForm("path"); exists {
		input.Path = &path
	}
	if floorStr, exists := c.Ctx.GetPostForm("numberOfFloor"); exists {
		floor, err := strconv.Atoi(floorStr)
		if err != nil {
			response.ParamError(c.Ctx, "numberOfFloor 必须是整数")
			return
		}
		input.NumberOfFloor = &floor
	}

	if raw, exists := c.Ctx.GetPostForm("navigationPath"); exists {
		var navPath models.PathPoints
		if err := json.Unmarshal([]byte(raw), &navPath); err != nil {
			response.ParamError(c.Ctx, "navigationPath 必须是合法的JSON数组")
			return
		}
		input.NavigationPath = &navPath
	}
	if raw, exists := c.Ctx.GetPostForm("navigationGuide"); exists {
		var navGuide models.GuideSteps
		if err := json.Unmarshal([]byte(raw), &navGuide); err != nil {
			response.ParamError(c.Ctx, "navigationGuide 必须是合法的JSON数组")
			return
		}
		input.NavigationGuide = &navGuide
	}

	retained, err := parseRetainedImageIDs(c.Ctx)
	if err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}
	input.RetainedImageIDs = retained

	imageService := c.Container.GetService("image").(services.InterfaceImageService)
	newImages, err := imageService.ProcessImages(formImages(c.Ctx, "images"))
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrImageDimension, err.Error(), nil)
		return
	}
	input.NewImages = newImages

	adminID, adminName := currentAdmin(c.Ctx)
	buildingService := c.Container.GetService("building").(services.InterfaceBuildingService)
	building, err := buildingService.UpdateBuilding(id, input, adminID, adminName)
	if err != nil {
		var files []string
		for _, img := range newImages {
			files = append(files, img.FilePath)
		}
		imageService.DeleteImages(files)

		if err.Error() == "楼栋不存在" {
			response.Fail(c.Ctx, code.ErrBuildingNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "更新楼栋失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, building)
}

// 5. DeleteBuilding 删除楼栋，级联删除房间、导航与图片
// @Summary      Delete building
// @Description  Delete a building; its rooms, navigation entries and images are removed
// @Tags         Building
// @Produce      json
// @Param        id path int true "Building ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /building/{id} [delete]
// @Security     BearerAuth
func (c *BuildingController) DeleteBuilding() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	adminID, adminName := currentAdmin(c.Ctx)
	buildingService := c.Container.GetService("building").(services.InterfaceBuildingService)
	if err := buildingService.DeleteBuilding(id, adminID, adminName); err != nil {
		if err.Error() == "楼栋不存在" {
			response.Fail(c.Ctx, code.ErrBuildingNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "删除楼栋失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, nil)
}
