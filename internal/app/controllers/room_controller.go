package controllers

import (
	"encoding/json"
	"strconv"

	"marciaknow-http-service/internal/domain/models"
	"marciaknow-http-service/internal/domain/services"
	"marciaknow-http-service/internal/domain/services/container"
	"marciaknow-http-service/internal/error/code"
	"marciaknow-http-service/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceRoomController 定义房间控制器接口
type InterfaceRoomController interface {
	GetRooms()
	AddRoom()
	UpdateRoom()
	DeleteRoom()
}

// RoomController 房间控制器
type RoomController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewRoomController 创建一个新的房间控制器
func NewRoomController(ctx *gin.Context, container *container.ServiceContainer) *RoomController {
	return &RoomController{
		Ctx:       ctx,
		Container: container,
	}
}

// DeleteRoomRequest 删除房间请求，roomKey 缺省时按名称与楼层匹配
type DeleteRoomRequest struct {
	RoomKey string `json:"roomKey"`
	Name    string `json:"name"`
	Floor   int    `json:"floor"`
}

// HandleRoomFunc 返回一个处理房间请求的Gin处理函数
func HandleRoomFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewRoomController(ctx, container)

		switch method {
		case "getRooms":
			controller.GetRooms()
		case "addRoom":
			controller.AddRoom()
		case "updateRoom":
			controller.UpdateRoom()
		case "deleteRoom":
			controller.DeleteRoom()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// 1. GetRooms 获取指定楼栋在某信息亭下的房间列表
// @Summary      List rooms for a kiosk
// @Description  Get the room slice of a building as seen from one kiosk, with images
// @Tags         Room
// @Produce      json
// @Param        buildingId path int true "Building ID"
// @Param        kioskID path string true "Kiosk ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /room/{buildingId}/{kioskID} [get]
// @Security     BearerAuth
func (c *RoomController) GetRooms() {
	buildingID, ok := parseIDParam(c.Ctx, "buildingId")
	if !ok {
		return
	}
	kioskID := c.Ctx.Param("kioskID")

	roomService := c.Container.GetService("room").(services.InterfaceRoomService)
	rooms, err := roomService.GetRoomsByKiosk(buildingID, kioskID)
	if err != nil {
		if err.Error() == "楼栋不存在" {
			response.Fail(c.Ctx, code.ErrBuildingNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询房间列表失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, rooms)
}

// 2. AddRoom 新增房间（multipart），基础字段同步到所有信息亭
// @Summary      Add room
// @Description  Create a room; name/description/floor fan out to every kiosk with a shared room key, navigation only on the originating kiosk
// @Tags         Room
// @Accept       multipart/form-data
// @Produce      json
// @Param        buildingId path int true "Building ID"
// @Param        kioskID path string true "Originating kiosk ID"
// @Param        name formData string true "Room name"
// @Param        description formData string false "Description"
// @Param        floor formData int false "Floor number"
// @Param        navigationPath formData string false "JSON array of {x,y} waypoints"
// @Param        navigationGuide formData string false "JSON array of {icon,description} steps"
// @Param        images formData file false "Room images (JPEG/PNG, 16:9)"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /room/{buildingId}/{kioskID} [post]
// @Security     BearerAuth
func (c *RoomController) AddRoom() {
	buildingID, ok := parseIDParam(c.Ctx, "buildingId")
	if !ok {
		return
	}
	kioskID := c.Ctx.Param("kioskID")

	name := c.Ctx.PostForm("name")
	if name == "" {
		response.ParamError(c.Ctx, "name 为必填")
		return
	}
	floor, _ := strconv.Atoi(c.Ctx.DefaultPostForm("floor", "1"))

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

	input := &services.RoomCreateInput{
		Name:            name,
		Description:     c.Ctx.PostForm("description"),
		Floor:           floor,
		NavigationPath:  navPath,
		NavigationGuide: navGuide,
		Images:          images,
	}

	adminID, adminName := currentAdmin(c.Ctx)
	roomService := c.Container.GetService("room").(services.InterfaceRoomService)
	room, err := roomService.AddRoom(buildingID, kioskID, input, adminID, adminName)
	if err != nil {
		var files []string
		for _, img := range images {
			files = append(files, img.FilePath)
		}
		imageService.DeleteImages(files)

		switch err.Error() {
		case "楼栋不存在":
			response.Fail(c.Ctx, code.ErrBuildingNotFound, nil)
			return
		case "信息亭不存在":
			response.Fail(c.Ctx, code.ErrKioskNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "新增房间失败: "+err.Error(), nil)
		return
	}

	response.Created(c.Ctx, room)
}

// 3. UpdateRoom 更新房间（multipart），共享字段同步到所有副本
// @Summary      Update room
// @Description  Shared fields propagate to every kiosk copy of the room; navigation changes apply only to the edited kiosk
// @Tags         Room
// @Accept       multipart/form-data
// @Produce      json
// @Param        buildingId path int true "Building ID"
// @Param        kioskID path string true "Kiosk ID"
// @Param        roomId path int true "Room row ID within the kiosk slice"
// @Param        name formData string false "Room name"
// @Param        description formData string false "Description"
// @Param        floor formData int false "Floor number"
// @Param        navigationPath formData string false "JSON array of {x,y} waypoints"
// @Param        navigationGuide formData string false "JSON array of {icon,description} steps"
// @Param        retainedImageIds formData string false "JSON array of image IDs to keep"
// @Param        images formData file false "New room images"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /room/{buildingId}/{kioskID}/{roomId} [put]
// @Security     BearerAuth
func (c *RoomController) UpdateRoom() {
	buildingID, ok := parseIDParam(c.Ctx, "buildingId")
	if !ok {
		return
	}
	kioskID := c.Ctx.Param("kioskID")
	roomID, ok := parseIDParam(c.Ctx, "roomId")
	if !ok {
		return
	}

	input := &services.RoomUpdateInput{}

	if name, exists := c.Ctx.GetPostForm("name"); exists {
		input.Name = &name
	}
	if desc, exists := c.Ctx.GetPostForm("description"); exists {
		input.Description = &desc
	}
	if floorStr, exists := c.Ctx.GetPostForm("floor"); exists {
		floor, err := strconv.Atoi(floorStr)
		if err != nil {
			response.ParamError(c.Ctx, "floor 必须是整数")
			return
		}
		input.Floor = &floor
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
	roomService := c.Container.GetService("room").(services.InterfaceRoomService)
	room, err := roomService.UpdateRoom(buildingID, kioskID, roomID, input, adminID, adminName)
	if err != nil {
		var files []string
		for _, img := range newImages {
			files = append(files, img.FilePath)
		}
		imageService.DeleteImages(files)

		if err.Error() == "房间不存在" {
			response.Fail(c.Ctx, code.ErrRoomNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "更新房间失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, room)
}

// 4. DeleteRoom 删除房间的所有信息亭副本
// @Summary      Delete room
// @Description  Delete every kiosk copy of a room by its room key; without a key, rooms matching (name, floor) are removed
// @Tags         Room
// @Accept       json
// @Produce      json
// @Param        buildingId path int true "Building ID"
// @Param        request body DeleteRoomRequest true "Room key, or name+floor fallback"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /room/{buildingId} [delete]
// @Security     BearerAuth
func (c *RoomController) DeleteRoom() {
	buildingID, ok := parseIDParam(c.Ctx, "buildingId")
	if !ok {
		return
	}

	var req DeleteRoomRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}
	if req.RoomKey == "" && req.Name == "" {
		response.ParamError(c.Ctx, "roomKey 或 name 至少提供一个")
		return
	}

	adminID, adminName := currentAdmin(c.Ctx)
	roomService := c.Container.GetService("room").(services.InterfaceRoomService)
	if err := roomService.DeleteRoom(buildingID, req.RoomKey, req.Name, req.Floor, adminID, adminName); err != nil {
		switch err.Error() {
		case "楼栋不存在":
			response.Fail(c.Ctx, code.ErrBuildingNotFound, nil)
			return
		case "房间不存在":
			response.Fail(c.Ctx, code.ErrRoomNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "删除房间失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, nil)
}
