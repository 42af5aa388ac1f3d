package controllers

import (
	"errors"

	"marciaknow-http-service/internal/domain/models"
	"marciaknow-http-service/internal/domain/services"
	"marciaknow-http-service/internal/domain/services/container"
	"marciaknow-http-service/internal/error/code"
	"marciaknow-http-service/internal/error/response"
	"marciaknow-http-service/internal/storage"

	"github.com/gin-gonic/gin"
)

// InterfaceImageController 定义图片控制器接口
type InterfaceImageController interface {
	GetImage()
	GetIcons()
	UploadIcon()
}

// ImageController 图片控制器
type ImageController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewImageController 创建一个新的图片控制器
func NewImageController(ctx *gin.Context, container *container.ServiceContainer) *ImageController {
	return &ImageController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleImageFunc 返回一个处理图片请求的Gin处理函数
func HandleImageFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewImageController(ctx, container)

		switch method {
		case "getImage":
			controller.GetImage()
		case "getIcons":
			controller.GetIcons()
		case "uploadIcon":
			controller.UploadIcon()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// 1. GetImage 按文件名读取图片内容
// @Summary      Serve image
// @Description  Stream an image blob by its stored filename
// @Tags         Image
// @Produce      image/jpeg
// @Param        filename path string true "Stored filename"
// @Success      200  {file}  binary
// @Failure      404  {object}  ErrorResponse
// @Router       /image/{filename} [get]
func (c *ImageController) GetImage() {
	filename := c.Ctx.Param("filename")

	imageService := c.Container.GetService("image").(services.InterfaceImageService)
	data, contentType, err := imageService.GetImage(filename)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			response.Fail(c.Ctx, code.ErrImageNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrUnknown, "读取图片失败: "+err.Error(), nil)
		return
	}

	c.Ctx.Data(200, contentType, data)
}

// 2. GetIcons 获取导航图标列表
// @Summary      List navigation icons
// @Tags         Image
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /icon [get]
func (c *ImageController) GetIcons() {
	db := c.Container.GetDB()

	var icons []models.NavigationIcon
	if err := db.Order("name ASC").Find(&icons).Error; err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询图标列表失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, icons)
}

// 3. UploadIcon 上传导航图标，同名图标覆盖
// @Summary      Upload navigation icon
// @Description  Store an icon image under a unique name; uploading with an existing name replaces the icon
// @Tags         Image
// @Accept       multipart/form-data
// @Produce      json
// @Param        name formData string true "Icon name"
// @Param        icon formData file true "Icon image (JPEG/PNG)"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /icon [post]
func (c *ImageController) UploadIcon() {
	name := c.Ctx.PostForm("name")
	if name == "" {
		response.ParamError(c.Ctx, "name 为必填")
		return
	}

	file, err := c.Ctx.FormFile("icon")
	if err != nil {
		response.ParamError(c.Ctx, "icon 文件为必填")
		return
	}

	imageService := c.Container.GetService("image").(services.InterfaceImageService)
	filename, err := imageService.ProcessIcon(file)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrImageFormat, err.Error(), nil)
		return
	}

	db := c.Container.GetDB()

	// 同名覆盖：替换文件路径并清理旧文件
	var existing models.NavigationIcon
	if err := db.Where("name = ?", name).First(&existing).Error; err == nil {
		oldFile := existing.FilePath
		existing.FilePath = filename
		if err := db.Save(&existing).Error; err != nil {
			imageService.DeleteImages([]string{filename})
			response.FailWithMessage(c.Ctx, code.ErrDatabase, "更新图标失败: "+err.Error(), nil)
			return
		}
		imageService.DeleteImages([]string{oldFile})
		response.Success(c.Ctx, existing)
		return
	}

	icon := models.NavigationIcon{Name: name, FilePath: filename}
	if err := db.Create(&icon).Error; err != nil {
		imageService.DeleteImages([]string{filename})
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "保存图标失败: "+err.Error(), nil)
		return
	}

	response.Created(c.Ctx, icon)
}
