package services

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG解码器注册
	"io"
	"math"
	"mime/multipart"
	"path/filepath"
	"strings"

	"marciaknow-http-service/internal/domain/models"
	"marciaknow-http-service/internal/infrastructure/config"
	"marciaknow-http-service/internal/storage"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

// 楼栋与房间图片的尺寸约束
const (
	ImageMinWidth  = 1920
	ImageMinHeight = 1080
	ImageMaxWidth  = 3840
	ImageMaxHeight = 2160

	// 16:9 比例允许的偏差
	AspectRatioTarget    = 16.0 / 9.0
	AspectRatioTolerance = 0.02

	// 头像尺寸约束与输出规格
	ProfileMinSide     = 100
	ProfileMaxSide     = 2048
	ProfileOutputSide  = 500
	ProfileJPEGQuality = 90
)

// InterfaceImageService defines the image service interface
type InterfaceImageService interface {
	ProcessImages(files []*multipart.FileHeader) ([]models.Image, error)
	ProcessProfileImage(file *multipart.FileHeader) (string, error)
	ProcessIcon(file *multipart.FileHeader) (string, error)
	GetImage(filename string) ([]byte, string, error)
	DeleteImages(filenames []string)
}

// ImageService 处理图片校验、转换与存储
type ImageService struct {
	Config *config.Config
	Store  *storage.BlobStore
}

// NewImageService 创建一个新的图片服务
func NewImageService(cfg *config.Config, store *storage.BlobStore) InterfaceImageService {
	return &ImageService{
		Config: cfg,
		Store:  store,
	}
}

// readUpload 读取上传文件内容并解码图片
func readUpload(file *multipart.FileHeader) ([]byte, image.Image, string, error) {
	f, err := file.Open()
	if err != nil {
		return nil, nil, "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, nil, "", err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, "", errors.New("无法解码图片")
	}
	if format != "jpeg" && format != "png" {
		return nil, nil, "", errors.New("仅支持JPEG和PNG格式图片")
	}
	return data, img, format, nil
}

// extensionFor 根据解码格式返回文件扩展名
func extensionFor(format string) string {
	if format == "png" {
		return ".png"
	}
	return ".jpg"
}

// 1 ProcessImages 校验并存储楼栋/房间图片，返回元数据（不落库）
func (s *ImageService) ProcessImages(files []*multipart.FileHeader) ([]models.Image, error) {
	type pending struct {
		name string
		data []byte
		meta models.Image
	}

	var staged []pending
	for _, file := range files {
		data, img, format, err := readUpload(file)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file.Filename, err)
		}

		bounds := img.Bounds()
		width, height := bounds.Dx(), bounds.Dy()

		// 尺寸范围校验
		if width < ImageMinWidth || height < ImageMinHeight || width > ImageMaxWidth || height > ImageMaxHeight {
			return nil, fmt.Errorf("%s: 图片尺寸 %dx%d 超出允许范围 %dx%d - %dx%d",
				file.Filename, width, height, ImageMinWidth, ImageMinHeight, ImageMaxWidth, ImageMaxHeight)
		}

		// 宽高比校验
		ratio := float64(width) / float64(height)
		if math.Abs(ratio-AspectRatioTarget)/AspectRatioTarget > AspectRatioTolerance {
			return nil, fmt.Errorf("%s: 图片宽高比 %.3f 不符合16:9要求", file.Filename, ratio)
		}

		name := uuid.New().String() + extensionFor(format)
		staged = append(staged, pending{
			name: name,
			data: data,
			meta: models.Image{
				FilePath:    name,
				Width:       width,
				Height:      height,
				AspectRatio: ratio,
				Size:        int64(len(data)),
			},
		})
	}

	// 全部校验通过后再写入存储
	var saved []string
	var result []models.Image
	for _, p := range staged {
		if err := s.Store.Save(p.name, p.data); err != nil {
			// 写入失败时回收已写入的文件
			s.Store.DeleteAll(saved)
			return nil, fmt.Errorf("存储图片失败: %w", err)
		}
		saved = append(saved, p.name)
		result = append(result, p.meta)
	}

	return result, nil
}

// 2 ProcessProfileImage 校验头像并裁剪为 500x500 JPEG
func (s *ImageService) ProcessProfileImage(file *multipart.FileHeader) (string, error) {
	_, img, _, err := readUpload(file)
	if err != nil {
		return "", err
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width < ProfileMinSide || height < ProfileMinSide || width > ProfileMaxSide || height > ProfileMaxSide {
		return "", fmt.Errorf("头像尺寸 %dx%d 超出允许范围 %d-%d", width, height, ProfileMinSide, ProfileMaxSide)
	}

	// 居中裁剪为正方形
	side := width
	if height < side {
		side = height
	}
	x0 := bounds.Min.X + (width-side)/2
	y0 := bounds.Min.Y + (height-side)/2
	cropRect := image.Rect(x0, y0, x0+side, y0+side)

	type subImager interface {
		SubImage(r image.Rectangle) image.Image
	}
	cropped := img
	if si, ok := img.(subImager); ok {
		cropped = si.SubImage(cropRect)
	}

	// 缩放到目标尺寸并编码为JPEG
	scaled := resize.Resize(ProfileOutputSide, ProfileOutputSide, cropped, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: ProfileJPEGQuality}); err != nil {
		return "", fmt.Errorf("编码头像失败: %w", err)
	}

	name := "profile_" + uuid.New().String() + ".jpg"
	if err := s.Store.Save(name, buf.Bytes()); err != nil {
		return "", fmt.Errorf("存储头像失败: %w", err)
	}

	return name, nil
}

// 3 ProcessIcon 存储导航图标，不做尺寸约束
func (s *ImageService) ProcessIcon(file *multipart.FileHeader) (string, error) {
	data, _, format, err := readUpload(file)
	if err != nil {
		return "", err
	}

	name := "icon_" + uuid.New().String() + extensionFor(format)
	if err := s.Store.Save(name, data); err != nil {
		return "", fmt.Errorf("存储图标失败: %w", err)
	}
	return name, nil
}

// 4 GetImage 读取图片内容并推断Content-Type
func (s *ImageService) GetImage(filename string) ([]byte, string, error) {
	data, err := s.Store.Read(filename)
	if err != nil {
		return nil, "", err
	}

	contentType := "image/jpeg"
	if strings.EqualFold(filepath.Ext(filename), ".png") {
		contentType = "image/png"
	}
	return data, contentType, nil
}

// 5 DeleteImages 批量删除图片文件，尽力而为
func (s *ImageService) DeleteImages(filenames []string) {
	s.Store.DeleteAll(filenames)
}
