package services

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeUpload 构造指定尺寸的图片上传文件
func makeUpload(t *testing.T, filename, format string, width, height int) *multipart.FileHeader {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x += 50 {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}

	var encoded bytes.Buffer
	switch format {
	case "png":
		require.NoError(t, png.Encode(&encoded, img))
	default:
		require.NoError(t, jpeg.Encode(&encoded, img, &jpeg.Options{Quality: 85}))
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(encoded.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&body, writer.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["file"][0]
}

func TestProcessImagesAcceptsValidUpload(t *testing.T) {
	svc, store := newTestImageService(t)

	images, err := svc.ProcessImages([]*multipart.FileHeader{
		makeUpload(t, "hall.jpg", "jpeg", 1920, 1080),
	})
	require.NoError(t, err)
	require.Len(t, images, 1)

	meta := images[0]
	assert.True(t, strings.HasSuffix(meta.FilePath, ".jpg"))
	assert.Equal(t, 1920, meta.Width)
	assert.Equal(t, 1080, meta.Height)
	assert.InDelta(t, 16.0/9.0, meta.AspectRatio, 0.001)
	assert.True(t, store.Exists(meta.FilePath))
}

func TestProcessImagesRejectsUndersized(t *testing.T) {
	svc, _ := newTestImageService(t)

	_, err := svc.ProcessImages([]*multipart.FileHeader{
		makeUpload(t, "small.jpg", "jpeg", 800, 450),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "超出允许范围")
}

func TestProcessImagesRejectsBadAspectRatio(t *testing.T) {
	svc, _ := newTestImageService(t)

	_, err := svc.ProcessImages([]*multipart.FileHeader{
		makeUpload(t, "square.jpg", "jpeg", 2000, 2000),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "16:9")
}

func TestProcessImagesValidatesWholeBatch(t *testing.T) {
	svc, _ := newTestImageService(t)

	// 批次中任意一张不合格则整批失败
	_, err := svc.ProcessImages([]*multipart.FileHeader{
		makeUpload(t, "good.jpg", "jpeg", 1920, 1080),
		makeUpload(t, "bad.jpg", "jpeg", 640, 360),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.jpg")
}

func TestProcessProfileImageOutputsSquareJPEG(t *testing.T) {
	svc, store := newTestImageService(t)

	name, err := svc.ProcessProfileImage(makeUpload(t, "avatar.png", "png", 600, 400))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "profile_"))
	assert.True(t, strings.HasSuffix(name, ".jpg"))

	data, readErr := store.Read(name)
	require.NoError(t, readErr)

	decoded, format, decodeErr := image.Decode(bytes.NewReader(data))
	require.NoError(t, decodeErr)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, ProfileOutputSide, decoded.Bounds().Dx())
	assert.Equal(t, ProfileOutputSide, decoded.Bounds().Dy())
}

func TestProcessProfileImageRejectsTinyImage(t *testing.T) {
	svc, _ := newTestImageService(t)

	_, err := svc.ProcessProfileImage(makeUpload(t, "tiny.jpg", "jpeg", 50, 50))
	assert.Error(t, err)
}

func TestProcessIconKeepsFormat(t *testing.T) {
	svc, _ := newTestImageService(t)

	name, err := svc.ProcessIcon(makeUpload(t, "arrow.png", "png", 64, 64))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "icon_"))
	assert.True(t, strings.HasSuffix(name, ".png"))

	data, contentType, err := svc.GetImage(name)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, "image/png", contentType)
}

func TestGetImageMissing(t *testing.T) {
	svc, _ := newTestImageService(t)

	_, _, err := svc.GetImage("does-not-exist.jpg")
	assert.Error(t, err)
}
