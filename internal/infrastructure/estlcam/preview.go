package estlcam

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// ErrPreviewUnavailable 当前无法截取宿主窗口
var ErrPreviewUnavailable = errors.New("host window preview unavailable")

// PreviewCapturer 截取宿主窗口保存为 PNG
type PreviewCapturer struct {
	matcher ProcessMatcher
}

// NewPreviewCapturer 创建截图器
func NewPreviewCapturer(matcher ProcessMatcher) *PreviewCapturer {
	return &PreviewCapturer{matcher: matcher}
}

// CapturePNG 截取宿主窗口写入 dest
func (c *PreviewCapturer) CapturePNG(dest string) error {
	img, err := c.capture()
	if err != nil {
		return err
	}
	return writePNG(dest, img)
}

// writePNG 先写临时文件再改名，避免留下半截图片
func writePNG(dest string, img image.Image) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".preview-*.png")
	if err != nil {
		return fmt.Errorf("failed to create preview file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode preview: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("failed to move preview into place: %w", err)
	}
	return nil
}
