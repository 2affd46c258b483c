//go:build !windows

package estlcam

import "image"

func (c *PreviewCapturer) capture() (image.Image, error) {
	return nil, ErrPreviewUnavailable
}
