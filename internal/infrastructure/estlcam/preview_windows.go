//go:build windows

package estlcam

import (
	"fmt"
	"image"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	pwRenderFullContent = 0x2
	dibRGBColors        = 0
	biRGB               = 0
)

type bitmapInfoHeader struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

type bitmapInfo struct {
	Header bitmapInfoHeader
	Colors [1]uint32
}

// capture 用 PrintWindow 截取前台的宿主窗口
func (c *PreviewCapturer) capture() (image.Image, error) {
	hwnd, pid := foregroundWindow()
	if hwnd == 0 {
		return nil, ErrPreviewUnavailable
	}
	exe, err := processImagePath(pid)
	if err != nil || !c.matcher.IsHostProcess(exe) {
		return nil, ErrPreviewUnavailable
	}

	var rect windows.Rect
	if r, _, _ := procGetWindowRect.Call(hwnd, uintptr(unsafe.Pointer(&rect))); r == 0 {
		return nil, fmt.Errorf("GetWindowRect failed")
	}
	width := int(rect.Right - rect.Left)
	height := int(rect.Bottom - rect.Top)
	if width <= 0 || height <= 0 {
		return nil, ErrPreviewUnavailable
	}

	screenDC, _, _ := procGetDC.Call(0)
	if screenDC == 0 {
		return nil, fmt.Errorf("GetDC failed")
	}
	defer procReleaseDC.Call(0, screenDC)

	memDC, _, _ := procCreateCompatibleDC.Call(screenDC)
	if memDC == 0 {
		return nil, fmt.Errorf("CreateCompatibleDC failed")
	}
	defer procDeleteDC.Call(memDC)

	bitmap, _, _ := procCreateCompatibleBitmap.Call(screenDC, uintptr(width), uintptr(height))
	if bitmap == 0 {
		return nil, fmt.Errorf("CreateCompatibleBitmap failed")
	}
	defer procDeleteObject.Call(bitmap)

	old, _, _ := procSelectObject.Call(memDC, bitmap)
	defer procSelectObject.Call(memDC, old)

	if r, _, _ := procPrintWindow.Call(hwnd, memDC, pwRenderFullContent); r == 0 {
		return nil, fmt.Errorf("PrintWindow failed")
	}

	info := bitmapInfo{Header: bitmapInfoHeader{
		Width:       int32(width),
		Height:      -int32(height), // 负数表示自上而下
		Planes:      1,
		BitCount:    32,
		Compression: biRGB,
	}}
	info.Header.Size = uint32(unsafe.Sizeof(info.Header))

	pixels := make([]byte, width*height*4)
	r, _, _ := procGetDIBits.Call(
		memDC,
		bitmap,
		0,
		uintptr(height),
		uintptr(unsafe.Pointer(&pixels[0])),
		uintptr(unsafe.Pointer(&info)),
		dibRGBColors,
	)
	if r == 0 {
		return nil, fmt.Errorf("GetDIBits failed")
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(pixels); i += 4 {
		// BGRA -> RGBA
		img.Pix[i] = pixels[i+2]
		img.Pix[i+1] = pixels[i+1]
		img.Pix[i+2] = pixels[i]
		img.Pix[i+3] = 0xff
	}
	return img, nil
}
