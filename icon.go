package main

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"sync"
)

var (
	appIconOnce sync.Once
	appIconData []byte
)

// appIconPNG returns a 32x32 PNG used for the tray: a filled circle on a
// transparent background.
func appIconPNG() []byte {
	appIconOnce.Do(func() {
		const size = 32
		img := image.NewNRGBA(image.Rect(0, 0, size, size))
		fill := color.NRGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}
		c := float64(size-1) / 2
		r2 := (c - 1) * (c - 1)
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				dx, dy := float64(x)-c, float64(y)-c
				if dx*dx+dy*dy <= r2 {
					img.SetNRGBA(x, y, fill)
				}
			}
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			Log.Error("生成图标失败", "error", err)
			return
		}
		appIconData = buf.Bytes()
	})
	return appIconData
}

// pngToICO wraps a PNG in a single-image ICO container (Vista+ accepts PNG
// payloads).
func pngToICO(pngData []byte, size int) []byte {
	var buf bytes.Buffer
	dim := byte(size)
	if size >= 256 {
		dim = 0
	}
	// ICONDIR
	binary.Write(&buf, binary.LittleEndian, [3]uint16{0, 1, 1})
	// ICONDIRENTRY
	buf.Write([]byte{dim, dim, 0, 0})
	binary.Write(&buf, binary.LittleEndian, uint16(1))  // planes
	binary.Write(&buf, binary.LittleEndian, uint16(32)) // bpp
	binary.Write(&buf, binary.LittleEndian, uint32(len(pngData)))
	binary.Write(&buf, binary.LittleEndian, uint32(6+16))
	buf.Write(pngData)
	return buf.Bytes()
}

// decodeIconSize returns the pixel size of a PNG icon, or 0.
func decodeIconSize(pngData []byte) int {
	cfg, err := png.DecodeConfig(bytes.NewReader(pngData))
	if err != nil {
		return 0
	}
	return cfg.Width
}
