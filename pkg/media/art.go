package media

import (
	"bytes"
	"image"
	"strings"

	"github.com/chai2010/webp"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// Decode reads WebP, JPEG, PNG, GIF, TIFF and BMP data.
func Decode(data []byte) (image.Image, error) {
	if isWebP(data) {
		return webp.Decode(bytes.NewReader(data))
	}
	return imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
}

func isWebP(data []byte) bool {
	return len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP"
}

const halfBlock = "▀"

// Render draws img with upper half blocks, two pixel rows per line, scaled
// to fit within cols by rows cells with its aspect ratio kept.
func Render(img image.Image, cols, rows int) string {
	if img == nil || cols <= 0 || rows <= 0 {
		return ""
	}
	fitted := imaging.Fit(img, cols, rows*2, imaging.Lanczos)
	b := fitted.Bounds()

	var lines []string
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		var sb strings.Builder
		for x := b.Min.X; x < b.Max.X; x++ {
			top := pixel(fitted, x, y)
			bottom := top
			if y+1 < b.Max.Y {
				bottom = pixel(fitted, x, y+1)
			}
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(top.Hex())).
				Background(lipgloss.Color(bottom.Hex()))
			sb.WriteString(style.Render(halfBlock))
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}

func pixel(img image.Image, x, y int) colorful.Color {
	c, ok := colorful.MakeColor(img.At(x, y))
	if !ok {
		return colorful.Color{}
	}
	return c
}
