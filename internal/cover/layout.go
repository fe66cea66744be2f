// Package cover composites product photos into 1080x1440 social media covers.
package cover

import "image/color"

// Canvas geometry in pixels.
const (
	CanvasWidth  = 1080
	CanvasHeight = 1440
	TileSize     = 1080
	TileTop      = 360
	FadeHeight   = 250
)

// Text positions. Y is the top of the line, not the baseline.
const (
	TitleSize    = 90
	TitleTop     = 130
	SubtitleSize = 42
	SubtitleTop  = 260
	PriceSize    = 120
	PriceTop     = 1260
)

var (
	Background = color.RGBA{R: 252, G: 251, B: 248, A: 255}
	TitleInk   = color.RGBA{R: 26, G: 35, B: 126, A: 255}
	PriceInk   = color.RGBA{R: 50, G: 50, B: 50, A: 255}
)

// FadeAlpha is the overlay opacity for row y of the fade band, 255 at the
// top edge of the photo falling to 0 at FadeHeight.
func FadeAlpha(y int) uint8 {
	if y <= 0 {
		return 255
	}
	if y >= FadeHeight {
		return 0
	}
	return uint8(int(255 * (1 - float64(y)/FadeHeight)))
}
