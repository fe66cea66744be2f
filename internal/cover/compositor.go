package cover

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	// Registers bmp, tiff and webp with image.Decode, which imaging.Decode uses.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"covergen/internal/domain"
	"covergen/internal/style"
)

// Compositor renders covers. Font faces keep glyph caches, so a Compositor
// must not be shared across goroutines.
type Compositor struct {
	fonts *Fonts
	fade  *image.NRGBA
}

// NewCompositor prepares a compositor with the given faces.
func NewCompositor(fonts *Fonts) (*Compositor, error) {
	if fonts == nil || fonts.Title == nil || fonts.Subtitle == nil || fonts.Price == nil {
		return nil, fmt.Errorf("%w: font faces", domain.ErrMissingResource)
	}
	return &Compositor{fonts: fonts, fade: fadeOverlay()}, nil
}

// Render composes the cover for item over the photo in imageBytes and returns
// it as an opaque RGB PNG.
func (c *Compositor) Render(item domain.CoverItem, imageBytes []byte, cfg style.Config) ([]byte, error) {
	if len(imageBytes) == 0 {
		return nil, fmt.Errorf("%w: empty image", domain.ErrDecode)
	}
	photo, err := imaging.Decode(bytes.NewReader(imageBytes), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDecode, err)
	}

	tile := imaging.Resize(photo, TileSize, TileSize, imaging.Lanczos)
	canvas := imaging.New(CanvasWidth, CanvasHeight, Background)
	canvas = imaging.Overlay(canvas, tile, image.Pt(0, TileTop), 1.0)
	canvas = imaging.Overlay(canvas, c.fade, image.Pt(0, TileTop), 1.0)

	dc := gg.NewContextForImage(canvas)
	title := item.CoverTitle
	if title == "" {
		title = domain.DefaultCoverTitle
	}
	subtitle := CleanSubtitle(item.Subtitle, domain.DefaultSubtitle)
	price := item.Price
	if price == "" {
		price = domain.DefaultPrice
	}
	c.drawCentered(dc, c.fonts.Title, title, TitleTop, TitleInk)
	c.drawCentered(dc, c.fonts.Subtitle, subtitle, SubtitleTop, inkOr(cfg.SubColor, TitleInk))
	c.drawCentered(dc, c.fonts.Price, "¥"+price, PriceTop, PriceInk)

	flat := flatten(dc.Image())
	var buf bytes.Buffer
	if err := png.Encode(&buf, flat); err != nil {
		return nil, fmt.Errorf("%w: encode png: %w", domain.ErrRender, err)
	}
	return buf.Bytes(), nil
}

func (c *Compositor) drawCentered(dc *gg.Context, face font.Face, text string, top int, ink color.Color) {
	if text == "" {
		return
	}
	bounds, _ := font.BoundString(face, text)
	width := (bounds.Max.X - bounds.Min.X).Ceil()
	x := float64(CanvasWidth-width) / 2
	baseline := float64(top + face.Metrics().Ascent.Ceil())
	dc.SetFontFace(face)
	dc.SetColor(ink)
	dc.DrawString(text, x-float64(bounds.Min.X.Floor()), baseline)
}

func fadeOverlay() *image.NRGBA {
	fade := image.NewNRGBA(image.Rect(0, 0, CanvasWidth, FadeHeight))
	for y := 0; y < FadeHeight; y++ {
		px := color.NRGBA{R: Background.R, G: Background.G, B: Background.B, A: FadeAlpha(y)}
		for x := 0; x < CanvasWidth; x++ {
			fade.SetNRGBA(x, y, px)
		}
	}
	return fade
}

// flatten drops the alpha channel by compositing onto the background. The
// PNG encoder writes colour type 2 for a fully opaque *image.RGBA.
func flatten(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	bg := imaging.New(b.Dx(), b.Dy(), Background)
	merged := imaging.Overlay(bg, src, image.Pt(0, 0), 1.0)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := merged.NRGBAAt(x, y)
			dst.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
		}
	}
	return dst
}

func inkOr(c color.RGBA, fallback color.RGBA) color.RGBA {
	if c == (color.RGBA{}) {
		return fallback
	}
	return c
}

// IsRenderFailure reports whether err came from decoding or drawing a cover.
func IsRenderFailure(err error) bool {
	return errors.Is(err, domain.ErrDecode) || errors.Is(err, domain.ErrRender)
}
