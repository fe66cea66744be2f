package preview

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
)

const (
	thumbnailWidth   = 400
	thumbnailQuality = 80
)

// Thumbnailer turns a cover PNG into smaller image bytes and reports their
// MIME type.
type Thumbnailer func(coverPNG []byte) ([]byte, string, error)

// WebPThumbnail scales a cover to the viewer card width and encodes it as
// lossy WebP.
func WebPThumbnail(coverPNG []byte) ([]byte, string, error) {
	img, err := imaging.Decode(bytes.NewReader(coverPNG))
	if err != nil {
		return nil, "", fmt.Errorf("preview: decode cover: %w", err)
	}
	scaled := imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)

	options, err := encoder.NewLossyEncoderOptions(encoder.PresetPhoto, thumbnailQuality)
	if err != nil {
		return nil, "", fmt.Errorf("preview: webp options: %w", err)
	}
	var buf bytes.Buffer
	if err := webp.Encode(&buf, scaled, options); err != nil {
		return nil, "", fmt.Errorf("preview: encode webp: %w", err)
	}
	return buf.Bytes(), "image/webp", nil
}
