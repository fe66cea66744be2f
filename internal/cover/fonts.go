package cover

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"covergen/internal/domain"
)

// Fonts holds the three faces a cover is drawn with, all cut from one file.
type Fonts struct {
	Title    font.Face
	Subtitle font.Face
	Price    font.Face
}

// LoadFonts reads a TrueType/OpenType file. A missing file is reported as
// domain.ErrMissingResource.
func LoadFonts(path string) (*Fonts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: font %s", domain.ErrMissingResource, path)
		}
		return nil, fmt.Errorf("cover: read font: %w", err)
	}
	return ParseFonts(data)
}

// ParseFonts builds the cover faces from raw font bytes.
func ParseFonts(data []byte) (*Fonts, error) {
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parse font: %w", domain.ErrMissingResource, err)
	}
	title, err := newFace(parsed, TitleSize)
	if err != nil {
		return nil, err
	}
	subtitle, err := newFace(parsed, SubtitleSize)
	if err != nil {
		return nil, err
	}
	price, err := newFace(parsed, PriceSize)
	if err != nil {
		return nil, err
	}
	return &Fonts{Title: title, Subtitle: subtitle, Price: price}, nil
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("cover: font face %.0f: %w", size, err)
	}
	return face, nil
}
