// Package style maps a copy tone onto the colors and image hints used for a
// cover. Tables are immutable after construction and are passed explicitly to
// whoever needs them.
package style

import (
	"image/color"
	"strings"
)

// DefaultTone is the entry used when a tone is not in the table.
const DefaultTone = "温馨治愈"

// Config is the visual configuration of one tone.
type Config struct {
	TagColor  color.RGBA
	SubColor  color.RGBA
	ImageHint string
}

// Table is a read-only tone lookup with a guaranteed default entry.
type Table struct {
	entries    map[string]Config
	defaultKey string
}

// NewTable copies entries into a new table. defaultTone must be present in
// entries; when it is not, the zero Config is registered under it so that
// Resolve still never fails.
func NewTable(entries map[string]Config, defaultTone string) *Table {
	copied := make(map[string]Config, len(entries)+1)
	for tone, cfg := range entries {
		copied[strings.TrimSpace(tone)] = cfg
	}
	defaultTone = strings.TrimSpace(defaultTone)
	if _, ok := copied[defaultTone]; !ok {
		copied[defaultTone] = Config{}
	}
	return &Table{entries: copied, defaultKey: defaultTone}
}

// DefaultTable returns the built-in Morandi palette.
func DefaultTable() *Table {
	return NewTable(map[string]Config{
		"温馨治愈": {
			TagColor:  rgb(139, 69, 19),
			SubColor:  rgb(197, 160, 89),
			ImageHint: "柔和奶油色调，温馨家居背景",
		},
		"专业测评": {
			TagColor:  rgb(15, 23, 42),
			SubColor:  rgb(70, 130, 180),
			ImageHint: "影棚灯光，极简科技背景，锐利细节",
		},
		"简约高级": {
			TagColor:  rgb(33, 33, 33),
			SubColor:  rgb(160, 160, 160),
			ImageHint: "极简主义，禅意留白，高级质感",
		},
		"活泼俏皮": {
			TagColor:  rgb(255, 140, 0),
			SubColor:  rgb(0, 128, 128),
			ImageHint: "鲜艳色彩，高饱和度，活力十足",
		},
		"种草安利": {
			TagColor:  rgb(178, 34, 34),
			SubColor:  rgb(255, 36, 66),
			ImageHint: "高对比度，商业静物摄影，诱人质感",
		},
	}, DefaultTone)
}

// Resolve returns the configuration for tone, or the default entry.
func (t *Table) Resolve(tone string) Config {
	if cfg, ok := t.entries[strings.TrimSpace(tone)]; ok {
		return cfg
	}
	return t.entries[t.defaultKey]
}

// Has reports whether tone has its own entry.
func (t *Table) Has(tone string) bool {
	_, ok := t.entries[strings.TrimSpace(tone)]
	return ok
}

// DefaultTone returns the key of the fallback entry.
func (t *Table) DefaultTone() string {
	return t.defaultKey
}

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
