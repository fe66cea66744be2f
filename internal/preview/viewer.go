// Package preview builds a self-contained HTML page of the generated notes.
package preview

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"strings"

	"covergen/internal/domain"
	"covergen/internal/infra"
	"covergen/internal/storage"
)

// Card is one rendered note in the viewer.
type Card struct {
	ProductID string
	Title     string
	Content   string
	Tags      string
	ImageSrc  template.URL
}

var viewerTemplate = template.Must(template.New("viewer").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>AI 作品最终预览</title>
<style>
body { font-family: sans-serif; background: #f0f2f5; padding: 20px; }
.card { background: white; border-radius: 12px; display: flex; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.1); max-width: 900px; margin: 20px auto; }
.cover { width: 400px; flex-shrink: 0; background: #ddd; }
.cover img { width: 100%; display: block; }
.content { padding: 30px; flex-grow: 1; }
h2 { color: #333; margin-top: 0; }
p { white-space: pre-wrap; color: #666; line-height: 1.6; }
.tags { color: #ff2442; font-weight: bold; }
</style>
</head>
<body>
<h1 style="text-align:center;">智能体生成结果预览</h1>
{{range .}}<div class="card" id="{{.ProductID}}">
<div class="cover">{{if .ImageSrc}}<img src="{{.ImageSrc}}" alt="{{.Title}}">{{else}}<span>图片未找到</span>{{end}}</div>
<div class="content">
<h2>{{.Title}}</h2>
<p>{{.Content}}</p>
<div class="tags">{{.Tags}}</div>
</div>
</div>
{{end}}</body>
</html>
`))

// Builder assembles the viewer from results.json and the rendered covers.
type Builder struct {
	store     *storage.FileStore
	thumbnail Thumbnailer
	logger    *infra.Logger
}

// NewBuilder uses WebPThumbnail when thumb is nil.
func NewBuilder(store *storage.FileStore, thumb Thumbnailer, logger *infra.Logger) *Builder {
	if thumb == nil {
		thumb = WebPThumbnail
	}
	if logger == nil {
		logger = infra.DiscardLogger()
	}
	return &Builder{store: store, thumbnail: thumb, logger: logger}
}

// Cards converts result records into viewer cards. Covers are embedded as
// data URIs; a thumbnail failure embeds the original PNG instead.
func (b *Builder) Cards(records []domain.ResultRecord) []Card {
	cards := make([]Card, 0, len(records))
	for _, rec := range records {
		card := Card{
			ProductID: rec.ProductID,
			Title:     orDefault(rec.Title, "【未生成标题】"),
			Content:   orDefault(rec.Content, "【未生成正文内容】"),
			Tags:      hashTags(rec.Tags),
		}
		cover, err := b.store.Read(storage.CoversDir + "/" + coverName(rec))
		if err != nil {
			b.logger.Warn().Err(err).Str("product_id", rec.ProductID).Msg("preview: cover not found")
			cards = append(cards, card)
			continue
		}
		card.ImageSrc = b.embed(rec.ProductID, cover)
		cards = append(cards, card)
	}
	return cards
}

// Render writes the viewer HTML for records.
func (b *Builder) Render(records []domain.ResultRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := viewerTemplate.Execute(&buf, b.Cards(records)); err != nil {
		return nil, fmt.Errorf("preview: render viewer: %w", err)
	}
	return buf.Bytes(), nil
}

// Build reads results.json from the store and writes portable_viewer.html.
func (b *Builder) Build(ctx context.Context) (string, error) {
	records, err := b.store.ReadResults()
	if err != nil {
		return "", err
	}
	page, err := b.Render(records)
	if err != nil {
		return "", err
	}
	key, err := b.store.Write(ctx, storage.ViewerFile, page)
	if err != nil {
		return "", err
	}
	b.logger.Info().Int("cards", len(records)).Str("file", key).Msg("preview: viewer written")
	return key, nil
}

func (b *Builder) embed(productID string, cover []byte) template.URL {
	data, mime, err := b.thumbnail(cover)
	if err != nil {
		b.logger.Debug().Err(err).Str("product_id", productID).Msg("preview: thumbnail failed, embedding png")
		data, mime = cover, "image/png"
	}
	return template.URL("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data))
}

func coverName(rec domain.ResultRecord) string {
	if name := strings.TrimSpace(rec.Cover); name != "" {
		return name
	}
	return domain.CoverFilename(rec.ProductID)
}

func hashTags(tags []string) string {
	parts := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			parts = append(parts, "#"+t)
		}
	}
	return strings.Join(parts, " ")
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
