// Package pipeline drives the two phases of a batch run: generating copy and
// product photos for every catalog entry, then rendering a cover per record.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"covergen/internal/cover"
	"covergen/internal/domain"
	"covergen/internal/infra"
	"covergen/internal/providers/copywriter"
	"covergen/internal/providers/image"
	"covergen/internal/storage"
	"covergen/internal/style"
)

type imageGenerator interface {
	Generate(ctx context.Context, req image.GenerateRequest) image.Asset
}

type assetFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type coverRenderer interface {
	Render(item domain.CoverItem, imageBytes []byte, cfg style.Config) ([]byte, error)
}

// Options wires a Pipeline. Renderer is optional; when nil, Render loads the
// font at FontPath and builds a cover.Compositor.
type Options struct {
	Writer    copywriter.Writer
	Images    imageGenerator
	Fetcher   assetFetcher
	Styles    *style.Table
	Store     *storage.FileStore
	Renderer  coverRenderer
	FontPath  string
	ImageSize string
	Logger    *infra.Logger
}

// Pipeline runs products through generation and rendering, one at a time.
type Pipeline struct {
	writer    copywriter.Writer
	images    imageGenerator
	fetcher   assetFetcher
	styles    *style.Table
	store     *storage.FileStore
	renderer  coverRenderer
	fontPath  string
	imageSize string
	logger    *infra.Logger
}

// Outcome is the render result of one record. Err is nil when File was
// written.
type Outcome struct {
	ProductID string
	File      string
	Err       error
}

// Summary aggregates the outcomes of a render phase.
type Summary struct {
	Rendered int
	Skipped  int
	Outcomes []Outcome
}

// New validates opts and fills in the static writer, a keyless image
// generator and the default style table when they are unset.
func New(opts Options) (*Pipeline, error) {
	if opts.Store == nil {
		return nil, errors.New("pipeline: store is required")
	}
	if opts.Fetcher == nil {
		return nil, errors.New("pipeline: asset fetcher is required")
	}
	writer := opts.Writer
	if writer == nil {
		writer = copywriter.NewStaticWriter()
	}
	images := opts.Images
	if images == nil {
		images = image.NewGenerator(image.Options{})
	}
	styles := opts.Styles
	if styles == nil {
		styles = style.DefaultTable()
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.DiscardLogger()
	}
	return &Pipeline{
		writer:    writer,
		images:    images,
		fetcher:   opts.Fetcher,
		styles:    styles,
		store:     opts.Store,
		renderer:  opts.Renderer,
		fontPath:  opts.FontPath,
		imageSize: opts.ImageSize,
		logger:    logger,
	}, nil
}

// Generate produces one result record per product. Copy and image failures
// degrade to fallbacks, so the only error is context cancellation.
func (p *Pipeline) Generate(ctx context.Context, products []domain.Product) ([]domain.ResultRecord, error) {
	runID := uuid.NewString()
	logger := p.logger.With().Str("run_id", runID).Logger()
	logger.Info().Int("products", len(products)).Msg("pipeline: generation started")

	records := make([]domain.ResultRecord, 0, len(products))
	for _, product := range products {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		started := time.Now()
		copyText, err := p.writer.Write(ctx, product)
		if err != nil || copyText == nil {
			logger.Warn().Err(err).Str("product_id", product.ProductID).Msg("pipeline: copy unavailable, using static copy")
			copyText, _ = copywriter.NewStaticWriter().Write(ctx, product)
		}
		asset := p.images.Generate(ctx, image.GenerateRequest{
			ProductID:    product.ProductID,
			ProductName:  product.Name,
			SellingPoint: product.SellingPoint,
			Tone:         product.Tone,
			Size:         p.imageSize,
		})
		records = append(records, buildRecord(product, copyText, asset))
		logger.Info().
			Str("product_id", product.ProductID).
			Str("copy_provider", copyText.Provider).
			Bool("placeholder_image", asset.Placeholder).
			Dur("elapsed", time.Since(started)).
			Msg("pipeline: product generated")
	}
	return records, nil
}

// Render draws a cover for every record. A failing record is logged, counted
// as skipped and does not stop the remaining ones. The covers directory is
// emptied only once a renderer is ready, so a missing font aborts the phase
// with earlier covers left in place.
func (p *Pipeline) Render(ctx context.Context, records []domain.ResultRecord) (Summary, error) {
	renderer := p.renderer
	if renderer == nil {
		fonts, err := cover.LoadFonts(p.fontPath)
		if err != nil {
			return Summary{}, err
		}
		compositor, err := cover.NewCompositor(fonts)
		if err != nil {
			return Summary{}, err
		}
		renderer = compositor
	}
	if err := p.store.ResetCovers(); err != nil {
		return Summary{}, err
	}

	var summary Summary
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		outcome := p.renderOne(ctx, renderer, record.CoverItem())
		summary.Outcomes = append(summary.Outcomes, outcome)
		if outcome.Err != nil {
			summary.Skipped++
			p.logger.Error().
				Err(outcome.Err).
				Str("product_id", outcome.ProductID).
				Bool("render_failure", cover.IsRenderFailure(outcome.Err)).
				Msg("pipeline: cover skipped")
			continue
		}
		summary.Rendered++
		p.logger.Info().
			Str("product_id", outcome.ProductID).
			Str("file", outcome.File).
			Msg("pipeline: cover rendered")
	}
	return summary, nil
}

func (p *Pipeline) renderOne(ctx context.Context, renderer coverRenderer, item domain.CoverItem) Outcome {
	outcome := Outcome{ProductID: item.ProductID}
	data, err := p.fetcher.Fetch(ctx, item.ImageURL)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	png, err := renderer.Render(item, data, p.styles.Resolve(item.Tone))
	if err != nil {
		outcome.Err = err
		return outcome
	}
	key, err := p.store.WriteCover(ctx, item.ProductID, png)
	if err != nil {
		outcome.Err = fmt.Errorf("%w: %w", domain.ErrRender, err)
		return outcome
	}
	outcome.File = key
	return outcome
}

func buildRecord(product domain.Product, c *domain.Copy, asset image.Asset) domain.ResultRecord {
	return domain.ResultRecord{
		ProductID:   product.ProductID,
		Cover:       domain.CoverFilename(product.ProductID),
		Title:       c.Title,
		Content:     c.Content,
		Tags:        c.Tags,
		ProductName: product.Name,
		ImageURL:    asset.URL,
		Tone:        product.Tone,
		CoverTitle:  c.CoverTitle,
		Features:    c.UIFeatures,
		Price:       product.Price.String(),
	}
}
