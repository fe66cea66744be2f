package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"covergen/internal/assets"
	"covergen/internal/catalog"
	"covergen/internal/domain"
	"covergen/internal/infra"
	"covergen/internal/pipeline"
	"covergen/internal/preview"
	"covergen/internal/providers/copywriter"
	"covergen/internal/providers/image"
	"covergen/internal/providers/seedream"
	"covergen/internal/storage"
	"covergen/internal/style"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	input := flag.String("input", cfg.InputPath, "product catalog JSON")
	output := flag.String("output", cfg.OutputDir, "output directory")
	renderOnly := flag.Bool("render-only", false, "render covers from an existing results.json")
	viewer := flag.Bool("viewer", true, "write portable_viewer.html after rendering")
	flag.Parse()

	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewFileStore(*output)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare output directory")
	}
	styles := style.DefaultTable()
	fetcher := assets.NewFetcher(assets.FetcherOptions{
		Timeout:            cfg.AssetFetchTimeout,
		InsecureSkipVerify: cfg.AssetTLSInsecure,
		Logger:             &logger,
	})

	tasks := seedream.NewClient(seedream.Options{
		APIKey:             cfg.ImageAPIKey,
		BaseURL:            cfg.ImageBaseURL,
		Model:              cfg.ImageModel,
		DefaultSize:        cfg.ImageSize,
		PlaceholderMarkers: cfg.PlaceholderMarkers,
		RequestTimeout:     cfg.ImageRequestTimeout,
		Logger:             &logger,
	})
	if !tasks.HasCredentials() {
		logger.Warn().Msg("IMAGE_API_KEY not set; every product will use the placeholder image")
	}
	images := image.NewGenerator(image.Options{
		Client:         tasks,
		Styles:         styles,
		PlaceholderURL: cfg.PlaceholderURL,
		MaxAttempts:    cfg.ImagePollAttempts,
		PollInterval:   cfg.ImagePollInterval,
		Logger:         &logger,
	})
	writer := copywriter.NewOpenAIWriter(copywriter.OpenAIOptions{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.TextModel,
		Logger:  &logger,
	})

	p, err := pipeline.New(pipeline.Options{
		Writer:    writer,
		Images:    images,
		Fetcher:   fetcher,
		Styles:    styles,
		Store:     store,
		FontPath:  cfg.FontPath,
		ImageSize: cfg.ImageSize,
		Logger:    &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build pipeline")
	}

	logger.Info().
		Str("image_model", tasks.Model()).
		Str("text_model", writer.Model()).
		Bool("render_only", *renderOnly).
		Msg("providers configured")

	started := time.Now()

	var records []domain.ResultRecord
	if *renderOnly {
		records, err = store.ReadResults()
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to read results.json")
		}
	} else {
		products, err := catalog.LoadProducts(*input)
		if err != nil {
			logger.Fatal().Err(err).Str("input", *input).Msg("failed to load products")
		}
		if len(products) == 0 {
			logger.Fatal().Str("input", *input).Msg("no products to process")
		}
		logger.Info().Int("products", len(products)).Msg("catalog loaded")

		records, err = p.Generate(ctx, products)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Fatal().Err(err).Msg("generation failed")
		}
		// Saved even after an interrupt so a later -render-only run can resume.
		if err := store.WriteResults(context.Background(), records); err != nil {
			logger.Fatal().Err(err).Msg("failed to write results.json")
		}
		if ctx.Err() != nil {
			logger.Warn().Int("records", len(records)).Msg("interrupted after generation; partial results saved")
			return
		}
	}

	summary, err := p.Render(ctx, records)
	if err != nil {
		logger.Fatal().Err(err).Msg("render phase aborted")
	}

	if *viewer {
		if _, err := preview.NewBuilder(store, nil, &logger).Build(ctx); err != nil {
			logger.Error().Err(err).Msg("failed to build viewer")
		}
	}

	logger.Info().
		Int("rendered", summary.Rendered).
		Int("skipped", summary.Skipped).
		Str("output", store.BasePath()).
		Dur("elapsed", time.Since(started)).
		Msg("run complete")
	fmt.Printf("rendered %d, skipped %d, elapsed %.1fs, outputs in %s\n",
		summary.Rendered, summary.Skipped, time.Since(started).Seconds(), store.BasePath())
}
