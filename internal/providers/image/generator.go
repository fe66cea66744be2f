package image

import (
	"context"
	"errors"
	"strings"
	"time"

	"covergen/internal/domain"
	"covergen/internal/infra"
	"covergen/internal/providers/seedream"
	"covergen/internal/style"
)

// errNoAssetURL is reported when a job succeeded but carried no usable URL.
var errNoAssetURL = errors.New("image: no asset url in task result")

// Options wires a Generator.
type Options struct {
	Client         taskClient
	Styles         *style.Table
	PlaceholderURL string
	MaxAttempts    int
	PollInterval   time.Duration
	Logger         *infra.Logger
}

// Generator produces one product photo URL per request. Any failure of the
// remote job degrades to the placeholder URL; Generate never returns an error.
type Generator struct {
	client         taskClient
	styles         *style.Table
	placeholderURL string
	maxAttempts    int
	interval       time.Duration
	logger         *infra.Logger
}

// NewGenerator applies defaults: 25 attempts, 4s interval, via.placeholder.com.
func NewGenerator(opts Options) *Generator {
	styles := opts.Styles
	if styles == nil {
		styles = style.DefaultTable()
	}
	placeholder := strings.TrimSpace(opts.PlaceholderURL)
	if placeholder == "" {
		placeholder = "https://via.placeholder.com/1024"
	}
	attempts := opts.MaxAttempts
	if attempts <= 0 {
		attempts = 25
	}
	interval := opts.PollInterval
	if interval < 0 {
		interval = 4 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.DiscardLogger()
	}
	return &Generator{
		client:         opts.Client,
		styles:         styles,
		placeholderURL: placeholder,
		maxAttempts:    attempts,
		interval:       interval,
		logger:         logger,
	}
}

// PlaceholderURL returns the fallback asset URL.
func (g *Generator) PlaceholderURL() string {
	return g.placeholderURL
}

// Generate submits a job, polls it and extracts the asset URL.
func (g *Generator) Generate(ctx context.Context, req GenerateRequest) Asset {
	started := time.Now()
	if g.client == nil || !g.client.HasCredentials() {
		return g.fallback(req, "", seedream.ErrMissingAPIKey)
	}
	hint := g.styles.Resolve(req.Tone).ImageHint
	var hints []string
	if hint != "" {
		hints = append(hints, hint)
	}
	requestID, err := g.client.Submit(ctx, seedream.SubmitRequest{
		Prompt:     BuildPhotoPrompt(req),
		Size:       req.Size,
		StyleHints: hints,
	})
	if err != nil {
		return g.fallback(req, "", err)
	}
	g.logger.Info().
		Str("product_id", req.ProductID).
		Str("request_id", requestID).
		Msg("image: task submitted")

	snap, err := g.client.Poll(ctx, requestID, g.maxAttempts, g.interval)
	if err != nil {
		return g.fallback(req, requestID, err)
	}
	url, ok := g.client.ExtractAssetURL(snap.Body)
	if !ok {
		return g.fallback(req, requestID, errNoAssetURL)
	}
	g.logger.Info().
		Str("product_id", req.ProductID).
		Str("request_id", requestID).
		Int("attempts", snap.Attempts).
		Dur("elapsed", time.Since(started)).
		Str("url", url).
		Msg("image: asset ready")
	return Asset{URL: url, RequestID: requestID}
}

func (g *Generator) fallback(req GenerateRequest, requestID string, cause error) Asset {
	reason := fallbackReason(cause)
	g.logger.Warn().
		Err(cause).
		Str("product_id", req.ProductID).
		Str("request_id", requestID).
		Str("reason", reason).
		Msg("image: using placeholder asset")
	return Asset{
		URL:         g.placeholderURL,
		RequestID:   requestID,
		Placeholder: true,
		Reason:      reason,
	}
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, seedream.ErrMissingAPIKey):
		return "missing_api_key"
	case errors.Is(err, domain.ErrSubmission):
		return "submission"
	case errors.Is(err, domain.ErrTaskFailed):
		return "task_failed"
	case errors.Is(err, domain.ErrPollTimeout):
		return "poll_timeout"
	case errors.Is(err, errNoAssetURL):
		return "no_asset_url"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "poll_error"
	}
}
