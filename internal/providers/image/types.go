package image

import (
	"context"
	"time"

	"covergen/internal/providers/seedream"
)

// GenerateRequest describes the product photo wanted for one cover.
type GenerateRequest struct {
	ProductID    string
	ProductName  string
	SellingPoint string
	Tone         string
	Size         string
}

// Asset is the outcome of one generation. URL is always set; Placeholder
// reports that it is the configured fallback rather than a generated image.
type Asset struct {
	URL         string
	RequestID   string
	Placeholder bool
	Reason      string
}

// taskClient is the subset of seedream.Client the generator drives.
type taskClient interface {
	Submit(ctx context.Context, req seedream.SubmitRequest) (string, error)
	Poll(ctx context.Context, requestID string, maxAttempts int, interval time.Duration) (*seedream.TaskSnapshot, error)
	ExtractAssetURL(body []byte) (string, bool)
	HasCredentials() bool
}

var _ taskClient = (*seedream.Client)(nil)
