// Package copywriter generates short-form marketing copy for product notes.
package copywriter

import (
	"context"

	"covergen/internal/domain"
)

const (
	staticProviderName = "static"
	openAIProviderName = "openai"
)

// Writer produces the copy for one product.
type Writer interface {
	Write(ctx context.Context, product domain.Product) (*domain.Copy, error)
}

// StaticWriter returns fixed copy. It backs the OpenAI writer whenever the
// model is unreachable or answers with something unusable.
type StaticWriter struct{}

func NewStaticWriter() *StaticWriter {
	return &StaticWriter{}
}

func (s *StaticWriter) Write(ctx context.Context, product domain.Product) (*domain.Copy, error) {
	return &domain.Copy{
		CoverTitle: "精选好物",
		UIFeatures: []string{"品质保证", "值得入手"},
		Title:      "发现一款宝藏单品！",
		Content:    "真的太好用了！",
		Tags:       []string{"好物推荐"},
		Provider:   staticProviderName,
	}, nil
}

var _ Writer = (*StaticWriter)(nil)
