package copywriter

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"covergen/internal/domain"
	"covergen/internal/infra"
	"covergen/internal/style"
)

const (
	openAIDefaultTimeout = 60 * time.Second
	defaultModel         = "ali/qwen3-max"
	copyTemperature      = 0.7
)

// OpenAIOptions configures an OpenAIWriter. Fallback defaults to the static copy.
type OpenAIOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Fallback   Writer
	OnFallback func(reason string, err error)
	Logger     *infra.Logger
}

// OpenAIWriter asks an OpenAI-compatible chat endpoint for JSON copy.
type OpenAIWriter struct {
	client     *openai.Client
	hasKey     bool
	model      string
	fallback   Writer
	onFallback func(reason string, err error)
	logger     *infra.Logger
}

// NewOpenAIWriter builds a writer that never retries on its own.
func NewOpenAIWriter(opts OpenAIOptions) *OpenAIWriter {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: openAIDefaultTimeout}
	}
	reqOpts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(opts.APIKey)),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(strings.TrimRight(base, "/")+"/"))
	}
	client := openai.NewClient(reqOpts...)
	fallback := opts.Fallback
	if fallback == nil {
		fallback = NewStaticWriter()
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.DiscardLogger()
	}
	return &OpenAIWriter{
		client:     &client,
		hasKey:     strings.TrimSpace(opts.APIKey) != "",
		model:      coalesce(opts.Model, defaultModel),
		fallback:   fallback,
		onFallback: opts.OnFallback,
		logger:     logger,
	}
}

// Model returns the chat model name sent with each request.
func (o *OpenAIWriter) Model() string {
	return o.model
}

// Write returns model copy, or the fallback copy with a nil error when the
// call or its payload fails.
func (o *OpenAIWriter) Write(ctx context.Context, product domain.Product) (*domain.Copy, error) {
	if !o.hasKey {
		return o.useFallback(ctx, product, "missing_api_key", nil)
	}
	started := time.Now()
	tone := coalesce(product.Tone, style.DefaultTone)
	params := openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(buildSystemPrompt(tone)),
			openai.UserMessage(buildUserPrompt(product)),
		},
		Temperature: openai.Float(copyTemperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{
				Type: "json_object",
			},
		},
	}
	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return o.useFallback(ctx, product, "http_status", err)
		}
		return o.useFallback(ctx, product, "http_request", err)
	}
	if len(resp.Choices) == 0 {
		return o.useFallback(ctx, product, "empty_choices", errors.New("no choices"))
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return o.useFallback(ctx, product, "empty_response", errors.New("empty response"))
	}
	parsed, err := parseModelPayload[modelCopyPayload](text)
	if err != nil {
		return o.useFallback(ctx, product, "parse_payload", err)
	}
	out := &domain.Copy{
		CoverTitle: coalesce(parsed.CoverTitle, domain.DefaultCoverTitle),
		UIFeatures: trimAll(parsed.UIFeatures),
		Title:      coalesce(parsed.Title, product.Name),
		Content:    strings.TrimSpace(parsed.Content),
		Tags:       normalizeTags(parsed.Tags),
		Provider:   openAIProviderName,
	}
	o.logger.Info().
		Str("product_id", product.ProductID).
		Str("model", o.model).
		Dur("elapsed", time.Since(started)).
		Msg("copywriter: copy generated")
	return out, nil
}

func (o *OpenAIWriter) useFallback(ctx context.Context, product domain.Product, reason string, cause error) (*domain.Copy, error) {
	if o.onFallback != nil {
		o.onFallback(reason, cause)
	}
	o.logger.Warn().
		Err(cause).
		Str("product_id", product.ProductID).
		Str("reason", reason).
		Msg("copywriter: using fallback copy")
	res, err := o.fallback.Write(ctx, product)
	if res != nil && res.Provider == "" {
		res.Provider = staticProviderName
	}
	return res, err
}

var _ Writer = (*OpenAIWriter)(nil)
