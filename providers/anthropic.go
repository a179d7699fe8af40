package providers

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"catch-guard/domain"
	errs "catch-guard/errors"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/gabriel-vasile/mimetype"
)

type AnthropicProvider struct {
	client      *anthropic.Client
	model       string
	temperature float64
	maxTokens   int64
}

func NewAnthropicProvider(apiKey, model string, temperature float64, maxTokens int64) *AnthropicProvider {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)
	return &AnthropicProvider{
		client:      &client,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

func (p *AnthropicProvider) ID() string { return "anthropic" }

func (p *AnthropicProvider) ModerateText(ctx context.Context, contentType domain.ContentType, content string) (domain.Result, error) {
	return p.call(ctx, contentType, anthropic.NewTextBlock(content))
}

func (p *AnthropicProvider) ModerateImage(ctx context.Context, contentType domain.ContentType, content string) (domain.Result, error) {
	if strings.HasPrefix(content, "http://") || strings.HasPrefix(content, "https://") {
		return domain.Result{}, fmt.Errorf("%w: anthropic backend moderates local image files only, got URL %q", errs.ErrProviderFailure, content)
	}

	data, err := os.ReadFile(content)
	if err != nil {
		return domain.Result{}, fmt.Errorf("%w: reading image %q: %v", errs.ErrProviderFailure, content, err)
	}
	mediaType := mimetype.Detect(data).String()

	block := anthropic.NewImageBlockBase64(mediaType, base64.StdEncoding.EncodeToString(data))
	return p.call(ctx, contentType, block)
}

func (p *AnthropicProvider) call(ctx context.Context, contentType domain.ContentType, block anthropic.ContentBlockParamUnion) (domain.Result, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   p.maxTokens,
		Temperature: anthropic.Float(p.temperature),
		System: []anthropic.TextBlockParam{
			{Text: PromptFor(contentType)},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(block),
		},
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return domain.Result{}, fmt.Errorf("%w: anthropic call: %v", errs.ErrProviderFailure, err)
	}

	var text string
	for _, blk := range resp.Content {
		if blk.Type == "text" {
			text += blk.AsText().Text
		}
	}

	return ParseVerdict(text)
}
