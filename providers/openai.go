package providers

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"catch-guard/domain"
	errs "catch-guard/errors"

	"github.com/gabriel-vasile/mimetype"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIProvider drives any chat-completions compatible endpoint. Mistral
// and Grok expose the same wire API, so they reuse this implementation with
// a different base URL and provider id.
type OpenAIProvider struct {
	client      openai.Client
	id          string
	model       string
	temperature float64
	maxTokens   int64
}

func NewOpenAIProvider(apiKey, model string, temperature float64, maxTokens int64) *OpenAIProvider {
	return newCompatProvider("openai", apiKey, "", model, temperature, maxTokens)
}

func NewMistralProvider(apiKey, model string, temperature float64, maxTokens int64) *OpenAIProvider {
	return newCompatProvider("mistral", apiKey, "https://api.mistral.ai/v1", model, temperature, maxTokens)
}

func NewGrokProvider(apiKey, model string, temperature float64, maxTokens int64) *OpenAIProvider {
	return newCompatProvider("grok", apiKey, "https://api.x.ai/v1", model, temperature, maxTokens)
}

func newCompatProvider(id, apiKey, baseURL, model string, temperature float64, maxTokens int64) *OpenAIProvider {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIProvider{
		client:      openai.NewClient(opts...),
		id:          id,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

func (p *OpenAIProvider) ID() string { return p.id }

func (p *OpenAIProvider) ModerateText(ctx context.Context, contentType domain.ContentType, content string) (domain.Result, error) {
	return p.call(ctx, contentType, openai.UserMessage(content))
}

func (p *OpenAIProvider) ModerateImage(ctx context.Context, contentType domain.ContentType, content string) (domain.Result, error) {
	imageURL := content
	if !strings.HasPrefix(content, "http://") && !strings.HasPrefix(content, "https://") {
		data, err := os.ReadFile(content)
		if err != nil {
			return domain.Result{}, fmt.Errorf("%w: reading image %q: %v", errs.ErrProviderFailure, content, err)
		}
		mediaType := mimetype.Detect(data).String()
		imageURL = fmt.Sprintf("data:%s;base64,%s", mediaType, base64.StdEncoding.EncodeToString(data))
	}

	message := openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart("Moderate this image."),
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: imageURL}),
	})
	return p.call(ctx, contentType, message)
}

func (p *OpenAIProvider) call(ctx context.Context, contentType domain.ContentType, message openai.ChatCompletionMessageParamUnion) (domain.Result, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(PromptFor(contentType)),
			message,
		},
		Temperature: openai.Float(p.temperature),
		MaxTokens:   openai.Int(p.maxTokens),
	})
	if err != nil {
		return domain.Result{}, fmt.Errorf("%w: %s call: %v", errs.ErrProviderFailure, p.id, err)
	}
	if len(resp.Choices) == 0 {
		return domain.Result{}, fmt.Errorf("%w: %s returned no choices", errs.ErrProviderFailure, p.id)
	}

	return ParseVerdict(resp.Choices[0].Message.Content)
}
