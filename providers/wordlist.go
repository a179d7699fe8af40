package providers

import (
	"context"
	"fmt"
	"strings"

	"catch-guard/domain"
	errs "catch-guard/errors"
	"catch-guard/moderation"

	_ "embed"
)

//go:embed wordlist.txt
var defaultWordlist string

// WordlistProvider is the offline backend: a local Aho-Corasick screen over
// a forbidden words list. It is decisive on purpose so pipelines without an
// API key still produce auto-approve/auto-reject outcomes.
type WordlistProvider struct {
	screen *moderation.Screen
}

func NewWordlistProvider(words []string) (*WordlistProvider, error) {
	screen, err := moderation.NewScreen(words)
	if err != nil {
		return nil, err
	}
	return &WordlistProvider{screen: screen}, nil
}

// NewDefaultWordlistProvider builds the provider from the embedded list.
func NewDefaultWordlistProvider() (*WordlistProvider, error) {
	var words []string
	for _, line := range strings.Split(defaultWordlist, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			words = append(words, trimmed)
		}
	}
	return NewWordlistProvider(words)
}

func (p *WordlistProvider) ID() string { return "wordlist" }

func (p *WordlistProvider) ModerateText(_ context.Context, _ domain.ContentType, content string) (domain.Result, error) {
	matches := p.screen.Match(content)
	if len(matches) == 0 {
		return domain.Result{
			Approved:   true,
			Confidence: 0.95,
			Reason:     "No forbidden words found",
		}, nil
	}

	return domain.Result{
		Approved:   false,
		Confidence: 0.95,
		Reason:     fmt.Sprintf("Forbidden words found: %s", strings.Join(matches, ", ")),
		Categories: append([]string{"profanity"}, matches...),
	}, nil
}

func (p *WordlistProvider) ModerateImage(context.Context, domain.ContentType, string) (domain.Result, error) {
	return domain.Result{}, fmt.Errorf("%w: wordlist backend moderates text only", errs.ErrUnsupportedFormat)
}
